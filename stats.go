// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The stats command: descriptive JSON summary of a matrix file. Counts
// and rates only; association testing is a separate system.

package bioinfdata

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

type statscmd struct{}

func (cmd *statscmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	inputFilename := flags.String("i", "-", "input matrix `file`")
	outputFilename := flags.String("o", "-", "output json `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	input, err := openInput(stdin, *inputFilename)
	if err != nil {
		return 1
	}
	defer input.Close()
	m, err := ReadCallMatrix(input)
	if err != nil {
		return 1
	}
	output, err := openOutput(stdout, *outputFilename)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = doStats(m, output)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

func doStats(m GenoMatrix, output io.Writer) error {
	var ret struct {
		SNPs                     int
		Samples                  int
		Chromosomes              int `json:",omitempty"`
		ACalls                   int64
		BCalls                   int64
		HCalls                   int64
		NoCalls                  int64
		MeanCallRate             float64
		CallRateQuartiles        [3]float64
		MeanMinorAlleleFreq      float64
		MinorAlleleFreqQuartiles [3]float64
		SortedByPosition         bool
		BuildID                  string `json:",omitempty"`
	}
	ret.SNPs = m.SNPCount()
	ret.Samples = m.SampleCount()
	ret.SortedByPosition = m.SortedByPosition()
	ret.BuildID = m.BuildID()
	if chrIDs := m.ChrIDs(); chrIDs != nil {
		distinct := map[string]bool{}
		for _, chr := range chrIDs {
			distinct[chr] = true
		}
		ret.Chromosomes = len(distinct)
	}

	callRates := make([]float64, 0, ret.SNPs)
	minorFreqs := make([]float64, 0, ret.SNPs)
	for i := 0; i < ret.SNPs; i++ {
		var a, b, h, n int64
		for _, call := range m.SNPCalls(i) {
			switch call {
			case ACall:
				a++
			case BCall:
				b++
			case HCall:
				h++
			default:
				n++
			}
		}
		ret.ACalls += a
		ret.BCalls += b
		ret.HCalls += h
		ret.NoCalls += n
		if ret.Samples > 0 {
			callRates = append(callRates, float64(a+b+h)/float64(ret.Samples))
		}
		if a+b > 0 {
			minor := a
			if b < a {
				minor = b
			}
			minorFreqs = append(minorFreqs, float64(minor)/float64(a+b))
		}
	}
	sort.Float64s(callRates)
	sort.Float64s(minorFreqs)
	if len(callRates) > 0 {
		ret.MeanCallRate = stat.Mean(callRates, nil)
		for i, q := range []float64{0.25, 0.5, 0.75} {
			ret.CallRateQuartiles[i] = stat.Quantile(q, stat.Empirical, callRates, nil)
		}
	}
	if len(minorFreqs) > 0 {
		ret.MeanMinorAlleleFreq = stat.Mean(minorFreqs, nil)
		for i, q := range []float64{0.25, 0.5, 0.75} {
			ret.MinorAlleleFreqQuartiles[i] = stat.Quantile(q, stat.Empirical, minorFreqs, nil)
		}
	}
	enc := json.NewEncoder(output)
	enc.SetIndent("", "\t")
	return enc.Encode(ret)
}
