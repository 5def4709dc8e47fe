// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The import-alchemy command: one call per line as emitted by the
// alchemy genotype caller, grouped into SNP rows.

package bioinfdata

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"

	log "github.com/sirupsen/logrus"
)

type alchemyImporter struct{}

func (cmd *alchemyImporter) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	inputFilename := flags.String("i", "-", "input alchemy `file`")
	outputFilename := flags.String("o", "-", "output matrix `file`")
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
	m, err := ReadAlchemyCalls(input)
	if err != nil {
		return 1
	}
	log.Infof("imported %d snps x %d samples", m.SNPCount(), m.SampleCount())

	output, err := openOutput(stdout, *outputFilename)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = WriteCallMatrix(output, m)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// ReadAlchemyCalls reads tab-delimited alchemy caller output: 14 columns
// per line, one call per line, column 0 the snp id, column 1 the sample
// id and column 2 the AA/BB/AB call. Lines for the same SNP are adjacent
// and every SNP covers the samples in the same order.
func ReadAlchemyCalls(rdr io.Reader) (*CallMatrix, error) {
	const (
		snpIDCol         = 0
		sampleIDCol      = 1
		abCallCol        = 2
		expectedColCount = 14
	)
	csvr := csv.NewReader(rdr)
	csvr.Comma = '\t'
	m := &CallMatrix{}
	var currRow []byte
	prevSnpID := ""
	for {
		row, err := csvr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrBadInputFormat)
		}
		if len(row) != expectedColCount {
			return nil, fmt.Errorf("expected %d columns but there were %d: %w",
				expectedColCount, len(row), ErrBadInputFormat)
		}
		call, err := alchemyCallValue(row[abCallCol])
		if err != nil {
			return nil, err
		}
		if row[snpIDCol] != prevSnpID {
			if prevSnpID != "" {
				m.calls = append(m.calls, currRow)
				currRow = nil
			}
			prevSnpID = row[snpIDCol]
			m.snpIDs = append(m.snpIDs, prevSnpID)
		}
		currRow = append(currRow, call)
		if len(m.calls) == 0 {
			m.sampleIDs = append(m.sampleIDs, row[sampleIDCol])
		}
	}
	if prevSnpID == "" {
		return nil, ErrEmptyAlchemyFile
	}
	m.calls = append(m.calls, currRow)
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func alchemyCallValue(abCall string) (byte, error) {
	switch abCall {
	case "AA":
		return ACall, nil
	case "BB":
		return BCall, nil
	case "AB":
		return HCall, nil
	}
	return 0, fmt.Errorf("unexpected AB call value %q: %w", abCall, ErrBadInputFormat)
}
