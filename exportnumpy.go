// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The export-numpy command: matrix file in, int8 .npy matrix out for
// downstream numeric kernels, with optional label and annotation CSVs.

package bioinfdata

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

type exportNumpy struct{}

func (cmd *exportNumpy) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	outputFilename := flags.String("o", "-", "output .npy `file`")
	labelsFilename := flags.String("output-labels", "", "also output sample labels csv `file`")
	annotationsFilename := flags.String("output-annotations", "", "also output snp annotations csv `file`")
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
	bufw := bufio.NewWriter(output)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return 1
	}
	rows, cols := m.SNPCount(), m.SampleCount()
	out := make([]int8, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for _, call := range m.SNPCalls(i) {
			out = append(out, int8(call))
		}
	}
	npw.Shape = []int{rows, cols}
	err = npw.WriteInt8(out)
	if err != nil {
		return 1
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}

	if *labelsFilename != "" {
		err = writeSampleLabels(*labelsFilename, m.SampleIDs())
		if err != nil {
			return 1
		}
	}
	if *annotationsFilename != "" {
		err = writeSnpAnnotations(*annotationsFilename, m)
		if err != nil {
			return 1
		}
	}
	return 0
}

func writeSampleLabels(filename string, sampleIDs []string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0777)
	if err != nil {
		return err
	}
	defer f.Close()
	for i, id := range sampleIDs {
		_, err = fmt.Fprintf(f, "%d,%q\n", i, id)
		if err != nil {
			return err
		}
	}
	return f.Close()
}

func writeSnpAnnotations(filename string, m GenoMatrix) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0777)
	if err != nil {
		return err
	}
	defer f.Close()
	csvw := csv.NewWriter(f)
	snpIDs := m.SNPIDs()
	chrIDs := m.ChrIDs()
	positions := m.BpPositions()
	for i := 0; i < m.SNPCount(); i++ {
		row := []string{strconv.Itoa(i), "", "", ""}
		if snpIDs != nil {
			row[1] = snpIDs[i]
		}
		if chrIDs != nil {
			row[2] = chrIDs[i]
		}
		if positions != nil {
			row[3] = strconv.FormatInt(positions[i], 10)
		}
		if err := csvw.Write(row); err != nil {
			return err
		}
	}
	csvw.Flush()
	if err := csvw.Error(); err != nil {
		return err
	}
	return f.Close()
}
