// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The export command: matrix file in, flat CSV/TSV genotype calls out.

package bioinfdata

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type exporter struct {
	tabDelimited bool
}

func (cmd *exporter) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	outputFilename := flags.String("o", "-", "output `file`")
	flags.BoolVar(&cmd.tabDelimited, "tab", false, "tab-delimited output (default: CSV)")
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
	err = WriteFlatFile(output, m, cmd.tabDelimited)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// WriteFlatFile writes m as a flat file: the per-SNP annotation columns
// that are present, in snpID, aAllele, bAllele, chrID, bpPosition order,
// followed by one call column per sample. Calls are written as decimal
// codes with no-calls as -1.
func WriteFlatFile(w io.Writer, m GenoMatrix, tabDelimited bool) error {
	csvw := csv.NewWriter(w)
	if tabDelimited {
		csvw.Comma = '\t'
	}
	snpIDs := m.SNPIDs()
	aAlleles := m.AAlleles()
	bAlleles := m.BAlleles()
	chrIDs := m.ChrIDs()
	positions := m.BpPositions()
	haveAlleles := aAlleles != nil && bAlleles != nil

	var header []string
	if snpIDs != nil {
		header = append(header, snpIDsName)
	}
	if haveAlleles {
		header = append(header, aAllelesName, bAllelesName)
	}
	if chrIDs != nil {
		header = append(header, chrIDsName)
	}
	if positions != nil {
		header = append(header, bpPositionsName)
	}
	header = append(header, m.SampleIDs()...)
	if err := csvw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i := 0; i < m.SNPCount(); i++ {
		row = row[:0]
		if snpIDs != nil {
			row = append(row, snpIDs[i])
		}
		if haveAlleles {
			row = append(row, string(aAlleles[i]), string(bAlleles[i]))
		}
		if chrIDs != nil {
			row = append(row, chrIDs[i])
		}
		if positions != nil {
			row = append(row, strconv.FormatInt(positions[i], 10))
		}
		for _, call := range m.SNPCalls(i) {
			row = append(row, callToString(call))
		}
		if err := csvw.Write(row); err != nil {
			return err
		}
	}
	csvw.Flush()
	return csvw.Error()
}
