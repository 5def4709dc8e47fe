// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The import command: flat-file CSV/TSV genotype calls in, matrix file
// out.

package bioinfdata

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
)

type importer struct {
	tabDelimited bool
	aAlleleCol   int
	bAlleleCol   int
	snpIDCol     int
	chrCol       int
	bpPosCol     int
	buildID      string
	firstGenoCol int
	lastGenoCol  int
}

func (cmd *importer) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	loglevel := flags.String("loglevel", "info", "logging `level` (debug, info, ...)")
	outputFilename := flags.String("o", "-", "output matrix `file`")
	flags.BoolVar(&cmd.tabDelimited, "tab", false, "tab-delimited input (default: CSV)")
	flags.IntVar(&cmd.snpIDCol, "snp-id-col", -1, "zero-based snp id `column` (-1 = absent)")
	flags.IntVar(&cmd.aAlleleCol, "a-allele-col", -1, "zero-based A allele `column` (-1 = absent)")
	flags.IntVar(&cmd.bAlleleCol, "b-allele-col", -1, "zero-based B allele `column` (-1 = absent)")
	flags.IntVar(&cmd.chrCol, "chr-col", -1, "zero-based chromosome `column` (-1 = absent)")
	flags.IntVar(&cmd.bpPosCol, "bp-position-col", -1, "zero-based base-pair position `column` (-1 = absent)")
	flags.StringVar(&cmd.buildID, "build-id", "", "genome build `id` for the position column")
	flags.IntVar(&cmd.firstGenoCol, "first-geno-col", 0, "zero-based first genotype `column`")
	flags.IntVar(&cmd.lastGenoCol, "last-geno-col", -1, "zero-based exclusive last genotype `column` (-1 = through end)")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	lvl, err := log.ParseLevel(*loglevel)
	if err != nil {
		return 2
	}
	log.SetLevel(lvl)
	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}
	if len(flags.Args()) == 0 {
		err = fmt.Errorf("no input files specified")
		return 2
	}

	m, err := cmd.readCallMatrix(flags.Args())
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

// readCallMatrix ingests one or more flat files. The first row of each
// file is a header and the headers must be identical across files; data
// rows are SNPs. Files ending in ".gz" are decompressed on the fly.
func (cmd *importer) readCallMatrix(filenames []string) (*CallMatrix, error) {
	m := &CallMatrix{}
	var header []string
	sorted := true
	prev := GenomeInterval{BpStart: -1}
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		var rdr io.Reader = f
		if strings.HasSuffix(filename, ".gz") {
			gzr, err := pgzip.NewReader(f)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
			rdr = gzr
		}
		header, sorted, prev, err = cmd.readFile(m, rdr, header, sorted, prev)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	m.sortedByPosition = sorted && m.chrIDs != nil && m.bpPositions != nil
	allelesSeen := false
	for i := range m.aAlleles {
		if m.aAlleles[i] != 0 || m.bAlleles[i] != 0 {
			allelesSeen = true
			break
		}
	}
	if !allelesSeen {
		m.aAlleles, m.bAlleles = nil, nil
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (cmd *importer) readFile(m *CallMatrix, rdr io.Reader, header []string, sorted bool, prev GenomeInterval) ([]string, bool, GenomeInterval, error) {
	csvr := csv.NewReader(rdr)
	if cmd.tabDelimited {
		csvr.Comma = '\t'
	}
	fileHeader, err := csvr.Read()
	if err != nil {
		return nil, false, prev, fmt.Errorf("reading header: %w", ErrBadInputFormat)
	}
	if header == nil {
		header = fileHeader
		lastGeno := cmd.lastGenoCol
		if lastGeno < 0 {
			lastGeno = len(header)
		}
		if cmd.firstGenoCol >= lastGeno || lastGeno > len(header) {
			return nil, false, prev, fmt.Errorf("genotype columns [%d,%d) out of range for %d header columns: %w",
				cmd.firstGenoCol, lastGeno, len(header), ErrBadInputFormat)
		}
		m.sampleIDs = header[cmd.firstGenoCol:lastGeno]
	} else if !reflect.DeepEqual(header, fileHeader) {
		return nil, false, prev, fmt.Errorf("header does not match the first file's header: %w", ErrBadInputFormat)
	}
	lastGeno := cmd.lastGenoCol
	if lastGeno < 0 {
		lastGeno = len(header)
	}
	for {
		row, err := csvr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, false, prev, fmt.Errorf("%v: %w", err, ErrBadInputFormat)
		}
		if len(row) != len(header) {
			return nil, false, prev, fmt.Errorf("row has %d columns, header has %d: %w",
				len(row), len(header), ErrBadInputFormat)
		}
		var aAllele, bAllele string
		if cmd.aAlleleCol >= 0 {
			aAllele = row[cmd.aAlleleCol]
		}
		if cmd.bAlleleCol >= 0 {
			bAllele = row[cmd.bAlleleCol]
		}
		calls, aAllele, bAllele := ToCallValues(aAllele, bAllele, row[cmd.firstGenoCol:lastGeno])
		m.calls = append(m.calls, calls)
		m.aAlleles = append(m.aAlleles, firstByte(aAllele))
		m.bAlleles = append(m.bAlleles, firstByte(bAllele))
		if cmd.snpIDCol >= 0 {
			m.snpIDs = append(m.snpIDs, row[cmd.snpIDCol])
		}
		var curr GenomeInterval
		if cmd.chrCol >= 0 {
			curr.Chr = row[cmd.chrCol]
			m.chrIDs = append(m.chrIDs, curr.Chr)
		}
		if cmd.bpPosCol >= 0 {
			pos, err := strconv.ParseInt(row[cmd.bpPosCol], 10, 64)
			if err != nil {
				return nil, false, prev, fmt.Errorf("bad base-pair position %q: %w",
					row[cmd.bpPosCol], ErrBadInputFormat)
			}
			curr.BpStart = pos
			curr.BpEnd = pos
			m.bpPositions = append(m.bpPositions, pos)
			m.buildID = cmd.buildID
		}
		if sorted && cmd.chrCol >= 0 && cmd.bpPosCol >= 0 {
			if prev.Chr != "" {
				comp, err := CompareGenomeIntervals(prev, curr)
				if err != nil || comp > 0 {
					sorted = false
				}
			}
			prev = curr
		}
	}
	return header, sorted, prev, nil
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return strings.ToUpper(s)[0]
}
