// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The phylogeny-to-sdp command: turn max-k-phylogeny output back into
// distinct SDP rows, each listing the genome intervals whose phylogeny
// carries that SDP on an edge.

package bioinfdata

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

type phylogenyToSdp struct {
	minMinorCount int
	tabDelimited  bool
}

func (cmd *phylogenyToSdp) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	inputFilename := flags.String("i", "-", "input phylogeny csv `file`")
	outputFilename := flags.String("o", "-", "output `file`")
	flags.IntVar(&cmd.minMinorCount, "minor-count", 1, "minimum `count` of samples on the minor side of an SDP")
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
	phylogenies, err := ReadPhylogenyIntervals(input)
	if err != nil {
		return 1
	}
	output, err := openOutput(stdout, *outputFilename)
	if err != nil {
		return 1
	}
	defer output.Close()
	err = writeSdpRows(output, phylogenies, cmd.minMinorCount, cmd.tabDelimited)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// ReadPhylogenyIntervals parses max-k-phylogeny output: a header row and
// then chrID, bpStartPosition, bpEndPosition, newickPerfectPhylogeny
// columns.
func ReadPhylogenyIntervals(rdr io.Reader) ([]PhylogenyInterval, error) {
	csvr := csv.NewReader(rdr)
	csvr.FieldsPerRecord = 4
	if _, err := csvr.Read(); err != nil {
		return nil, fmt.Errorf("reading header: %w", ErrBadInputFormat)
	}
	var phylogenies []PhylogenyInterval
	for {
		row, err := csvr.Read()
		if err == io.EOF {
			return phylogenies, nil
		} else if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrBadInputFormat)
		}
		bpStart, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad start position %q: %w", row[1], ErrBadInputFormat)
		}
		bpEnd, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad end position %q: %w", row[2], ErrBadInputFormat)
		}
		tree, err := ParseNewick(row[3])
		if err != nil {
			return nil, err
		}
		phylogenies = append(phylogenies, PhylogenyInterval{
			Interval:  GenomeInterval{Chr: row[0], BpStart: bpStart, BpEnd: bpEnd},
			Phylogeny: tree,
		})
	}
}

// writeSdpRows aggregates the SDPs of all phylogenies. Identical bitsets
// from different intervals merge into one output row; rows come out in
// bit-string order so a rerun produces identical output.
func writeSdpRows(w io.Writer, phylogenies []PhylogenyInterval, minMinorCount int, tabDelimited bool) error {
	if len(phylogenies) == 0 {
		return fmt.Errorf("no phylogenies in input: %w", ErrBadInputFormat)
	}
	strainNames := phylogenies[0].Phylogeny.AllStrains()
	sort.Strings(strainNames)

	type sdpIntervals struct {
		bits      string
		intervals []GenomeInterval
	}
	aggregated := map[[blake2b.Size256]byte]*sdpIntervals{}
	for _, phylogeny := range phylogenies {
		sdps, err := phylogeny.Phylogeny.Sdps(strainNames, minMinorCount)
		if err != nil {
			return err
		}
		for _, bits := range sdps {
			bitString := sdpBitString(bits, len(strainNames))
			key := blake2b.Sum256([]byte(bitString))
			ent := aggregated[key]
			if ent == nil {
				ent = &sdpIntervals{bits: bitString}
				aggregated[key] = ent
			}
			ent.intervals = append(ent.intervals, phylogeny.Interval)
		}
	}
	rows := make([]*sdpIntervals, 0, len(aggregated))
	for _, ent := range aggregated {
		rows = append(rows, ent)
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].bits < rows[b].bits })

	csvw := csv.NewWriter(w)
	if tabDelimited {
		csvw.Comma = '\t'
	}
	if err := csvw.Write(append(append([]string(nil), strainNames...), "genomicIntervals")); err != nil {
		return err
	}
	record := make([]string, len(strainNames)+1)
	for _, ent := range rows {
		for i := 0; i < len(strainNames); i++ {
			record[i] = string(ent.bits[i])
		}
		parts := make([]string, len(ent.intervals))
		for i, iv := range ent.intervals {
			parts[i] = fmt.Sprintf("%s;%d;%d", iv.Chr, iv.BpStart, iv.BpEnd)
		}
		record[len(strainNames)] = strings.Join(parts, "|")
		if err := csvw.Write(record); err != nil {
			return err
		}
	}
	csvw.Flush()
	return csvw.Error()
}
