// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The max-k-phylogeny command: the full interval/phylogeny pipeline from
// a matrix file to one CSV row per max-k interval.

package bioinfdata

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// PhylogenyInterval is one pipeline output row: a genome interval and the
// perfect phylogeny inferred for it.
type PhylogenyInterval struct {
	Interval  GenomeInterval
	Phylogeny *PhylogenyTreeNode
}

// chromosomePhylogenies runs the scans and phylogeny builds for one
// chromosome view. ctx is polled between max-k intervals, so a cancelled
// pipeline stops without finishing the chromosome.
func chromosomePhylogenies(ctx context.Context, m GenoMatrix) ([]PhylogenyInterval, error) {
	chrIDs := m.ChrIDs()
	if chrIDs == nil {
		return nil, ErrMissingChromosomeIDs
	}
	positions := m.BpPositions()
	if positions == nil {
		return nil, fmt.Errorf("call matrix has no base-pair positions: %w", ErrBadInputFormat)
	}
	chr := chrIDs[0]
	maxK, err := MaxKScan(m)
	if err != nil {
		return nil, fmt.Errorf("chromosome %s: %w", chr, err)
	}
	phylogenies := make([]PhylogenyInterval, 0, len(maxK))
	for _, interval := range maxK {
		if err := ctx.Err(); err != nil {
			return phylogenies, err
		}
		phylogeny, err := inferPerfectPhylogeny(m, interval)
		if err != nil {
			return nil, fmt.Errorf("chromosome %s: %w", chr, err)
		}
		phylogenies = append(phylogenies, PhylogenyInterval{
			Interval: GenomeInterval{
				Chr:     chr,
				BpStart: positions[interval.Start],
				BpEnd:   positions[interval.End()],
			},
			Phylogeny: phylogeny,
		})
	}
	return phylogenies, nil
}

// MaxKGenomePhylogenies runs the pipeline over every chromosome of m.
// Chromosomes are scanned with up to maxThreads running at once (their
// views are independent) and the rows come back in chromosome order,
// ascending by interval start within each chromosome. When skipFailed is
// true a chromosome whose scan fails is logged and dropped instead of
// aborting the run.
func MaxKGenomePhylogenies(ctx context.Context, m GenoMatrix, maxThreads int, skipFailed bool) ([]PhylogenyInterval, error) {
	views, err := ChromosomeViews(m)
	if err != nil {
		return nil, err
	}
	if maxThreads < 1 {
		maxThreads = runtime.NumCPU()
	}
	results := make([][]PhylogenyInterval, len(views))
	th := throttle{Max: maxThreads}
	for i, view := range views {
		if ctx.Err() != nil {
			break
		}
		i, view := i, view
		th.Acquire()
		go func() {
			defer th.Release()
			rows, err := chromosomePhylogenies(ctx, view)
			if err != nil && skipFailed && ctx.Err() == nil {
				log.Warnf("skipping chromosome %s: %s", view.ChrIDs()[0], err)
				return
			}
			th.Report(err)
			results[i] = rows
		}()
	}
	if err := th.Wait(); err != nil {
		return nil, err
	}
	var flat []PhylogenyInterval
	for _, rows := range results {
		flat = append(flat, rows...)
	}
	return flat, nil
}

type maxKPhylogeny struct {
	tabDelimited bool
	edgeLengths  bool
	skipFailed   bool
	maxThreads   int
}

func (cmd *maxKPhylogeny) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	inputFilename := flags.String("i", "-", "input matrix `file`")
	outputFilename := flags.String("o", "-", "output `file`")
	flags.BoolVar(&cmd.tabDelimited, "tab", false, "tab-delimited output (default: CSV)")
	flags.BoolVar(&cmd.edgeLengths, "edge-lengths", false, "include :1.0 edge lengths in newick output")
	flags.BoolVar(&cmd.skipFailed, "skip-failed-chromosomes", false, "log and skip chromosomes that fail instead of aborting")
	flags.IntVar(&cmd.maxThreads, "threads", runtime.NumCPU(), "number of chromosomes to scan concurrently")
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

	input, err := openInput(stdin, *inputFilename)
	if err != nil {
		return 1
	}
	defer input.Close()
	m, err := ReadCallMatrix(input)
	if err != nil {
		return 1
	}
	if !m.SortedByPosition() {
		log.Warn("matrix is not known to be sorted by position; intervals may be meaningless")
	}
	log.Infof("scanning %d snps x %d samples", m.SNPCount(), m.SampleCount())

	rows, err := MaxKGenomePhylogenies(context.Background(), m, cmd.maxThreads, cmd.skipFailed)
	if err != nil {
		return 1
	}

	output, err := openOutput(stdout, *outputFilename)
	if err != nil {
		return 1
	}
	defer output.Close()
	csvw := csv.NewWriter(output)
	if cmd.tabDelimited {
		csvw.Comma = '\t'
	}
	err = csvw.Write([]string{"chrID", "bpStartPosition", "bpEndPosition", "newickPerfectPhylogeny"})
	if err != nil {
		return 1
	}
	for _, row := range rows {
		err = csvw.Write([]string{
			row.Interval.Chr,
			strconv.FormatInt(row.Interval.BpStart, 10),
			strconv.FormatInt(row.Interval.BpEnd, 10),
			row.Phylogeny.Newick(cmd.edgeLengths),
		})
		if err != nil {
			return 1
		}
	}
	csvw.Flush()
	if err = csvw.Error(); err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	log.Infof("wrote %d phylogenies", len(rows))
	return 0
}
