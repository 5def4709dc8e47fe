// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// The sort command: reorder a matrix by (chromosome, position) so the
// chromosome views and interval scans line up with the genome.

package bioinfdata

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"sort"

	log "github.com/sirupsen/logrus"
)

type sorter struct{}

func (cmd *sorter) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	m, err := ReadCallMatrix(input)
	if err != nil {
		return 1
	}
	err = SortCallMatrix(m)
	if err != nil {
		return 1
	}
	log.Infof("sorted %d snps", m.SNPCount())

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

// SortCallMatrix reorders the SNPs of m in place into (chromosome,
// position) order and sets the sorted-by-position flag. Chromosome ids
// are required; positions are optional, in which case the sort is by
// chromosome only and the original order is kept within each chromosome.
func SortCallMatrix(m *CallMatrix) error {
	if m.chrIDs == nil {
		return ErrMissingChromosomeIDs
	}
	ranks := make([]int64, len(m.chrIDs))
	for i, chr := range m.chrIDs {
		rank, err := chromosomeRank(chr)
		if err != nil {
			return err
		}
		ranks[i] = rank
	}
	order := make([]int, m.SNPCount())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if ranks[ia] != ranks[ib] {
			return ranks[ia] < ranks[ib]
		}
		if m.bpPositions != nil {
			return m.bpPositions[ia] < m.bpPositions[ib]
		}
		return false
	})
	m.calls = permuteRows(m.calls, order)
	m.snpIDs = permuteStrings(m.snpIDs, order)
	m.chrIDs = permuteStrings(m.chrIDs, order)
	m.bpPositions = permuteInt64s(m.bpPositions, order)
	m.aAlleles = permuteBytes(m.aAlleles, order)
	m.bAlleles = permuteBytes(m.bAlleles, order)
	m.sortedByPosition = m.bpPositions != nil
	return nil
}

func permuteRows(arr [][]byte, order []int) [][]byte {
	if arr == nil {
		return nil
	}
	out := make([][]byte, len(arr))
	for i, j := range order {
		out[i] = arr[j]
	}
	return out
}

func permuteStrings(arr []string, order []int) []string {
	if arr == nil {
		return nil
	}
	out := make([]string, len(arr))
	for i, j := range order {
		out[i] = arr[j]
	}
	return out
}

func permuteInt64s(arr []int64, order []int) []int64 {
	if arr == nil {
		return nil
	}
	out := make([]int64, len(arr))
	for i, j := range order {
		out[i] = arr[j]
	}
	return out
}

func permuteBytes(arr []byte, order []int) []byte {
	if arr == nil {
		return nil
	}
	out := make([]byte, len(arr))
	for i, j := range order {
		out[i] = arr[j]
	}
	return out
}
