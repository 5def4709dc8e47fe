// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"sort"
)

// subsetView is a read-only window of extent contiguous SNPs starting at
// start on the underlying matrix. It borrows the matrix and never copies
// row data.
type subsetView struct {
	matrix GenoMatrix
	start  int
	extent int
}

func (v *subsetView) SNPCount() int         { return v.extent }
func (v *subsetView) SampleCount() int      { return v.matrix.SampleCount() }
func (v *subsetView) SNPCalls(i int) []byte { return v.matrix.SNPCalls(v.start + i) }
func (v *subsetView) SampleIDs() []string   { return v.matrix.SampleIDs() }
func (v *subsetView) SNPIDs() []string {
	return subsetStrings(v.matrix.SNPIDs(), v.start, v.extent)
}
func (v *subsetView) ChrIDs() []string {
	return subsetStrings(v.matrix.ChrIDs(), v.start, v.extent)
}
func (v *subsetView) BpPositions() []int64 {
	if pos := v.matrix.BpPositions(); pos != nil {
		return pos[v.start : v.start+v.extent]
	}
	return nil
}
func (v *subsetView) AAlleles() []byte {
	return subsetBytes(v.matrix.AAlleles(), v.start, v.extent)
}
func (v *subsetView) BAlleles() []byte {
	return subsetBytes(v.matrix.BAlleles(), v.start, v.extent)
}
func (v *subsetView) BuildID() string        { return v.matrix.BuildID() }
func (v *subsetView) SortedByPosition() bool { return v.matrix.SortedByPosition() }

func (v *subsetView) SetCalls([][]byte) error              { return ErrUnsupportedOnView }
func (v *subsetView) SetSampleIDs([]string) error          { return ErrUnsupportedOnView }
func (v *subsetView) SetSNPIDs([]string) error             { return ErrUnsupportedOnView }
func (v *subsetView) SetChrIDs([]string) error             { return ErrUnsupportedOnView }
func (v *subsetView) SetBpPositions([]int64, string) error { return ErrUnsupportedOnView }
func (v *subsetView) SetAAlleles([]byte) error             { return ErrUnsupportedOnView }
func (v *subsetView) SetBAlleles([]byte) error             { return ErrUnsupportedOnView }
func (v *subsetView) SetSortedByPosition(bool) error       { return ErrUnsupportedOnView }

func subsetStrings(arr []string, start, extent int) []string {
	if arr == nil {
		return nil
	}
	return arr[start : start+extent]
}

func subsetBytes(arr []byte, start, extent int) []byte {
	if arr == nil {
		return nil
	}
	return arr[start : start+extent]
}

// reverseView flips the SNP order of the underlying matrix: view index i
// maps to snpCount-1-i underneath. Per-SNP annotation arrays come back
// reversed; sample ids and the byte order within each row are untouched.
type reverseView struct {
	matrix   GenoMatrix
	snpCount int
}

func (v *reverseView) SNPCount() int         { return v.snpCount }
func (v *reverseView) SampleCount() int      { return v.matrix.SampleCount() }
func (v *reverseView) SNPCalls(i int) []byte { return v.matrix.SNPCalls(v.snpCount - 1 - i) }
func (v *reverseView) SampleIDs() []string   { return v.matrix.SampleIDs() }
func (v *reverseView) SNPIDs() []string      { return reversedStrings(v.matrix.SNPIDs()) }
func (v *reverseView) ChrIDs() []string      { return reversedStrings(v.matrix.ChrIDs()) }
func (v *reverseView) BpPositions() []int64 {
	pos := v.matrix.BpPositions()
	if pos == nil {
		return nil
	}
	out := make([]int64, len(pos))
	for i, p := range pos {
		out[len(pos)-1-i] = p
	}
	return out
}
func (v *reverseView) AAlleles() []byte       { return reversedBytes(v.matrix.AAlleles()) }
func (v *reverseView) BAlleles() []byte       { return reversedBytes(v.matrix.BAlleles()) }
func (v *reverseView) BuildID() string        { return v.matrix.BuildID() }
func (v *reverseView) SortedByPosition() bool { return false }

func (v *reverseView) SetCalls([][]byte) error              { return ErrUnsupportedOnView }
func (v *reverseView) SetSampleIDs([]string) error          { return ErrUnsupportedOnView }
func (v *reverseView) SetSNPIDs([]string) error             { return ErrUnsupportedOnView }
func (v *reverseView) SetChrIDs([]string) error             { return ErrUnsupportedOnView }
func (v *reverseView) SetBpPositions([]int64, string) error { return ErrUnsupportedOnView }
func (v *reverseView) SetAAlleles([]byte) error             { return ErrUnsupportedOnView }
func (v *reverseView) SetBAlleles([]byte) error             { return ErrUnsupportedOnView }
func (v *reverseView) SetSortedByPosition(bool) error       { return ErrUnsupportedOnView }

func reversedStrings(arr []string) []string {
	if arr == nil {
		return nil
	}
	out := make([]string, len(arr))
	for i, s := range arr {
		out[len(arr)-1-i] = s
	}
	return out
}

func reversedBytes(arr []byte) []byte {
	if arr == nil {
		return nil
	}
	out := make([]byte, len(arr))
	for i, b := range arr {
		out[len(arr)-1-i] = b
	}
	return out
}

// ReverseView returns a view of m with the SNP order flipped.
func ReverseView(m GenoMatrix) GenoMatrix {
	return &reverseView{matrix: m, snpCount: m.SNPCount()}
}

// SubsetView returns a read-only view of extent contiguous SNPs starting
// at start.
func SubsetView(m GenoMatrix, start, extent int) GenoMatrix {
	return &subsetView{matrix: m, start: start, extent: extent}
}

// ChromosomeViews partitions m into one view per maximal contiguous run
// of identical chromosome id, returned in chromosome order (numbered
// chromosomes first, then X, Y, M). Every SNP of m appears in exactly one
// view. Fails when the matrix has no chromosome ids or a name does not
// parse.
func ChromosomeViews(m GenoMatrix) ([]GenoMatrix, error) {
	chrIDs := m.ChrIDs()
	if chrIDs == nil {
		return nil, ErrMissingChromosomeIDs
	}
	type run struct {
		start, extent int
		rank          int64
	}
	var runs []run
	for i := 0; i < len(chrIDs); {
		j := i + 1
		for j < len(chrIDs) && chrIDs[j] == chrIDs[i] {
			j++
		}
		rank, err := chromosomeRank(chrIDs[i])
		if err != nil {
			return nil, err
		}
		runs = append(runs, run{start: i, extent: j - i, rank: rank})
		i = j
	}
	sort.SliceStable(runs, func(a, b int) bool { return runs[a].rank < runs[b].rank })
	views := make([]GenoMatrix, len(runs))
	for i, r := range runs {
		views[i] = &subsetView{matrix: m, start: r.start, extent: r.extent}
	}
	return views, nil
}
