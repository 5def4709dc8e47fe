// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

// IndexedSnpInterval is a contiguous run of SNP indices. Extent counts
// indices, so End is inclusive and Extent is always at least 1.
type IndexedSnpInterval struct {
	Start  int
	Extent int
}

// End returns the inclusive last index of the interval.
func (iv IndexedSnpInterval) End() int { return iv.Start + iv.Extent - 1 }

// Contains reports whether other lies entirely within iv.
func (iv IndexedSnpInterval) Contains(other IndexedSnpInterval) bool {
	return iv.Start <= other.Start && iv.End() >= other.End()
}

// Intersects reports whether the closed index ranges overlap.
func (iv IndexedSnpInterval) Intersects(other IndexedSnpInterval) bool {
	return iv.Start <= other.End() && other.Start <= iv.End()
}

// less orders intervals by start index, then extent.
func (iv IndexedSnpInterval) less(other IndexedSnpInterval) bool {
	if iv.Start != other.Start {
		return iv.Start < other.Start
	}
	return iv.Extent < other.Extent
}

// reverseIndexedIntervals mirrors intervals produced by a scan of a
// reverse view back onto forward indices: each interval flips around the
// midpoint of [0, totalSnpCount) and the list order is reversed so the
// result is ascending again. Applying it twice is the identity.
func reverseIndexedIntervals(intervals []IndexedSnpInterval, totalSnpCount int) []IndexedSnpInterval {
	out := make([]IndexedSnpInterval, len(intervals))
	for i, iv := range intervals {
		out[len(intervals)-1-i] = IndexedSnpInterval{
			Start:  totalSnpCount - iv.Start - iv.Extent,
			Extent: iv.Extent,
		}
	}
	return out
}

// GenomeInterval is a chromosome range in base pairs, inclusive of both
// ends.
type GenomeInterval struct {
	Chr     string
	BpStart int64
	BpEnd   int64
}

// CompareGenomeIntervals orders intervals by chromosome under the
// chromosome ordering, then by start and end position. Base-pair
// comparisons are by int64 sign.
func CompareGenomeIntervals(a, b GenomeInterval) (int, error) {
	if comp, err := CompareChromosomes(a.Chr, b.Chr); err != nil || comp != 0 {
		return comp, err
	}
	if comp := compareInt64(a.BpStart, b.BpStart); comp != 0 {
		return comp, nil
	}
	return compareInt64(a.BpEnd, b.BpEnd), nil
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
