// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

// Compatible-interval scans over a genotype call matrix. A compatible
// interval is a contiguous run of SNPs whose differences can all be
// explained under the infinite-sites assumption, which is what makes a
// perfect phylogeny possible for the run.

package bioinfdata

import (
	"bytes"
	"fmt"
)

// greedyScan partitions [0, snpCount) into compatible intervals, extending
// each interval as far right as the four-gamete test allows. The result is
// contiguous, disjoint and covers every SNP.
func greedyScan(m GenoMatrix) []IndexedSnpInterval {
	var intervals []IndexedSnpInterval
	snpCount := m.SNPCount()
	start := 0
	var intervalSdps [][]byte
	for start < snpCount {
		intervalSdps = append(intervalSdps[:0], m.SNPCalls(start))
		next := start + 1
		for next < snpCount {
			var ok bool
			intervalSdps, ok = checkCompatibilityAndAddSdp(intervalSdps, m.SNPCalls(next))
			if !ok {
				break
			}
			next++
		}
		intervals = append(intervals, IndexedSnpInterval{Start: start, Extent: next - start})
		start = next
	}
	return intervals
}

// checkCompatibilityAndAddSdp tests sdpToAdd against every SDP already in
// the interval. A duplicate row is compatible and not re-added; a conflict
// leaves the list untouched and reports false.
func checkCompatibilityAndAddSdp(intervalSdps [][]byte, sdpToAdd []byte) ([][]byte, bool) {
	for _, curr := range intervalSdps {
		if bytes.Equal(sdpToAdd, curr) {
			return intervalSdps, true
		}
		if !sdpsCompatible(sdpToAdd, curr) {
			return intervalSdps, false
		}
	}
	return append(intervalSdps, sdpToAdd), true
}

// sdpIndexPair remembers which SNP index an SDP row came from.
type sdpIndexPair struct {
	sdpBits []byte
	index   int
}

// uberScan produces every maximal right-extending compatible run. Unlike
// the greedy partition the runs may overlap: after a conflict with the SDP
// from index q, the next run starts at q+1 and the still-valid suffix of
// the working list carries over, so the sweep stays a single pass.
func uberScan(m GenoMatrix) []IndexedSnpInterval {
	snpCount := m.SNPCount()
	if snpCount == 0 {
		return nil
	}
	var intervals []IndexedSnpInterval
	var intervalSdps []sdpIndexPair
	start := 0
	for k := 0; k < snpCount; k++ {
		var conflict int
		intervalSdps, conflict = testCompatibleAndUberAdd(intervalSdps, m.SNPCalls(k), k)
		if conflict != -1 {
			intervals = append(intervals, IndexedSnpInterval{Start: start, Extent: k - start})
			start = conflict + 1
		}
	}
	return append(intervals, IndexedSnpInterval{Start: start, Extent: snpCount - start})
}

// testCompatibleAndUberAdd walks the working list from newest to oldest.
// A duplicate row moves to the end with its index refreshed. A conflict
// drops the conflicting entry and everything older, appends the new row,
// and returns the conflicting row's SNP index; otherwise -1.
func testCompatibleAndUberAdd(intervalSdps []sdpIndexPair, sdpToAdd []byte, sdpIndex int) ([]sdpIndexPair, int) {
	for i := len(intervalSdps) - 1; i >= 0; i-- {
		curr := intervalSdps[i]
		if bytes.Equal(sdpToAdd, curr.sdpBits) {
			copy(intervalSdps[i:], intervalSdps[i+1:])
			intervalSdps[len(intervalSdps)-1] = sdpIndexPair{sdpBits: sdpToAdd, index: sdpIndex}
			return intervalSdps, -1
		}
		if !sdpsCompatible(sdpToAdd, curr.sdpBits) {
			retained := append(intervalSdps[i+1:], sdpIndexPair{sdpBits: sdpToAdd, index: sdpIndex})
			return retained, curr.index
		}
	}
	return append(intervalSdps, sdpIndexPair{sdpBits: sdpToAdd, index: sdpIndex}), -1
}

// coreIntervals pairs the forward and reverse greedy partitions: the k-th
// core spans from the k-th forward interval's start to the k-th reverse
// interval's end. The two partitions always have the same length.
func coreIntervals(forward, reverse []IndexedSnpInterval) ([]IndexedSnpInterval, error) {
	if len(forward) != len(reverse) {
		return nil, fmt.Errorf("forward and reverse greedy scans disagree: %d vs %d intervals",
			len(forward), len(reverse))
	}
	cores := make([]IndexedSnpInterval, len(forward))
	for k := range forward {
		start := forward[k].Start
		end := reverse[k].End()
		if start > end {
			return nil, fmt.Errorf("core %d is inverted: forward start %d > reverse end %d",
				k, start, end)
		}
		cores[k] = IndexedSnpInterval{Start: start, Extent: end - start + 1}
	}
	return cores, nil
}

// uberCores groups, per core, the uber intervals that could still become
// max-k intervals: an uber interval qualifies for core k iff it contains
// core k and intersects neither core k-1 nor core k+1. Each group comes
// back non-empty and sorted by start.
func uberCores(uberIntervals, cores []IndexedSnpInterval) ([][]IndexedSnpInterval, error) {
	if len(uberIntervals) < len(cores) {
		return nil, fmt.Errorf("%d uber intervals cannot cover %d cores",
			len(uberIntervals), len(cores))
	}
	if len(cores) == 0 {
		return nil, nil
	}
	groups := make([][]IndexedSnpInterval, 0, len(cores))
	coreIndex := 0
	var prevCore, nextCore *IndexedSnpInterval
	currCore := &cores[0]
	if len(cores) > 1 {
		nextCore = &cores[1]
	}
	var group []IndexedSnpInterval
	for i := 0; i < len(uberIntervals) && currCore != nil; i++ {
		uber := uberIntervals[i]
		if uber.Start > currCore.End() {
			if len(group) == 0 {
				return nil, fmt.Errorf("no uber interval qualifies for core %d", coreIndex)
			}
			groups = append(groups, group)
			group = nil
			coreIndex++
			prevCore = currCore
			currCore = nextCore
			nextCore = nil
			if coreIndex+1 < len(cores) {
				nextCore = &cores[coreIndex+1]
			}
		}
		if currCore == nil {
			break
		}
		if uber.Contains(*currCore) &&
			(prevCore == nil || !uber.Intersects(*prevCore)) &&
			(nextCore == nil || !uber.Intersects(*nextCore)) {
			group = append(group, uber)
		}
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}
	if len(groups) != len(cores) {
		return nil, fmt.Errorf("grouped %d of %d cores", len(groups), len(cores))
	}
	return groups, nil
}

// maxKIntervals picks one interval per core group so that consecutive
// picks are adjacent or overlapping and the summed extent is maximal. The
// backward sweep records forward pointers; ties resolve to the lowest
// index so the result is reproducible.
func maxKIntervals(uberCoreGroups [][]IndexedSnpInterval) ([]IndexedSnpInterval, error) {
	coreCount := len(uberCoreGroups)
	if coreCount == 0 {
		return nil, nil
	}
	forwardPointers := make([][]int, coreCount-1)
	prevGroup := uberCoreGroups[coreCount-1]
	cumulativeExtents := make([]int64, len(prevGroup))
	for i, iv := range prevGroup {
		cumulativeExtents[i] = int64(iv.Extent)
	}
	for i := coreCount - 2; i >= 0; i-- {
		group := uberCoreGroups[i]
		pointers := make([]int, len(group))
		currCumulative := make([]int64, len(group))
		for j, iv := range group {
			best := int64(0)
			for k, prevIv := range prevGroup {
				cumulative := cumulativeExtents[k] + int64(iv.Extent)
				if cumulative > best && iv.End() >= prevIv.Start-1 {
					best = cumulative
					currCumulative[j] = cumulative
					pointers[j] = k
				}
			}
			if best == 0 {
				return nil, fmt.Errorf("core %d has no joinable successor", i)
			}
		}
		forwardPointers[i] = pointers
		cumulativeExtents = currCumulative
		prevGroup = group
	}

	curr := 0
	for i := range cumulativeExtents {
		if cumulativeExtents[i] > cumulativeExtents[curr] {
			curr = i
		}
	}
	maxK := make([]IndexedSnpInterval, 0, coreCount)
	maxK = append(maxK, uberCoreGroups[0][curr])
	for i := range forwardPointers {
		curr = forwardPointers[i][curr]
		maxK = append(maxK, uberCoreGroups[i+1][curr])
	}
	return maxK, nil
}

// MaxKScan computes the max-k interval set of a matrix: the forward and
// reverse greedy partitions pin down one core per interval, the uber scan
// enumerates every maximal compatible run, and a backward dynamic program
// over the qualifying runs picks the cover with the greatest total extent.
func MaxKScan(m GenoMatrix) ([]IndexedSnpInterval, error) {
	forward := greedyScan(m)
	reverse := reverseIndexedIntervals(greedyScan(ReverseView(m)), m.SNPCount())
	cores, err := coreIntervals(forward, reverse)
	if err != nil {
		return nil, err
	}
	groups, err := uberCores(uberScan(m), cores)
	if err != nil {
		return nil, err
	}
	return maxKIntervals(groups)
}
