// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"gopkg.in/check.v1"
)

type scannerSuite struct{}

var _ = check.Suite(&scannerSuite{})

// Fixture rows over four samples. "AABB" and "AAAB" are compatible,
// "ABAB" conflicts with "AABB" (all four gametes), "ABBB" is compatible
// with all three.
const (
	rowSplit12 = "AABB"
	rowSolo4   = "AAAB"
	rowSplit13 = "ABAB"
	rowSolo1   = "ABBB"
)

func (s *scannerSuite) TestGreedyScan(c *check.C) {
	m := testMatrix([]string{rowSplit12, rowSolo4, rowSplit12, rowSplit13}, testSamples, nil, nil)
	c.Check(greedyScan(m), check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 3},
		{Start: 3, Extent: 1},
	})

	// a fully compatible matrix is one interval
	m = testMatrix([]string{rowSplit12, rowSolo4, rowSolo4, rowSplit12}, testSamples, nil, nil)
	c.Check(greedyScan(m), check.DeepEquals, []IndexedSnpInterval{{Start: 0, Extent: 4}})
}

func (s *scannerSuite) TestGreedyScanCoversAllSnps(c *check.C) {
	m := testMatrix([]string{rowSplit13, rowSolo1, rowSplit12, rowSolo4,
		rowSplit13, rowSplit12}, testSamples, nil, nil)
	intervals := greedyScan(m)
	next := 0
	for _, iv := range intervals {
		c.Check(iv.Start, check.Equals, next)
		c.Check(iv.Extent >= 1, check.Equals, true)
		next = iv.End() + 1
	}
	c.Check(next, check.Equals, m.SNPCount())
}

func (s *scannerSuite) TestReverseGreedyMirrors(c *check.C) {
	m := testMatrix([]string{rowSplit13, rowSolo1, rowSplit12, rowSolo4}, testSamples, nil, nil)
	reverse := reverseIndexedIntervals(greedyScan(ReverseView(m)), m.SNPCount())
	c.Check(reverse, check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 1},
		{Start: 1, Extent: 3},
	})
}

func (s *scannerSuite) TestUberScan(c *check.C) {
	// index 2 conflicts with the SDP from index 0: the next uber
	// interval restarts at 1 and overlaps the first
	m := testMatrix([]string{rowSplit13, rowSolo1, rowSplit12, rowSolo4}, testSamples, nil, nil)
	c.Check(uberScan(m), check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 2},
		{Start: 1, Extent: 3},
	})

	// a duplicate row refreshes its position instead of conflicting
	m = testMatrix([]string{rowSplit12, rowSolo4, rowSplit12, rowSplit13}, testSamples, nil, nil)
	c.Check(uberScan(m), check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 3},
		{Start: 3, Extent: 1},
	})
}

func (s *scannerSuite) TestCoreIntervals(c *check.C) {
	forward := []IndexedSnpInterval{{Start: 0, Extent: 2}, {Start: 2, Extent: 2}}
	reverse := []IndexedSnpInterval{{Start: 0, Extent: 1}, {Start: 1, Extent: 3}}
	cores, err := coreIntervals(forward, reverse)
	c.Assert(err, check.IsNil)
	c.Check(cores, check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 1},
		{Start: 2, Extent: 2},
	})
	for k := range cores {
		c.Check(forward[k].Contains(cores[k]), check.Equals, true)
		c.Check(reverse[k].Contains(cores[k]), check.Equals, true)
	}

	_, err = coreIntervals(forward, reverse[:1])
	c.Check(err, check.NotNil)
}

func (s *scannerSuite) TestUberCores(c *check.C) {
	ubers := []IndexedSnpInterval{{Start: 0, Extent: 2}, {Start: 1, Extent: 3}}
	cores := []IndexedSnpInterval{{Start: 0, Extent: 1}, {Start: 2, Extent: 2}}
	groups, err := uberCores(ubers, cores)
	c.Assert(err, check.IsNil)
	c.Check(groups, check.DeepEquals, [][]IndexedSnpInterval{
		{{Start: 0, Extent: 2}},
		{{Start: 1, Extent: 3}},
	})
}

func (s *scannerSuite) TestMaxKIntervalsDP(c *check.C) {
	// two candidates for the first core: the longer one wins because it
	// still joins up with the second group
	groups := [][]IndexedSnpInterval{
		{{Start: 0, Extent: 5}, {Start: 0, Extent: 6}},
		{{Start: 5, Extent: 3}, {Start: 6, Extent: 2}},
	}
	maxK, err := maxKIntervals(groups)
	c.Assert(err, check.IsNil)
	c.Check(maxK, check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 6},
		{Start: 5, Extent: 3},
	})
}

func (s *scannerSuite) TestMaxKIntervalsTieBreak(c *check.C) {
	// both successors give the same total: the lower index wins
	groups := [][]IndexedSnpInterval{
		{{Start: 0, Extent: 6}},
		{{Start: 5, Extent: 2}, {Start: 6, Extent: 2}},
	}
	maxK, err := maxKIntervals(groups)
	c.Assert(err, check.IsNil)
	c.Check(maxK, check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 6},
		{Start: 5, Extent: 2},
	})
}

func (s *scannerSuite) TestMaxKScan(c *check.C) {
	m := testMatrix([]string{rowSplit13, rowSolo1, rowSplit12, rowSolo4}, testSamples, nil, nil)
	maxK, err := MaxKScan(m)
	c.Assert(err, check.IsNil)
	c.Check(maxK, check.DeepEquals, []IndexedSnpInterval{
		{Start: 0, Extent: 2},
		{Start: 1, Extent: 3},
	})
	// consecutive max-k intervals overlap or touch
	for k := 0; k+1 < len(maxK); k++ {
		c.Check(maxK[k].End() >= maxK[k+1].Start-1, check.Equals, true)
	}
}

func (s *scannerSuite) TestMaxKScanThreeWindows(c *check.C) {
	// two conflicts split the matrix into three windows
	m := testMatrix([]string{
		rowSplit12, rowSolo4, // window 1
		rowSplit13,           // conflicts with rowSplit12
		rowSplit12,           // conflicts with rowSplit13
		rowSolo4, rowSplit12, // window 3 continues
	}, testSamples, nil, nil)
	maxK, err := MaxKScan(m)
	c.Assert(err, check.IsNil)
	c.Assert(maxK, check.HasLen, 3)
	total := 0
	for _, iv := range maxK {
		total += iv.Extent
	}
	c.Check(total >= m.SNPCount(), check.Equals, true)
	for k := 0; k+1 < len(maxK); k++ {
		c.Check(maxK[k].End() >= maxK[k+1].Start-1, check.Equals, true)
	}
}
