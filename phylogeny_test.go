// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"errors"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"gopkg.in/check.v1"
)

type phylogenySuite struct{}

var _ = check.Suite(&phylogenySuite{})

func sdpFromString(s string) *bitset.BitSet {
	bits := bitset.New(uint(len(s)))
	for i, ch := range s {
		if ch == '1' {
			bits.Set(uint(i))
		}
	}
	return bits
}

func (s *phylogenySuite) TestInsertSdpNesting(c *check.C) {
	siblings, err := insertSdp(nil, sdpFromString("0011"))
	c.Assert(err, check.IsNil)
	siblings, err = insertSdp(siblings, sdpFromString("0001"))
	c.Assert(err, check.IsNil)
	c.Assert(siblings, check.HasLen, 1)
	c.Check(siblings[0].sdpBits.Equal(sdpFromString("0011")), check.Equals, true)
	c.Assert(siblings[0].children, check.HasLen, 1)
	c.Check(siblings[0].children[0].sdpBits.Equal(sdpFromString("0001")), check.Equals, true)
}

func (s *phylogenySuite) TestInsertSdpSupersetReplacesInPlace(c *check.C) {
	// inserting a superset adopts the existing node and every later
	// intersecting sibling
	var siblings []*sdpHierarchy
	var err error
	for _, bits := range []string{"1000", "0010", "0001"} {
		siblings, err = insertSdp(siblings, sdpFromString(bits))
		c.Assert(err, check.IsNil)
	}
	siblings, err = insertSdp(siblings, sdpFromString("0011"))
	c.Assert(err, check.IsNil)
	c.Assert(siblings, check.HasLen, 2)
	c.Check(siblings[0].sdpBits.Equal(sdpFromString("1000")), check.Equals, true)
	c.Check(siblings[1].sdpBits.Equal(sdpFromString("0011")), check.Equals, true)
	c.Assert(siblings[1].children, check.HasLen, 2)
	c.Check(siblings[1].children[0].sdpBits.Equal(sdpFromString("0010")), check.Equals, true)
	c.Check(siblings[1].children[1].sdpBits.Equal(sdpFromString("0001")), check.Equals, true)
}

func (s *phylogenySuite) TestInsertSdpDuplicateIgnored(c *check.C) {
	siblings, err := insertSdp(nil, sdpFromString("0011"))
	c.Assert(err, check.IsNil)
	siblings, err = insertSdp(siblings, sdpFromString("0011"))
	c.Assert(err, check.IsNil)
	c.Check(siblings, check.HasLen, 1)
	c.Check(siblings[0].children, check.HasLen, 0)
}

func (s *phylogenySuite) TestInsertSdpIncompatible(c *check.C) {
	siblings, err := insertSdp(nil, sdpFromString("0011"))
	c.Assert(err, check.IsNil)
	_, err = insertSdp(siblings, sdpFromString("0110"))
	c.Check(errors.Is(err, ErrIncompatibleSdp), check.Equals, true)
}

func (s *phylogenySuite) TestInferNestedPhylogeny(c *check.C) {
	// "AABB" normalizes to {S3,S4}, "AAAB" to {S4}
	m := testMatrix([]string{"AABB", "AAAB", "AAAB", "AABB"}, testSamples, nil, nil)
	tree, err := inferPerfectPhylogeny(m, IndexedSnpInterval{Start: 0, Extent: 4})
	c.Assert(err, check.IsNil)
	c.Check(tree.Strains, check.DeepEquals, []string{"S1", "S2"})
	c.Assert(tree.Edges, check.HasLen, 1)
	inner := tree.Edges[0].Node
	c.Check(inner.Strains, check.DeepEquals, []string{"S3"})
	c.Assert(inner.Edges, check.HasLen, 1)
	c.Check(inner.Edges[0].Length, check.Equals, 1.0)
	c.Check(inner.Edges[0].Node.Strains, check.DeepEquals, []string{"S4"})
	c.Check(inner.Edges[0].Node.Edges, check.HasLen, 0)
}

func (s *phylogenySuite) TestInferStarPhylogeny(c *check.C) {
	// "AABB" gives {S3,S4}, "BABB" gives {S2}: two disjoint edges off the
	// root, S1 stays at the root
	m := testMatrix([]string{"AABB", "BABB"}, testSamples, nil, nil)
	tree, err := inferPerfectPhylogeny(m, IndexedSnpInterval{Start: 0, Extent: 2})
	c.Assert(err, check.IsNil)
	c.Check(tree.Strains, check.DeepEquals, []string{"S1"})
	c.Assert(tree.Edges, check.HasLen, 2)
	c.Check(tree.Edges[0].Node.Strains, check.DeepEquals, []string{"S3", "S4"})
	c.Check(tree.Edges[1].Node.Strains, check.DeepEquals, []string{"S2"})
}

func (s *phylogenySuite) TestEverySdpBecomesAnEdge(c *check.C) {
	rows := []string{"AABB", "AAAB", "ABBB"}
	m := testMatrix(rows, testSamples, nil, nil)
	tree, err := inferPerfectPhylogeny(m, IndexedSnpInterval{Start: 0, Extent: 3})
	c.Assert(err, check.IsNil)
	sdps, err := tree.Sdps(testSamples, 0)
	c.Assert(err, check.IsNil)
	got := make([]string, len(sdps))
	for i, bits := range sdps {
		got[i] = sdpBitString(bits, 4)
	}
	sort.Strings(got)
	c.Check(got, check.DeepEquals, []string{"0001", "0011", "1000"})
}

func (s *phylogenySuite) TestHCallFailsWindow(c *check.C) {
	m := testMatrix([]string{"AABB", "AHBB"}, testSamples, nil, nil)
	_, err := inferPerfectPhylogeny(m, IndexedSnpInterval{Start: 0, Extent: 2})
	c.Check(errors.Is(err, ErrNonBiallelic), check.Equals, true)
	c.Check(err, check.ErrorMatches, `snp 1: .*`)
}

func (s *phylogenySuite) TestEmptyWindowFails(c *check.C) {
	// all-B and all-A rows normalize to empty SDPs, leaving the root
	// childless
	m := testMatrix([]string{"BBBB", "AAAA"}, testSamples, nil, nil)
	_, err := inferPerfectPhylogeny(m, IndexedSnpInterval{Start: 0, Extent: 2})
	c.Check(errors.Is(err, ErrEmptyPhylogeny), check.Equals, true)
}

func (s *phylogenySuite) TestAllStrains(c *check.C) {
	m := testMatrix([]string{"AABB", "AAAB"}, testSamples, nil, nil)
	tree, err := inferPerfectPhylogeny(m, IndexedSnpInterval{Start: 0, Extent: 2})
	c.Assert(err, check.IsNil)
	strains := tree.AllStrains()
	sort.Strings(strains)
	c.Check(strains, check.DeepEquals, []string{"S1", "S2", "S3", "S4"})
}
