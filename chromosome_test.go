// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"errors"

	"gopkg.in/check.v1"
)

type chromosomeSuite struct{}

var _ = check.Suite(&chromosomeSuite{})

func (s *chromosomeSuite) TestOrdering(c *check.C) {
	ordered := []string{"1", "2", "10", "X", "Y", "M"}
	for i, lo := range ordered {
		for j, hi := range ordered {
			comp, err := CompareChromosomes(lo, hi)
			c.Assert(err, check.IsNil)
			switch {
			case i < j:
				c.Check(comp, check.Equals, -1, check.Commentf("%s vs %s", lo, hi))
			case i > j:
				c.Check(comp, check.Equals, 1, check.Commentf("%s vs %s", lo, hi))
			default:
				c.Check(comp, check.Equals, 0, check.Commentf("%s vs %s", lo, hi))
			}
		}
	}
}

func (s *chromosomeSuite) TestPrefixes(c *check.C) {
	for _, pair := range [][2]string{
		{"chr1", "1"},
		{"Chr19", "chromosome 19"},
		{"CHROMOSOME X", "chrX"},
		{"chrM", "M"},
		{"chr 7", "Chromosome7"},
	} {
		comp, err := CompareChromosomes(pair[0], pair[1])
		c.Assert(err, check.IsNil)
		c.Check(comp, check.Equals, 0, check.Commentf("%s vs %s", pair[0], pair[1]))
	}
	comp, err := CompareChromosomes("chromosome 2", "chrX")
	c.Assert(err, check.IsNil)
	c.Check(comp, check.Equals, -1)
}

func (s *chromosomeSuite) TestInvalidNames(c *check.C) {
	for _, name := range []string{"", "chrQ", "0", "-3", "1.5", "chr", "W"} {
		_, err := CompareChromosomes(name, "1")
		c.Check(errors.Is(err, ErrInvalidChromosome), check.Equals, true,
			check.Commentf("name %q gave %v", name, err))
	}
}

func (s *chromosomeSuite) TestGenomeIntervalCompare(c *check.C) {
	// positions past 2^31 must still compare correctly
	lo := GenomeInterval{Chr: "1", BpStart: 10, BpEnd: 20}
	hi := GenomeInterval{Chr: "1", BpStart: 1 << 33, BpEnd: 1<<33 + 5}
	comp, err := CompareGenomeIntervals(lo, hi)
	c.Assert(err, check.IsNil)
	c.Check(comp, check.Equals, -1)
	comp, err = CompareGenomeIntervals(hi, lo)
	c.Assert(err, check.IsNil)
	c.Check(comp, check.Equals, 1)
	comp, err = CompareGenomeIntervals(hi, hi)
	c.Assert(err, check.IsNil)
	c.Check(comp, check.Equals, 0)

	comp, err = CompareGenomeIntervals(
		GenomeInterval{Chr: "chrX", BpStart: 5},
		GenomeInterval{Chr: "10", BpStart: 1 << 40})
	c.Assert(err, check.IsNil)
	c.Check(comp, check.Equals, 1)
}
