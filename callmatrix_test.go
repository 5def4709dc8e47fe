// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"errors"

	"gopkg.in/check.v1"
)

type callMatrixSuite struct{}

var _ = check.Suite(&callMatrixSuite{})

func (s *callMatrixSuite) TestToCallValue(c *check.C) {
	for _, trial := range []struct {
		aAllele, bAllele, call string
		expect                 byte
	}{
		{"G", "T", "NA", NCall},
		{"G", "T", "N", NCall},
		{"G", "T", "-", NCall},
		{"G", "T", "NN", NCall},
		{"G", "T", "", NCall},
		{"G", "T", "-1", NCall},
		{"G", "T", "H", HCall},
		{"G", "T", "HH", HCall},
		{"G", "T", "1", ACall},
		{"G", "T", "2", BCall},
		{"G", "T", "3", HCall},
		{"G", "T", "G", ACall},
		{"G", "T", "T", BCall},
		{"G", "T", "g", ACall},
		{"g", "t", "T", BCall},
		{"G", "T", "C", NCall},
		{"G", "T", "bogus", NCall},
		{"", "", "G", NCall},
		{"", "", "h", HCall},
		{"", "", "na", NCall},
	} {
		c.Check(ToCallValue(trial.aAllele, trial.bAllele, trial.call), check.Equals, trial.expect,
			check.Commentf("a=%q b=%q call=%q", trial.aAllele, trial.bAllele, trial.call))
	}
}

func (s *callMatrixSuite) TestToCallValuesAdoptsAlleles(c *check.C) {
	// no A/B alleles known: first two distinct nucleotides become A and B
	row, a, b := ToCallValues("", "", []string{"C", "G", "g", "NA", "C"})
	c.Check(a, check.Equals, "C")
	c.Check(b, check.Equals, "G")
	c.Check(row, check.DeepEquals, []byte{ACall, BCall, BCall, NCall, ACall})

	// three distinct nucleotides: the whole row decodes to no-calls
	row, a, b = ToCallValues("", "", []string{"C", "G", "T", "C"})
	c.Check(a, check.Equals, "")
	c.Check(b, check.Equals, "")
	c.Check(row, check.DeepEquals, []byte{NCall, NCall, NCall, NCall})

	// one distinct nucleotide: same
	row, _, _ = ToCallValues("", "", []string{"C", "C", "NA"})
	c.Check(row, check.DeepEquals, []byte{NCall, NCall, NCall})

	// known alleles are not second-guessed
	row, a, b = ToCallValues("A", "C", []string{"A", "C", "H", "T"})
	c.Check(a, check.Equals, "A")
	c.Check(b, check.Equals, "C")
	c.Check(row, check.DeepEquals, []byte{ACall, BCall, HCall, NCall})
}

func (s *callMatrixSuite) TestValidate(c *check.C) {
	m := testMatrix([]string{"AABB", "ABAB"}, testSamples, nil, nil)
	c.Check(m.validate(), check.IsNil)

	m.SetCalls([][]byte{callRow("AAB")})
	c.Check(errors.Is(m.validate(), ErrBadInputFormat), check.Equals, true)

	m = testMatrix([]string{"AABB", "ABAB"}, testSamples, []string{"1"}, nil)
	c.Check(errors.Is(m.validate(), ErrBadInputFormat), check.Equals, true)
}

func (s *callMatrixSuite) TestSettersAndDeletion(c *check.C) {
	m := testMatrix([]string{"AABB"}, testSamples, []string{"1"}, []int64{100})
	c.Check(m.ChrIDs(), check.DeepEquals, []string{"1"})
	c.Check(m.BuildID(), check.Equals, "testbuild")
	// a nil optional array deletes it
	c.Check(m.SetChrIDs(nil), check.IsNil)
	c.Check(m.ChrIDs(), check.IsNil)
	c.Check(m.SetBpPositions(nil, ""), check.IsNil)
	c.Check(m.BpPositions(), check.IsNil)
}
