// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"errors"
	"math/rand"

	"gopkg.in/check.v1"
)

type sdpSuite struct{}

var _ = check.Suite(&sdpSuite{})

func (s *sdpSuite) TestMinorityNormalization(c *check.C) {
	for _, trial := range []struct {
		row    string
		expect string
	}{
		{"ABBB", "1000"}, // already minority
		{"AABB", "0011"}, // even split, bit 0 set: flip
		{"BBAA", "0011"}, // even split, bit 0 clear: keep
		{"AAAB", "0001"}, // majority A: flip
		{"BBBB", "0000"}, // empty stays empty
		{"AAAA", "0000"}, // all ones flips to empty
		{"ABAB", "0101"}, // even split, bit 0 set: flip
		{"BABA", "0101"}, // even split, bit 0 clear: keep
	} {
		bits, err := snpSdpBits(callRow(trial.row))
		c.Assert(err, check.IsNil)
		c.Check(sdpBitString(bits, 4), check.Equals, trial.expect,
			check.Commentf("row %s", trial.row))
	}
}

func (s *sdpSuite) TestSdpBitsRejectHAndN(c *check.C) {
	_, err := snpSdpBits(callRow("AHBB"))
	c.Check(errors.Is(err, ErrNonBiallelic), check.Equals, true)
	_, err = snpSdpBits(callRow("ABN-"))
	c.Check(errors.Is(err, ErrNonBiallelic), check.Equals, true)
}

func (s *sdpSuite) TestFourGameteTest(c *check.C) {
	c.Check(sdpsCompatible(callRow("AABB"), callRow("ABAB")), check.Equals, false)
	c.Check(sdpsCompatible(callRow("AABB"), callRow("AAAB")), check.Equals, true)
	c.Check(sdpsCompatible(callRow("AABB"), callRow("AABB")), check.Equals, true)
	c.Check(sdpsCompatible(callRow("AABB"), callRow("BBAA")), check.Equals, true)
	// H and N positions are ignored
	c.Check(sdpsCompatible(callRow("AHBB"), callRow("ABAB")), check.Equals, true)
	c.Check(sdpsCompatible(callRow("AABB"), callRow("ABNB")), check.Equals, true)
}

func (s *sdpSuite) TestNormalizedCompatibilityEquivalence(c *check.C) {
	// the bitset subset/disjoint test must agree with the raw four-gamete
	// test on every pair of A/B-only rows
	rng := rand.New(rand.NewSource(1))
	letters := []byte{'A', 'B'}
	for trial := 0; trial < 1000; trial++ {
		n := 2 + rng.Intn(12)
		row1 := make([]byte, n)
		row2 := make([]byte, n)
		for i := 0; i < n; i++ {
			row1[i] = letters[rng.Intn(2)]
			row2[i] = letters[rng.Intn(2)]
		}
		s1, s2 := string(row1), string(row2)
		bits1, err := snpSdpBits(callRow(s1))
		c.Assert(err, check.IsNil)
		bits2, err := snpSdpBits(callRow(s2))
		c.Assert(err, check.IsNil)
		c.Check(minorityNormalizedSdpsCompatible(bits1, bits2), check.Equals,
			sdpsCompatible(callRow(s1), callRow(s2)),
			check.Commentf("rows %s / %s", s1, s2))
	}
}
