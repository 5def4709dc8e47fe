// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// snpSdpBits maps a SNP row to its minority-normalized SDP bitset: A calls
// become set bits, B calls clear bits. The bits are flipped when set bits
// outnumber clear bits, or on an even split when bit 0 is set, so the set
// bits always identify the minority allele. H and N calls are rejected.
func snpSdpBits(calls []byte) (*bitset.BitSet, error) {
	n := uint(len(calls))
	bits := bitset.New(n)
	for i, call := range calls {
		switch call {
		case ACall:
			bits.Set(uint(i))
		case BCall:
		default:
			return nil, fmt.Errorf("sample %d: %w", i, ErrNonBiallelic)
		}
	}
	ones := bits.Count()
	if 2*ones > n || (2*ones == n && bits.Test(0)) {
		bits = bits.Complement()
	}
	return bits, nil
}

// sdpsCompatible is the four-gamete test on two raw SNP rows: the rows are
// incompatible iff all of (A,A), (A,B), (B,A) and (B,B) occur at positions
// where both calls are A or B. H and N positions are ignored.
func sdpsCompatible(sdp1, sdp2 []byte) bool {
	var observedAA, observedAB, observedBA, observedBB bool
	for i, call1 := range sdp1 {
		call2 := sdp2[i]
		switch {
		case call1 == ACall && call2 == ACall:
			observedAA = true
		case call1 == ACall && call2 == BCall:
			observedAB = true
		case call1 == BCall && call2 == ACall:
			observedBA = true
		case call1 == BCall && call2 == BCall:
			observedBB = true
		}
	}
	return !(observedAA && observedAB && observedBA && observedBB)
}

// minorityNormalizedSdpsCompatible is the bitset form of the four-gamete
// test: two minority-normalized SDPs are compatible iff they are disjoint
// or one is a subset of the other.
func minorityNormalizedSdpsCompatible(sdp1, sdp2 *bitset.BitSet) bool {
	inter := sdp1.IntersectionCardinality(sdp2)
	return inter == 0 || inter == sdp1.Count() || inter == sdp2.Count()
}

// sdpBitString renders an SDP as a string of '0'/'1' characters, one per
// sample, bit 0 first.
func sdpBitString(bits *bitset.BitSet, sampleCount int) string {
	var sb strings.Builder
	sb.Grow(sampleCount)
	for i := 0; i < sampleCount; i++ {
		if bits.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
