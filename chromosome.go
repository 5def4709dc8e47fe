// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// chrPattern matches a chromosome name with an optional "chr" or
// "chromosome" prefix. The captured group holds the chromosome number, or
// the letter for X, Y and M.
var chrPattern = regexp.MustCompile(`(?i)^(?:chromosome|chr)?\s*(\S+)$`)

// Named chromosomes sort after every numbered chromosome, in X, Y, M order.
const (
	chrRankX = int64(1)<<32 + iota
	chrRankY
	chrRankM
)

func chromosomeRank(name string) (int64, error) {
	m := chrPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidChromosome)
	}
	tok := m[1]
	if n, err := strconv.ParseInt(tok, 10, 32); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%q: %w", name, ErrInvalidChromosome)
		}
		return n, nil
	}
	switch strings.ToUpper(tok) {
	case "X":
		return chrRankX, nil
	case "Y":
		return chrRankY, nil
	case "M":
		return chrRankM, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrInvalidChromosome)
}

// CompareChromosomes orders two chromosome names: numbered chromosomes
// first, by numeric value, then X, Y and M. A "chr" or "chromosome" prefix
// is tolerated, as in "chrX" or "chromosome 19". Returns -1, 0 or +1.
func CompareChromosomes(name1, name2 string) (int, error) {
	r1, err := chromosomeRank(name1)
	if err != nil {
		return 0, err
	}
	r2, err := chromosomeRank(name2)
	if err != nil {
		return 0, err
	}
	switch {
	case r1 < r2:
		return -1, nil
	case r1 > r2:
		return 1, nil
	}
	return 0, nil
}
