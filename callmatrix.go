// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"fmt"
	"strings"
)

// Call codes stored in the matrix, one byte per (SNP, sample) cell. NCall
// is the byte value of int8 -1, and is written as "-1" in flat files.
const (
	ACall byte = 1
	BCall byte = 2
	HCall byte = 3
	NCall byte = 0xff
)

// Flat-file column names, shared by the importer and exporter.
const (
	aAllelesName    = "aAllele"
	bAllelesName    = "bAllele"
	snpIDsName      = "snpID"
	chrIDsName      = "chrID"
	bpPositionsName = "bpPosition"
)

// GenoMatrix is the read side of a genotype call matrix: row-major access
// to call codes by SNP index, plus the optional per-SNP annotation arrays.
// Implementations may be memory backed or views of another matrix.
type GenoMatrix interface {
	SNPCount() int
	SampleCount() int
	// SNPCalls returns the call codes for one SNP, one byte per sample.
	// Callers must not modify the returned slice.
	SNPCalls(i int) []byte
	SampleIDs() []string
	SNPIDs() []string
	ChrIDs() []string
	BpPositions() []int64
	AAlleles() []byte
	BAlleles() []byte
	BuildID() string
	SortedByPosition() bool
}

// MutableGenoMatrix adds the construction-time setters to GenoMatrix.
// Setting a nil optional array deletes it. Views reject every setter with
// ErrUnsupportedOnView.
type MutableGenoMatrix interface {
	GenoMatrix
	SetCalls(calls [][]byte) error
	SetSampleIDs(ids []string) error
	SetSNPIDs(ids []string) error
	SetChrIDs(ids []string) error
	SetBpPositions(pos []int64, buildID string) error
	SetAAlleles(alleles []byte) error
	SetBAlleles(alleles []byte) error
	SetSortedByPosition(sorted bool) error
}

// CallMatrix is the in-memory genotype call matrix. Ingest code builds one
// through the setters; after that the engine treats it as read only.
type CallMatrix struct {
	sampleIDs        []string
	calls            [][]byte
	snpIDs           []string
	chrIDs           []string
	bpPositions      []int64
	aAlleles         []byte
	bAlleles         []byte
	buildID          string
	sortedByPosition bool
}

func (m *CallMatrix) SNPCount() int          { return len(m.calls) }
func (m *CallMatrix) SampleCount() int       { return len(m.sampleIDs) }
func (m *CallMatrix) SNPCalls(i int) []byte  { return m.calls[i] }
func (m *CallMatrix) SampleIDs() []string    { return m.sampleIDs }
func (m *CallMatrix) SNPIDs() []string       { return m.snpIDs }
func (m *CallMatrix) ChrIDs() []string       { return m.chrIDs }
func (m *CallMatrix) BpPositions() []int64   { return m.bpPositions }
func (m *CallMatrix) AAlleles() []byte       { return m.aAlleles }
func (m *CallMatrix) BAlleles() []byte       { return m.bAlleles }
func (m *CallMatrix) BuildID() string        { return m.buildID }
func (m *CallMatrix) SortedByPosition() bool { return m.sortedByPosition }

func (m *CallMatrix) SetCalls(calls [][]byte) error   { m.calls = calls; return nil }
func (m *CallMatrix) SetSampleIDs(ids []string) error { m.sampleIDs = ids; return nil }
func (m *CallMatrix) SetSNPIDs(ids []string) error    { m.snpIDs = ids; return nil }
func (m *CallMatrix) SetChrIDs(ids []string) error    { m.chrIDs = ids; return nil }
func (m *CallMatrix) SetBpPositions(pos []int64, buildID string) error {
	m.bpPositions = pos
	m.buildID = buildID
	return nil
}
func (m *CallMatrix) SetAAlleles(alleles []byte) error { m.aAlleles = alleles; return nil }
func (m *CallMatrix) SetBAlleles(alleles []byte) error { m.bAlleles = alleles; return nil }
func (m *CallMatrix) SetSortedByPosition(sorted bool) error {
	m.sortedByPosition = sorted
	return nil
}

// validate checks the structural invariants: every row has one call per
// sample and every optional per-SNP array matches the row count.
func (m *CallMatrix) validate() error {
	for i, row := range m.calls {
		if len(row) != len(m.sampleIDs) {
			return fmt.Errorf("snp %d has %d calls for %d samples: %w",
				i, len(row), len(m.sampleIDs), ErrBadInputFormat)
		}
	}
	n := len(m.calls)
	for name, got := range map[string]int{
		snpIDsName:      len(m.snpIDs),
		chrIDsName:      len(m.chrIDs),
		bpPositionsName: len(m.bpPositions),
		aAllelesName:    len(m.aAlleles),
		bAllelesName:    len(m.bAlleles),
	} {
		if got != 0 && got != n {
			return fmt.Errorf("%s has %d entries for %d snps: %w",
				name, got, n, ErrBadInputFormat)
		}
	}
	return nil
}

// ToCallValue decodes one textual genotype call. aAllele and bAllele are
// the SNP's designated alleles, or "" when unknown. Unrecognized strings
// decode to NCall.
func ToCallValue(aAllele, bAllele, genoCall string) byte {
	call := strings.ToUpper(strings.TrimSpace(genoCall))
	switch call {
	case "", "NA", "N", "-", "NN", "-1":
		return NCall
	case "H", "HH", "3":
		return HCall
	case "1":
		return ACall
	case "2":
		return BCall
	}
	if aAllele != "" && call == strings.ToUpper(aAllele) {
		return ACall
	}
	if bAllele != "" && call == strings.ToUpper(bAllele) {
		return BCall
	}
	return NCall
}

// ToCallValues decodes a full row of textual calls. When the SNP's A/B
// alleles are unknown and exactly two distinct nucleotides appear among
// the calls, those two are adopted as the A and B alleles in order of
// first appearance and returned; with one, or more than two, distinct
// nucleotides the whole row decodes to no-calls. A row with no nucleotide
// calls at all decodes cell by cell through ToCallValue.
func ToCallValues(aAllele, bAllele string, genoCalls []string) ([]byte, string, string) {
	row := make([]byte, len(genoCalls))
	if aAllele != "" && bAllele != "" {
		for i, call := range genoCalls {
			row[i] = ToCallValue(aAllele, bAllele, call)
		}
		return row, aAllele, bAllele
	}

	var nucleotides []string
	sawNucleotide := false
	for i, call := range genoCalls {
		c := strings.ToUpper(strings.TrimSpace(call))
		switch c {
		case "A", "C", "G", "T":
			sawNucleotide = true
			found := false
			for _, n := range nucleotides {
				if n == c {
					found = true
					break
				}
			}
			if !found {
				nucleotides = append(nucleotides, c)
			}
		default:
			row[i] = ToCallValue("", "", call)
		}
	}
	if !sawNucleotide {
		return row, "", ""
	}
	if len(nucleotides) != 2 {
		for i := range row {
			row[i] = NCall
		}
		return row, "", ""
	}
	for i, call := range genoCalls {
		switch strings.ToUpper(strings.TrimSpace(call)) {
		case nucleotides[0]:
			row[i] = ACall
		case nucleotides[1]:
			row[i] = BCall
		}
	}
	return row, nucleotides[0], nucleotides[1]
}

// callToString is the inverse of the decimal decoding used by flat files.
func callToString(call byte) string {
	if call == NCall {
		return "-1"
	}
	return fmt.Sprintf("%d", call)
}
