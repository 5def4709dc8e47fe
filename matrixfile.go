// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/pgzip"
)

// callMatrixFileEntry is the gob payload of a matrix file. The whole
// stream is pgzip-compressed.
type callMatrixFileEntry struct {
	SampleIDs        []string
	Calls            [][]byte
	SNPIDs           []string
	ChrIDs           []string
	BpPositions      []int64
	AAlleles         []byte
	BAlleles         []byte
	BuildID          string
	SortedByPosition bool
}

// WriteCallMatrix writes m to w in the native matrix file format.
func WriteCallMatrix(w io.Writer, m GenoMatrix) error {
	calls := make([][]byte, m.SNPCount())
	for i := range calls {
		calls[i] = m.SNPCalls(i)
	}
	ent := callMatrixFileEntry{
		SampleIDs:        m.SampleIDs(),
		Calls:            calls,
		SNPIDs:           m.SNPIDs(),
		ChrIDs:           m.ChrIDs(),
		BpPositions:      m.BpPositions(),
		AAlleles:         m.AAlleles(),
		BAlleles:         m.BAlleles(),
		BuildID:          m.BuildID(),
		SortedByPosition: m.SortedByPosition(),
	}
	bufw := bufio.NewWriterSize(w, 1<<20)
	gzw := pgzip.NewWriter(bufw)
	if err := gob.NewEncoder(gzw).Encode(ent); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return err
	}
	return bufw.Flush()
}

// ReadCallMatrix reads a matrix file written by WriteCallMatrix.
func ReadCallMatrix(r io.Reader) (*CallMatrix, error) {
	gzr, err := pgzip.NewReader(bufio.NewReaderSize(r, 1<<22))
	if err != nil {
		return nil, fmt.Errorf("matrix file is not gzip data: %w", ErrBadInputFormat)
	}
	defer gzr.Close()
	var ent callMatrixFileEntry
	if err := gob.NewDecoder(gzr).Decode(&ent); err != nil {
		return nil, fmt.Errorf("gob decode (%v): %w", err, ErrBadInputFormat)
	}
	m := &CallMatrix{
		sampleIDs:        ent.SampleIDs,
		calls:            ent.Calls,
		snpIDs:           ent.SNPIDs,
		chrIDs:           ent.ChrIDs,
		bpPositions:      ent.BpPositions,
		aAlleles:         ent.AAlleles,
		bAlleles:         ent.BAlleles,
		buildID:          ent.BuildID,
		sortedByPosition: ent.SortedByPosition,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}
