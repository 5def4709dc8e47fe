// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import "errors"

// Error kinds reported by the engine and by the ingest/emit layers. The
// functions that return them wrap these sentinels with context, so callers
// should test with errors.Is.
var (
	ErrInvalidChromosome    = errors.New("invalid chromosome name")
	ErrMissingChromosomeIDs = errors.New("call matrix has no chromosome ids")
	ErrUnsupportedOnView    = errors.New("cannot modify a call matrix view")
	ErrNonBiallelic         = errors.New("call is not an A or B allele")
	ErrIncompatibleSdp      = errors.New("cannot create a perfect phylogeny: SDPs are incompatible")
	ErrEmptyPhylogeny       = errors.New("phylogeny has no child edges")
	ErrBadInputFormat       = errors.New("bad input format")
	ErrEmptyAlchemyFile     = errors.New("alchemy file appears to be empty")
)
