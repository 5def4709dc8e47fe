// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	bioinfdata "github.com/cgd/bioinf-data"
)

func main() {
	bioinfdata.Main()
}
