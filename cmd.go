// Copyright (C) The bioinf-data Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package bioinfdata

import (
	"io"
	"io/ioutil"
	"os"

	"git.arvados.org/arvados.git/lib/cmd"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	handler = cmd.Multi(map[string]cmd.Handler{
		"version":   cmd.Version,
		"-version":  cmd.Version,
		"--version": cmd.Version,

		"import":           &importer{},
		"import-alchemy":   &alchemyImporter{},
		"export":           &exporter{},
		"export-numpy":     &exportNumpy{},
		"sort":             &sorter{},
		"stats":            &statscmd{},
		"max-k-phylogeny":  &maxKPhylogeny{},
		"phylogeny-to-sdp": &phylogenyToSdp{},
	})
)

// Main is the entry point for the bioinfdata command.
func Main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}
	os.Exit(handler.RunCommand(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openInput returns stdin when filename is "-", else the named file.
func openInput(stdin io.Reader, filename string) (io.ReadCloser, error) {
	if filename == "-" {
		return ioutil.NopCloser(stdin), nil
	}
	return os.Open(filename)
}

// openOutput returns stdout when filename is "-", else the named file,
// created or truncated.
func openOutput(stdout io.Writer, filename string) (io.WriteCloser, error) {
	if filename == "-" {
		return nopCloser{stdout}, nil
	}
	return os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0777)
}
