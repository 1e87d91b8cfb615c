// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const DbFile = "db.sqlite"

type FsConfig string

func (c FsConfig) RootDir() string {
	return string(c)
}

func (c FsConfig) DbFile() string {
	return filepath.Join(string(c), DbFile)
}

type FsHandle struct {
	Config FsConfig
}

// NewFs makes sure the data directory exists.
func NewFs(root string) (*FsHandle, error) {
	fs := &FsHandle{Config: FsConfig(root)}
	if err := os.MkdirAll(fs.Config.RootDir(), 0o740); err != nil {
		return nil, fmt.Errorf("unable to initialize file storage: %w", err)
	}
	return fs, nil
}
