// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/okeefe/schoolfinder/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
