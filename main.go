// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// auroralink - NDI Polaris/Aurora optical tracker driver

package main

import (
	"fmt"
	"os"

	"github.com/auroralink/auroralink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
