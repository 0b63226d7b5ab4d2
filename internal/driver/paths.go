// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
)

func ndiVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// resolveDefinitionPath returns path unchanged if it is absolute or empty;
// otherwise it is joined in turn against every entry of search, in order,
// and the first joined candidate that stats successfully is returned. If
// none stat successfully, it falls back to joining against search[0] so
// the caller still gets a path to report in an error.
func resolveDefinitionPath(path string, search []string) string {
	if path == "" || filepath.IsAbs(path) || len(search) == 0 {
		return path
	}
	for _, dir := range search {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(search[0], path)
}
