// Package utils holds shared test plumbing: YAML-driven test case
// tables and testdata discovery.
package utils

import (
	"io/fs"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FindSourceFiles lists every .pt file under dir, in lexical order.
func FindSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".pt" {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// TestData is one table-driven test case. Expected maps a check name
// (for example "sexpr" or "diagnostics") to its expected text.
type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

// ReadTestData decodes a YAML test table, dropping disabled cases.
func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}
