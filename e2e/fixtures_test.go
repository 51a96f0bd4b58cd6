//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
)

// CreateTestWorkspace lays out a temp directory with a small Go project:
// a symbol declared in two files, a usage, and a vendored declaration.
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "symgrip-e2e-*")
	if err != nil {
		return "", err
	}
	tf.workspace = dir

	files := map[string]string{
		"greet.go": `package ws

func Greet() string { return "hi" }
`,
		"greet_windows.go": `package ws

func Greet() string { return "hello" }
`,
		"use.go": `package ws

var greeting = Greet()

func Solo() {}
`,
		filepath.Join("vendor", "dep", "dep.go"): `package dep

func Vendored() {}
`,
	}

	for name, src := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			return "", err
		}
	}
	return dir, nil
}
