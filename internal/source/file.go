// Package source supplies raw template bytes.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// File reads the template from a directory on every fetch.
type File struct {
	templateDir string
	name        string
}

// NewFile ...
func NewFile(
	templateDir string,
	name string,
) (*File, error) {
	if _, err := os.Stat(templateDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("path %s is not exist", templateDir)
	}
	if !strings.HasSuffix(templateDir, "/") {
		templateDir += "/"
	}

	return &File{
		templateDir: templateDir,
		name:        name,
	}, nil
}

// Path returns path to the template.
func (f *File) Path() string {
	return f.templateDir + f.name
}

// Fetch returns the template bytes.
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path())
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return b, nil
}
