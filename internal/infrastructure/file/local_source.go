package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdinPath selects standard input as the import source.
const StdinPath = "-"

type LocalSource struct {
	BaseDir string
	Stdin   io.Reader
}

func NewLocalSource(baseDir string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir, Stdin: os.Stdin}
}

func (s *LocalSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sourcePath == StdinPath {
		if s.Stdin == nil {
			return nil, fmt.Errorf("open stdin: no standard input")
		}
		return io.NopCloser(s.Stdin), nil
	}

	path := sourcePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.BaseDir, sourcePath)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return file, nil
}
