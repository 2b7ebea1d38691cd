package build

import (
	"bytes"
	"io"

	"github.com/nickng/boil/ssa"
	"github.com/pkg/errors"
)

// Builder builds SSA IR and metainfo.
type Builder interface {
	Build() (*ssa.Info, error)
}

// FileSrc is a set of filenames (or package patterns).
type FileSrc struct {
	Files []string
}

// FromFiles returns a non-nil Builder from a slice of filenames.
func FromFiles(files []string) Configurer {
	return newConfig(&FileSrc{Files: files})
}

// CachedSrc is source file from a reader.
type CachedSrc struct {
	cached []byte
	err    error // Error reading the source, reported at Build.
}

// FromReader returns a non-nil Builder for a reader.
// This is typically used for testing or building a temporary file.
func FromReader(r io.Reader) Configurer {
	b, err := io.ReadAll(r)
	if err != nil {
		err = errors.Wrap(err, "failed to read from reader")
	}
	return newConfig(&CachedSrc{cached: b, err: err})
}

// NewReader returns a reader for reading the string content.
func (s *CachedSrc) NewReader() io.Reader {
	return bytes.NewReader(s.cached)
}
