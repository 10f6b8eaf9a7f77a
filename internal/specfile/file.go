package specfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions are the accepted spec file extensions, compared case-insensitively
var SupportedExtensions = []string{".json", ".yaml", ".yml"}

// HasSupportedExtension reports whether name ends in .json, .yaml or .yml
func HasSupportedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range SupportedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// File is a spec document on disk
type File struct {
	path string
	size int64
}

// Open returns a handle on the spec file at path. The content is read lazily.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("spec file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("spec file %s is a directory", path)
	}
	return &File{path: path, size: info.Size()}, nil
}

// Name returns the base name of the file
func (f *File) Name() string { return filepath.Base(f.path) }

// Path returns the path the file was opened with
func (f *File) Path() string { return f.path }

// Size returns the file size in bytes at open time
func (f *File) Size() int64 { return f.size }

// Open opens the file for reading
func (f *File) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// Memory is an in-memory spec document, used for uploads that never touched disk
type Memory struct {
	FileName string
	Content  []byte
}

// Name returns the file name
func (m *Memory) Name() string { return m.FileName }

// Open returns a reader over the content
func (m *Memory) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.Content)), nil
}
