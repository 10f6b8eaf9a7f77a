package specfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner scans a directory tree for candidate spec files
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all .json, .yaml and .yml files under root
func (s *Scanner) Scan(root string) ([]string, error) {
	var specFiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("spec path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("spec path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if HasSupportedExtension(d.Name()) {
			specFiles = append(specFiles, path)
		}
		return nil
	})

	return specFiles, err
}
