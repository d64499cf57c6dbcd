package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScannedFile is one corpus file found under a directory.
type ScannedFile struct {
	Name    string // Path relative to the scanned root, slash separated (e.g. "rivers/danube.md")
	AbsPath string
}

// Scan walks root and returns every .json and .md file, sorted by name.
// Hidden directories are skipped. A root that is a file yields that file alone.
func Scan(ctx context.Context, root string) ([]ScannedFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access corpus path %s: %w", root, err)
	}
	if !info.IsDir() {
		return []ScannedFile{{Name: filepath.Base(root), AbsPath: root}}, nil
	}

	var files []ScannedFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".md":
		default:
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		files = append(files, ScannedFile{Name: filepath.ToSlash(rel), AbsPath: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
