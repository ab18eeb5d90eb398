package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
)

// ScanDirectory walks root and returns the roster documents below it in
// lexical order. Hidden files and directories are skipped when skipHidden.
func ScanDirectory(root string, skipHidden bool) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var (
		paths []string
		stats DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil // continue walking
		}
		stats.Scanned++
		// skip hidden dirs/files if requested
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, nil
}

// ProcessDirectory runs proc on every document below root, one at a time.
// Per-file errors are reported in the results and do not stop the walk.
func ProcessDirectory(ctx context.Context, proc FileProcessor, root string, skipHidden bool) ([]FileResult, DirStats, error) {
	paths, stats, err := ScanDirectory(root, skipHidden)
	if err != nil {
		return nil, stats, err
	}

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}
		out, err := proc.ProcessFile(ctx, path)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			continue
		}
		results = append(results, FileResult{
			Path:         path,
			RunID:        out.Run.ID.String(),
			Records:      out.Records,
			Deduplicated: out.Deduplicated,
		})
		stats.Succeeded++
		if out.Deduplicated {
			stats.Deduplicated++
		}
	}
	return results, stats, nil
}

// AllowedExt checks if a file extension is one the decoder reads.
func AllowedExt(ext string) bool {
	return constants.IsAllowedExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
