package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is searched when no pipeline directories are configured.
const DefaultDir = "BuildPipelines"

// ErrNoPipelines indicates that no pipeline assets were found.
var ErrNoPipelines = errors.New("no pipelines discovered")

// IsPipelineFile reports whether name carries a pipeline asset suffix.
func IsPipelineFile(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return strings.HasSuffix(base, ".buildmap.yml") || strings.HasSuffix(base, ".buildmap.yaml")
}

// Pipelines returns pipeline asset paths. Explicit paths are validated and
// returned in the order given. Otherwise dirs (default DefaultDir) are walked
// recursively and the results are sorted lexicographically; that order is
// the selection order.
func Pipelines(root string, dirs, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return resolveExplicit(root, explicit)
	}
	if len(dirs) == 0 {
		dirs = []string{DefaultDir}
	}

	matches := make(map[string]struct{})
	for _, dir := range dirs {
		full := dir
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, dir)
		}
		err := filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == full {
					return filepath.SkipDir
				}
				return err
			}
			if !d.IsDir() && IsPipelineFile(path) {
				matches[mustRelOrClean(root, path)] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", dir, err)
		}
	}

	if len(matches) == 0 {
		return nil, ErrNoPipelines
	}

	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func resolveExplicit(root string, explicit []string) ([]string, error) {
	seen := make(map[string]struct{})
	resolved := make([]string, 0, len(explicit))
	for _, input := range explicit {
		cleaned := input
		if !filepath.IsAbs(cleaned) {
			cleaned = filepath.Join(root, cleaned)
		}
		info, err := os.Stat(cleaned)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("pipeline %q not found", input)
			}
			return nil, fmt.Errorf("stat %q: %w", input, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("pipeline %q is a directory", input)
		}
		rel := mustRelOrClean(root, cleaned)
		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}
		resolved = append(resolved, rel)
	}
	if len(resolved) == 0 {
		return nil, ErrNoPipelines
	}
	return resolved, nil
}

func mustRelOrClean(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Clean(path)
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}
