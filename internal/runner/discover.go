package runner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands target into the list of manifest files to check. A file
// target is returned as is. A directory is scanned for files matching any of
// the include patterns; subdirectories are entered only when recursive is set.
//
// Patterns are doublestar globs (e.g. "**/*.json") matched against the path
// relative to the directory, using forward slashes. A pattern without a slash
// matches the base name at any depth, like a .gitignore entry.
func Discover(target string, include []string, recursive bool) ([]string, error) {
	for _, pat := range include {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid include pattern %q", pat)
		}
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != target && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(target, path)
		if err != nil {
			return err
		}
		if matchAny(include, filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, pat := range patterns {
		name := rel
		if !strings.Contains(pat, "/") {
			name = base
		}
		if ok, err := doublestar.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}
