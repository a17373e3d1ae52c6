package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NetworkShapefile is the file an import folder must contain.
const NetworkShapefile = "3D Indoor Network.shp"

var (
	ErrEmptyPath     = errors.New("folder_path is required and cannot be empty")
	ErrPathTraversal = errors.New("folder_path must not contain '..'")
	ErrOutsideBase   = errors.New("folder_path must be inside the allowed import base path")
	ErrNoShapefile   = errors.New("shapefile not found")
)

// ResolveFolder maps a caller-supplied folder (forward or back slashes,
// relative to base) to an absolute path inside base.
func ResolveFolder(base, folder string) (string, error) {
	normalized := strings.Trim(strings.ReplaceAll(strings.TrimSpace(folder), `\`, "/"), "/")
	if normalized == "" {
		return "", ErrEmptyPath
	}
	for _, seg := range strings.Split(normalized, "/") {
		if seg == ".." {
			return "", ErrPathTraversal
		}
	}

	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	full := filepath.Join(baseAbs, filepath.FromSlash(normalized))
	rel, err := filepath.Rel(baseAbs, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrOutsideBase
	}
	return full, nil
}

// FindFile returns the path of name inside dir, matched case-insensitively.
func FindFile(dir, name string) (string, error) {
	exact := filepath.Join(dir, name)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: '%s' (or case variant) not found in %s", ErrNoShapefile, name, dir)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: '%s' (or case variant) not found in %s", ErrNoShapefile, name, dir)
}
