package sketch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates the caller-supplied path did not resolve to exactly
// one .ino file.
var ErrNotFound = errors.New("sketch not found")

// Target is a resolved sketch: the directory handed to arduino-cli and the
// single .ino file inside it.
type Target struct {
	Dir string
	Ino string
}

// Name returns the sketch name (directory base).
func (t Target) Name() string {
	return filepath.Base(t.Dir)
}

// Resolve accepts either a sketch directory or a .ino file path and returns
// the target arduino-cli should compile. The directory must contain exactly
// one .ino file.
func Resolve(path string) (Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Target{}, fmt.Errorf("resolve sketch path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Target{}, fmt.Errorf("%w: %s does not exist", ErrNotFound, abs)
		}
		return Target{}, fmt.Errorf("stat sketch path: %w", err)
	}

	dir := abs
	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(abs), ".ino") {
			return Target{}, fmt.Errorf("%w: %s is not a .ino file", ErrNotFound, abs)
		}
		dir = filepath.Dir(abs)
	}

	inos, err := listInoFiles(dir)
	if err != nil {
		return Target{}, err
	}

	switch len(inos) {
	case 0:
		return Target{}, fmt.Errorf("%w: no .ino file in %s", ErrNotFound, dir)
	case 1:
		return Target{Dir: dir, Ino: inos[0]}, nil
	default:
		return Target{}, fmt.Errorf("%w: %d .ino files in %s, expected exactly one", ErrNotFound, len(inos), dir)
	}
}

func listInoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sketch dir: %w", err)
	}

	var inos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".ino") {
			inos = append(inos, filepath.Join(dir, entry.Name()))
		}
	}
	return inos, nil
}
