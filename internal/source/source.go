package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source enumerates the animated documents of one conversion run.
type Source interface {
	Len() int
	Name(index int) string
	Markup(index int) (string, error)
	OutputPath(index int) string
}

// DirSource lists *<marker>.svg files of a directory in lexical order.
// The output artifact sits next to its input, marker stripped, .png extension.
type DirSource struct {
	dir    string
	marker string
	files  []string
}

func NewDirSource(dir, marker string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("чтение папки %s: %w", dir, err)
	}

	suffix := marker + ".svg"
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return &DirSource{dir: dir, marker: marker, files: files}, nil
}

func (s *DirSource) Len() int {
	return len(s.files)
}

// Name returns the icon name: base name without marker and extension.
func (s *DirSource) Name(index int) string {
	base := s.files[index]
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, s.marker)
}

func (s *DirSource) Markup(index int) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, s.files[index]))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *DirSource) OutputPath(index int) string {
	return filepath.Join(s.dir, s.Name(index)+".png")
}

func (s *DirSource) InputPath(index int) string {
	return filepath.Join(s.dir, s.files[index])
}
