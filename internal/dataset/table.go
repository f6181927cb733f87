package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when the dataset path does not exist.
var ErrNotFound = errors.New("file not found")

// Options controls how a dataset is read into memory.
type Options struct {
	// MaxRows limits data rows kept in memory; 0 means unlimited. Rows past the
	// limit are still counted in Table.TotalRows.
	MaxRows int
	// Delimiter for delimited text. If 0, ',' is used, or '\t' for .tsv files.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
}

// Table is a header plus rows of text cells aligned to it.
type Table struct {
	Name      string
	Path      string
	Header    []string
	Rows      [][]string
	TotalRows int
}

// NewTable builds a Table, padding short rows with empty cells and dropping
// cells past the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header}
	for _, r := range rows {
		t.append(r)
	}
	t.TotalRows = len(t.Rows)
	return t
}

func (t *Table) append(rec []string) {
	n := len(t.Header)
	switch {
	case len(rec) < n:
		tmp := make([]string, n)
		copy(tmp, rec)
		rec = tmp
	case len(rec) > n:
		rec = rec[:n:n]
	}
	t.Rows = append(t.Rows, rec)
}

// Index returns the position of the first header cell equal to name.
func (t *Table) Index(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Truncated reports whether MaxRows dropped rows from the table.
func (t *Table) Truncated() bool { return t.TotalRows > len(t.Rows) }

// Load reads the dataset at path with the first registered loader that accepts
// its name. Unknown extensions are read as CSV.
func Load(path string, opt Options) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dataset %s is a directory", path)
	}
	var t *Table
	loaded := false
	for _, l := range registry {
		if l.CanLoad(path) {
			t, err = l.Load(path, opt)
			loaded = true
			break
		}
	}
	if !loaded {
		t, err = csvLoader{}.Load(path, opt)
	}
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.Name = filepath.Base(path)
	return t, nil
}
