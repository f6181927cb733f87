// Package run records what a summarize invocation did: a manifest with a run
// id and one entry per dataset, plus the per-dataset report files.
package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/socialstats-cli/internal/summary"
	"github.com/KaramelBytes/socialstats-cli/internal/utils"
)

const manifestFileName = "run.json"

// Status of one dataset in a run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusFailed  Status = "failed"
)

// Entry is the outcome for one dataset.
type Entry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Status  Status `json:"status"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Groups  int    `json:"groups"`
	Report  string `json:"report,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Manifest describes a run persisted as run.json in the output directory.
type Manifest struct {
	ID         string    `json:"id"`
	Engine     string    `json:"engine"`
	Format     string    `json:"format"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Datasets   []*Entry  `json:"datasets"`

	// Not serialized: where reports and run.json are written. Empty keeps
	// everything in memory.
	outDir string
}

// New starts a run. outDir may be empty.
func New(outDir, engine, format string) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Engine:    engine,
		Format:    format,
		StartedAt: time.Now(),
		outDir:    outDir,
	}
}

// Load reads run.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.outDir = dir
	return &m, nil
}

// OutDir returns the output directory, or "" when nothing is written.
func (m *Manifest) OutDir() string { return m.outDir }

// AddReport records a summarized dataset. With an output directory set, the
// rendered report is written to <base>.summary.<ext>, never overwriting an
// existing file.
func (m *Manifest) AddReport(path string, rep *summary.Report, rendered string) (*Entry, error) {
	e := &Entry{
		Name:    rep.Name,
		Path:    path,
		Status:  StatusOK,
		Rows:    rep.TotalRows,
		Columns: rep.Columns,
	}
	for _, g := range rep.Groupings {
		e.Groups += len(g.Groups)
	}
	m.Datasets = append(m.Datasets, e)
	if m.outDir == "" {
		return e, nil
	}
	if err := utils.EnsureDir(m.outDir); err != nil {
		return e, fmt.Errorf("ensure output dir: %w", err)
	}
	out := utils.UniquePath(m.outDir, ReportBase(path), ".summary"+ReportExt(m.Format))
	if err := utils.SafeWriteFile(out, []byte(rendered)); err != nil {
		return e, fmt.Errorf("write report: %w", err)
	}
	e.Report = filepath.Base(out)
	return e, nil
}

// AddFailure records a dataset that could not be summarized.
func (m *Manifest) AddFailure(name, path string, status Status, err error) *Entry {
	e := &Entry{Name: name, Path: path, Status: status}
	if err != nil {
		e.Error = err.Error()
	}
	m.Datasets = append(m.Datasets, e)
	return e
}

// Save stamps FinishedAt and writes run.json atomically. It is a no-op
// without an output directory.
func (m *Manifest) Save() error {
	m.FinishedAt = time.Now()
	if m.outDir == "" {
		return nil
	}
	if err := utils.EnsureDir(m.outDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.outDir, manifestFileName), data)
}

// ReportBase strips the directory and every data extension from path.
func ReportBase(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".zst", ".csv", ".tsv", ".xlsx"} {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" {
		return "dataset"
	}
	return base
}

// ReportExt maps an output format to a file extension.
func ReportExt(format string) string {
	if f := strings.ToLower(format); f == "markdown" || f == "md" {
		return ".md"
	}
	return ".txt"
}
