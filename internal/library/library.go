// Package library keeps named transform sets on disk.
//
// Each entry lives in its own directory under the library root:
//
//	<root>/<id>/metadata.json   entry summary
//	<root>/<id>/fractal.json    the document
//	<root>/<id>/points.csv      optional snapshot of a generated cloud
package library

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/pointcloud"
)

var (
	ErrEmptyName = errors.New("library: name must not be empty")
	ErrNotFound  = errors.New("library: entry not found")
)

const (
	metadataFile = "metadata.json"
	documentFile = "fractal.json"
	pointsFile   = "points.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	Transforms int       `json:"transforms"`
	Iterations int       `json:"iterations"`
	Points     int       `json:"points,omitempty"`
}

// Save stores doc under name and returns its entry. cloud may be nil; when
// present its points are kept as a CSV snapshot.
func (s *Store) Save(name string, doc *config.Document, cloud *pointcloud.Cloud) (*Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		Name:       name,
		Timestamp:  time.Now().UTC(),
		Transforms: len(doc.Matrices),
		Points:     cloud.Len(),
	}
	if doc.Settings != nil {
		entry.Iterations = doc.Settings.Iterations
	}

	dir := filepath.Join(s.baseDir, entry.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	if err := writeEntry(dir, entry, doc, cloud); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return entry, nil
}

func writeEntry(dir string, entry *Entry, doc *config.Document, cloud *pointcloud.Cloud) error {
	if err := writeJSON(filepath.Join(dir, metadataFile), entry); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, documentFile), doc); err != nil {
		return err
	}
	if cloud != nil {
		return writePoints(filepath.Join(dir, pointsFile), cloud)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePoints(path string, c *pointcloud.Cloud) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"x", "y", "z"}
	if c.HasColors() {
		header = append(header, "r", "g", "b")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, 6)
	for i := 0; i < c.Len(); i++ {
		x, y, z := c.At(i)
		row = append(row[:0], fmtFloat(x), fmtFloat(y), fmtFloat(z))
		if c.HasColors() {
			r, g, b := c.ColorAt(i)
			row = append(row, fmtFloat(r), fmtFloat(g), fmtFloat(b))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

// List returns all entries, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]Entry, error) {
	dirs, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(dirs))
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		e, err := s.entry(d.Name())
		if err != nil {
			continue
		}
		entries = append(entries, *e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *Store) entry(id string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Resolve finds an entry by ID, ID prefix or exact name. The newest entry
// wins when several share a name.
func (s *Store) Resolve(ref string) (*Entry, error) {
	if ref == "" || ref == "." || ref == ".." || strings.ContainsAny(ref, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	if e, err := s.entry(ref); err == nil {
		return e, nil
	}
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == ref || strings.HasPrefix(e.ID, ref) {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// Load returns the entry and its document. Imported transforms receive
// fresh IDs.
func (s *Store) Load(ref string) (*Entry, *config.Document, error) {
	e, err := s.Resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	doc, err := config.Load(filepath.Join(s.baseDir, e.ID, documentFile))
	if err != nil {
		return nil, nil, err
	}
	return e, doc, nil
}

// LoadPoints returns the saved cloud snapshot, or nil if none was stored.
func (s *Store) LoadPoints(ref string) (*pointcloud.Cloud, error) {
	e, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, e.ID, pointsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return pointcloud.Empty(), nil
	}

	colored := len(records[0]) == 6
	positions := make([]float32, 0, (len(records)-1)*3)
	var colors []float32
	if colored {
		colors = make([]float32, 0, (len(records)-1)*3)
	}
	for i, rec := range records[1:] {
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("points.csv row %d: %w", i+2, err)
			}
			if j < 3 {
				positions = append(positions, float32(v))
			} else if colored {
				colors = append(colors, float32(v))
			}
		}
	}
	return pointcloud.New(positions, colors)
}

func (s *Store) Delete(ref string) error {
	e, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, e.ID))
}
