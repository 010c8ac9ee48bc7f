// Package dataset loads the forecast table from disk and holds it read-only
// for the life of the process.
package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/jonboulle/clockwork"
)

// Store owns the loaded forecast table.
type Store struct {
	path     string
	table    forecast.Table
	first    time.Time
	last     time.Time
	loadedAt time.Time
}

// Load reads path (xlsx by extension, CSV otherwise) with the real clock.
func Load(path string) (*Store, error) {
	return LoadWithClock(path, clockwork.NewRealClock())
}

// LoadWithClock reads path and stamps the store with clock.Now.
// Any malformed cell fails the whole load with a *LoadError.
func LoadWithClock(path string, clock clockwork.Clock) (*Store, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	return New(path, rows, clock)
}

// ReadRows parses path in file order without sorting or building a Store.
func ReadRows(path string) ([]forecast.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	default:
		return loadCSV(path)
	}
}

// New wraps already-parsed rows. It fails when rows is empty.
func New(path string, rows []forecast.Row, clock clockwork.Clock) (*Store, error) {
	table := forecast.NewTable(rows)
	first, last, ok := table.Bounds()
	if !ok {
		return nil, &LoadError{Path: path, Err: ErrEmptyDataset}
	}
	return &Store{
		path:     path,
		table:    table,
		first:    first,
		last:     last,
		loadedAt: clock.Now(),
	}, nil
}

// Table returns the immutable forecast table.
func (s *Store) Table() forecast.Table { return s.table }

// Bounds returns the first and last dates in the table.
func (s *Store) Bounds() (first, last time.Time) { return s.first, s.last }

// FullRange is the default selection covering every row.
func (s *Store) FullRange() forecast.DateRange {
	return forecast.DateRange{Start: s.first, End: s.last}
}

// Path returns the file the table was loaded from.
func (s *Store) Path() string { return s.path }

// LoadedAt returns when the table was loaded.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// CheckReadiness reports ready once a non-empty table is held.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s == nil || s.table.Len() == 0 {
		return errors.New("dataset not loaded")
	}
	return nil
}
