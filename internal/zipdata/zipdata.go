// Package zipdata serves ZIP-code lookups from a JSON data file loaded
// once at startup. The wizard uses it to prefill state/county fields
// from a contact's zip code.
package zipdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotFound is returned for ZIP codes absent from the data file.
var ErrNotFound = errors.New("ZIP code not found")

// Info is the location data for one ZIP code.
type Info struct {
	State    string   `json:"state"`
	Counties []string `json:"counties"`
	Cities   []string `json:"cities"`
}

// Store is an immutable in-memory ZIP lookup table.
type Store struct {
	zips map[string]Info
}

// Load reads the ZIP data file. A missing or unreadable file is an
// error; the caller decides whether to run without lookups.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zip data: %w", err)
	}

	var zips map[string]Info
	if err := json.Unmarshal(data, &zips); err != nil {
		return nil, fmt.Errorf("parse zip data: %w", err)
	}

	return &Store{zips: zips}, nil
}

// Empty returns a store with no entries; every lookup misses.
func Empty() *Store {
	return &Store{zips: map[string]Info{}}
}

func (s *Store) Lookup(zip string) (*Info, error) {
	info, ok := s.zips[zip]
	if !ok {
		return nil, ErrNotFound
	}
	return &info, nil
}

// Len reports how many ZIP codes are loaded.
func (s *Store) Len() int { return len(s.zips) }
