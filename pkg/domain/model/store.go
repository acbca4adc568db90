package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/inferlab/predictd/pkg/utils/slices"
)

var ErrModelNotFound = errors.New("model not found")

// Entry is one model held by a Store: its serving name, the predictor
// loaded behind it and the time it was loaded.
type Entry struct {
	Name      string
	Predictor Predictor
	LoadedAt  time.Time
}

// Store resolves model names to loaded predictors.
//
// A Store is built once at startup and read-only afterwards, so it serves
// concurrent requests without locking.
type Store struct {
	entries map[string]Entry
}

// NewStore builds a Store over in-memory predictors.
//
// All entries share a single load time, the moment NewStore is called.
func NewStore(predictors map[string]Predictor) *Store {
	now := time.Now()
	entries := make(map[string]Entry, len(predictors))
	for name, p := range predictors {
		entries[name] = Entry{Name: name, Predictor: p, LoadedAt: now}
	}
	return &Store{entries: entries}
}

// LoadStore reads a model archive per entry of archives (model name to
// file path) and wraps them into a Store.
//
// It fails on the first unreadable archive. A serving process should not
// come up claiming models it cannot actually run.
func LoadStore(archives map[string]string) (*Store, error) {
	entries := map[string]Entry{}
	for name, path := range archives {
		p, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		entries[name] = Entry{Name: name, Predictor: p, LoadedAt: time.Now()}
	}
	return &Store{entries: entries}, nil
}

// Get resolves a model name.
//
// return:
//
//	the Predictor, or ErrModelNotFound when no model has that name.
func (s *Store) Get(name string) (Predictor, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return e.Predictor, nil
}

// Names lists loaded model names, sorted for stable listings.
func (s *Store) Names() []string {
	return slices.Sorted(
		slices.KeysOf(s.entries),
		func(a, b string) bool { return a < b },
	)
}

// Entries lists the loaded models, sorted by name.
func (s *Store) Entries() []Entry {
	return slices.Map(
		s.Names(),
		func(name string) Entry { return s.entries[name] },
	)
}
