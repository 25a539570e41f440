// Package history keeps the most recently selected locations.
package history

import (
	"context"
	"encoding/json"

	"github.com/chronophylos/locfinder/location"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Capacity is the maximum number of entries in a List.
const Capacity = 5

// DefaultKey is the storage key the list is kept under.
const DefaultKey = "searchHistory"

// ErrNotFound is returned by a Backend when the key does not exist.
var ErrNotFound = errors.New("history: key not found")

// Backend is a tiny key-value port for durable storage.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// List is ordered most recent first.
type List []location.Location

// Contains reports whether a location with placeID is in the list.
func (l List) Contains(placeID int64) bool {
	for _, loc := range l {
		if loc.PlaceID == placeID {
			return true
		}
	}
	return false
}

// Equal compares two lists field by field.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Record returns current with loc prepended, truncated to Capacity. If loc
// is already known current is returned as is; known entries are not moved
// to the front.
func Record(loc location.Location, current List) List {
	if current.Contains(loc.PlaceID) {
		return current
	}

	next := make(List, 0, Capacity)
	next = append(next, loc)
	next = append(next, current...)

	if len(next) > Capacity {
		next = next[:Capacity]
	}

	return next
}

// Store loads and persists a List through a Backend.
type Store struct {
	backend Backend
	key     string
	log     zerolog.Logger
}

// NewStore creates a Store. An empty key selects DefaultKey.
func NewStore(backend Backend, key string, log zerolog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}

	return &Store{
		backend: backend,
		key:     key,
		log:     log.With().Str("component", "history").Str("key", key).Logger(),
	}
}

// Load reads the persisted list. Missing or broken data yields an empty list.
func (s *Store) Load(ctx context.Context) List {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug().Msg("No history stored yet")
		} else {
			s.log.Error().Err(err).Msg("Could not read history")
		}
		return List{}
	}

	var stored List
	if err = json.Unmarshal(data, &stored); err != nil {
		s.log.Warn().Err(err).Msg("Discarding malformed history")
		return List{}
	}

	list := make(List, 0, Capacity)
	for _, loc := range stored {
		if len(list) == Capacity {
			break
		}
		if list.Contains(loc.PlaceID) {
			continue
		}
		list = append(list, loc)
	}

	s.log.Info().Int("count", len(list)).Msg("Loaded history")

	return list
}

// Record is the package level Record.
func (s *Store) Record(loc location.Location, current List) List {
	return Record(loc, current)
}

// Persist writes list. Failures are logged; the caller keeps its in-memory
// list either way.
func (s *Store) Persist(ctx context.Context, list List) {
	if list == nil {
		list = List{}
	}

	data, err := json.Marshal(list)
	if err != nil {
		s.log.Error().Err(err).Msg("Could not marshal history to json")
		return
	}

	if err = s.backend.Put(ctx, s.key, data); err != nil {
		s.log.Error().Err(err).Msg("Could not persist history")
		return
	}

	s.log.Debug().Int("count", len(list)).Msg("Saved history")
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
