// Package store persists profile records. The engine treats a profile as
// a single document: reads and writes happen at whole-record granularity
// with last-write-wins semantics, and every mutation is read-modify-write
// against the latest stored state.
package store

import (
	"context"
	"errors"

	"tinytrack/internal/model"
)

// ErrNotFound is returned when no profile exists for the given id.
var ErrNotFound = errors.New("profile not found")

// Store is the profile document store, keyed by normalized sender id.
type Store interface {
	// Get returns the profile stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Profile, error)
	// FindByDelegate returns the profile whose delegate id matches, or
	// ErrNotFound. Delegates share write access to the primary's log.
	FindByDelegate(ctx context.Context, id string) (*model.Profile, error)
	// Upsert writes the whole record, replacing any previous version.
	Upsert(ctx context.Context, p *model.Profile) error
	// Remove deletes the record outright. Removing a missing id is not
	// an error.
	Remove(ctx context.Context, id string) error
	// Close releases backend resources.
	Close() error
}

// Lookup resolves a sender to a profile, trying the primary key first and
// the delegate mapping second.
func Lookup(ctx context.Context, s Store, id string) (*model.Profile, error) {
	p, err := s.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.FindByDelegate(ctx, id)
}
