// Package store persists voice profiles. The engine treats a store purely
// as a keyed durable map: a Save followed by a Load with the same id must
// return a profile equal to what was saved.
package store

import (
	"context"
	"errors"
	"time"

	"voxa/pkg/voice"
)

// ErrNotFound is returned when no profile exists for the requested id.
var ErrNotFound = errors.New("profile not found")

// Summary is a listing entry, ordered by name then id.
type Summary struct {
	ProfileID string    `json:"profile_id"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileStore handles voice profile persistence.
//
// Concurrent saves with distinct ids never conflict. Concurrent saves with
// the same id race last-writer-wins; callers must not rely on the ordering.
type ProfileStore interface {
	// Save persists the profile and returns the storage location
	// (backend-specific: a file path or a table key).
	Save(ctx context.Context, p *voice.Profile) (string, error)
	// Load retrieves a profile by id, or ErrNotFound.
	Load(ctx context.Context, id string) (*voice.Profile, error)
	// List returns summaries of all stored profiles.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes a profile. Returns false when the id was absent.
	Delete(ctx context.Context, id string) (bool, error)
}
