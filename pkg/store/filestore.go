package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voxa/pkg/voice"
)

// FileStore implements ProfileStore over a directory of JSON files, one per
// profile, named "{profile_id}_{sanitized_name}.json". The name portion is
// cosmetic; lookup is always by id prefix.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the profile as JSON and returns the file path. A re-save under
// a changed name replaces the old file of the same id.
func (s *FileStore) Save(ctx context.Context, p *voice.Profile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Drop any previous file for this id; the name portion may have changed.
	old, err := s.findByID(p.ProfileID)
	if err == nil {
		_ = os.Remove(old)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profile %s: %w", p.ProfileID, err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", p.ProfileID, sanitizeName(p.Name)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write profile %s: %w", p.ProfileID, err)
	}
	return path, nil
}

// Load retrieves a profile by id.
func (s *FileStore) Load(ctx context.Context, id string) (*voice.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", id, err)
	}

	var p voice.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("corrupt profile file %s: %w", path, err)
	}
	return &p, nil
}

// List returns summaries of all stored profiles ordered by name, then id.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile dir: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var p voice.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		out = append(out, Summary{
			ProfileID: p.ProfileID,
			Name:      p.Name,
			Gender:    string(p.Gender),
			Language:  p.Language,
			UpdatedAt: p.UpdatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ProfileID < out[j].ProfileID
	})
	return out, nil
}

// Delete removes the profile file for the id.
func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path, err := s.findByID(id)
	if err != nil {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	return true, nil
}

func (s *FileStore) findByID(id string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, id+"_*.json"))
	if err != nil || len(matches) == 0 {
		return "", ErrNotFound
	}
	return matches[0], nil
}

// sanitizeName makes a profile name safe for use inside a file name.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "profile"
	}
	return b.String()
}
