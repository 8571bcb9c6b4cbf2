package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voxa/pkg/db"
	"voxa/pkg/voice"
)

// SQLiteStore implements ProfileStore over a SQLite database.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store over an initialized database.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists the profile, replacing any previous row with the same id.
func (s *SQLiteStore) Save(ctx context.Context, p *voice.Profile) (string, error) {
	timbre, err := json.Marshal(p.Timbre)
	if err != nil {
		return "", fmt.Errorf("failed to encode timbre: %w", err)
	}
	custom, err := json.Marshal(p.CustomParams)
	if err != nil {
		return "", fmt.Errorf("failed to encode custom_params: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO voice_profiles
		 (profile_id, name, gender, pitch, speed, volume, timbre, language, accent, age_range, emotion_default, custom_params, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProfileID, p.Name, string(p.Gender), p.Pitch, p.Speed, p.Volume,
		string(timbre), p.Language, p.Accent, string(p.AgeRange), p.EmotionDefault,
		string(custom), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save profile %s: %w", p.ProfileID, err)
	}
	return "voice_profiles/" + p.ProfileID, nil
}

// Load retrieves a profile by id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*voice.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT profile_id, name, gender, pitch, speed, volume, timbre, language, accent, age_range, emotion_default, custom_params, created_at, updated_at
		 FROM voice_profiles WHERE profile_id = ?`, id)

	var p voice.Profile
	var gender, ageRange, timbre, custom string
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&p.ProfileID, &p.Name, &gender, &p.Pitch, &p.Speed, &p.Volume,
		&timbre, &p.Language, &p.Accent, &ageRange, &p.EmotionDefault,
		&custom, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", id, err)
	}

	p.Gender = voice.Gender(gender)
	p.AgeRange = voice.AgeRange(ageRange)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	if err := json.Unmarshal([]byte(timbre), &p.Timbre); err != nil {
		return nil, fmt.Errorf("corrupt timbre for profile %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(custom), &p.CustomParams); err != nil {
		return nil, fmt.Errorf("corrupt custom_params for profile %s: %w", id, err)
	}

	return &p, nil
}

// List returns summaries of all stored profiles ordered by name, then id.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile_id, name, gender, language, updated_at
		 FROM voice_profiles ORDER BY name, profile_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updatedAt time.Time
		if err := rows.Scan(&sum.ProfileID, &sum.Name, &sum.Gender, &sum.Language, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile summary: %w", err)
		}
		sum.UpdatedAt = updatedAt.UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a profile by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM voice_profiles WHERE profile_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
