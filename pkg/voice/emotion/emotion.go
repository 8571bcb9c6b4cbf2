// Package emotion resolves an emotion name and intensity into concrete
// prosody modifiers.
package emotion

import (
	"fmt"
	"sort"

	"voxa/pkg/voice"
)

// Baseline is the full-intensity prosody profile of one emotion.
type Baseline struct {
	PitchDelta    float64 // semitones, additive
	Speed         float64 // multiplier
	Volume        float64 // multiplier
	PitchVariance float64 // multiplier
}

// UnknownEmotionError is returned for emotion names missing from the table.
type UnknownEmotionError struct {
	Name string
}

func (e *UnknownEmotionError) Error() string {
	return fmt.Sprintf("unknown emotion: %q", e.Name)
}

// IntensityError is returned for intensities outside [0, 1]. Values are
// rejected, never clamped.
type IntensityError struct {
	Value float64
}

func (e *IntensityError) Error() string {
	return fmt.Sprintf("intensity must be between 0.0 and 1.0, got %g", e.Value)
}

// Modifiers is the result of resolving an emotion at a given intensity.
// The Final* fields are only set when a base profile was supplied; they are
// deliberately NOT re-clamped to profile bounds, so downstream consumers
// must tolerate values outside them.
type Modifiers struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`

	PitchShift       float64 `json:"pitch_shift"`       // semitones
	SpeedMultiplier  float64 `json:"speed_multiplier"`  // toward 1.0 at intensity 0
	VolumeMultiplier float64 `json:"volume_multiplier"` // toward 1.0 at intensity 0
	PitchVariance    float64 `json:"pitch_variance"`

	HasFinals   bool    `json:"has_finals"`
	FinalPitch  float64 `json:"final_pitch,omitempty"`
	FinalSpeed  float64 `json:"final_speed,omitempty"`
	FinalVolume float64 `json:"final_volume,omitempty"`
}

// Table is an immutable emotion-to-baseline mapping.
type Table struct {
	rows map[string]Baseline
}

// NewTable builds a table from the given rows. The map is copied.
func NewTable(rows map[string]Baseline) *Table {
	m := make(map[string]Baseline, len(rows))
	for k, v := range rows {
		m[k] = v
	}
	return &Table{rows: m}
}

// BuiltinTable returns the eight built-in emotions. "neutral" is the
// identity row.
func BuiltinTable() *Table {
	return NewTable(map[string]Baseline{
		"neutral":   {PitchDelta: 0.0, Speed: 1.0, Volume: 1.0, PitchVariance: 1.0},
		"happy":     {PitchDelta: 2.0, Speed: 1.1, Volume: 1.05, PitchVariance: 1.3},
		"sad":       {PitchDelta: -1.5, Speed: 0.85, Volume: 0.9, PitchVariance: 0.7},
		"angry":     {PitchDelta: 1.0, Speed: 1.2, Volume: 1.2, PitchVariance: 1.5},
		"excited":   {PitchDelta: 3.0, Speed: 1.3, Volume: 1.1, PitchVariance: 1.6},
		"calm":      {PitchDelta: 0.0, Speed: 0.9, Volume: 0.95, PitchVariance: 0.5},
		"fearful":   {PitchDelta: 2.5, Speed: 1.15, Volume: 0.85, PitchVariance: 1.4},
		"confident": {PitchDelta: -0.5, Speed: 0.95, Volume: 1.1, PitchVariance: 0.8},
	})
}

// Get returns the baseline for the named emotion.
func (t *Table) Get(name string) (Baseline, error) {
	b, ok := t.rows[name]
	if !ok {
		return Baseline{}, &UnknownEmotionError{Name: name}
	}
	return b, nil
}

// Names returns the sorted emotion names.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.rows))
	for name := range t.rows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Engine computes prosody modifiers from the injected table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	table *Table
}

// NewEngine creates an Engine over the given table.
func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// List returns the available emotion names.
func (e *Engine) List() []string {
	return e.table.Names()
}

// Apply resolves an emotion at the given intensity, optionally against a
// base profile.
//
// Intensity interpolates between "no emotion" and the table baseline:
// the additive pitch delta scales toward 0, while the multiplicative
// speed/volume/variance fields scale toward 1.0. The asymmetry is a
// documented behavior of the prosody model, not an accident.
func (e *Engine) Apply(name string, intensity float64, base *voice.Profile) (Modifiers, error) {
	if intensity < 0.0 || intensity > 1.0 {
		return Modifiers{}, &IntensityError{Value: intensity}
	}

	b, err := e.table.Get(name)
	if err != nil {
		return Modifiers{}, err
	}

	m := Modifiers{
		Emotion:          name,
		Intensity:        intensity,
		PitchShift:       b.PitchDelta * intensity,
		SpeedMultiplier:  1.0 + (b.Speed-1.0)*intensity,
		VolumeMultiplier: 1.0 + (b.Volume-1.0)*intensity,
		PitchVariance:    1.0 + (b.PitchVariance-1.0)*intensity,
	}

	if base != nil {
		m.HasFinals = true
		m.FinalPitch = base.Pitch + m.PitchShift
		m.FinalSpeed = base.Speed * m.SpeedMultiplier
		m.FinalVolume = base.Volume * m.VolumeMultiplier
	}

	return m, nil
}
