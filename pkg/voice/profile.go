// Package voice defines voice profiles, their validation rules, and the
// built-in preset registry.
package voice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender classifies the overall voice character.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
	GenderCustom  Gender = "custom"
)

// AgeRange is the approximate speaker age bracket.
type AgeRange string

const (
	AgeChild   AgeRange = "child"
	AgeYoung   AgeRange = "young"
	AgeAdult   AgeRange = "adult"
	AgeElderly AgeRange = "elderly"
)

// Numeric bounds for profile fields. Values outside these ranges are
// rejected at validation time, never clamped silently.
const (
	PitchMin  = -12.0
	PitchMax  = 12.0
	SpeedMin  = 0.5
	SpeedMax  = 2.0
	VolumeMin = 0.0
	VolumeMax = 2.0
)

// Profile is the static description of a voice. Profiles are value objects:
// they are never mutated in place, only replaced by new validated instances.
type Profile struct {
	ProfileID      string             `json:"profile_id" yaml:"profile_id"`
	Name           string             `json:"name" yaml:"name"`
	Gender         Gender             `json:"gender" yaml:"gender"`
	Pitch          float64            `json:"pitch" yaml:"pitch"`   // semitones, [-12, +12]
	Speed          float64            `json:"speed" yaml:"speed"`   // multiplier, [0.5, 2.0]
	Volume         float64            `json:"volume" yaml:"volume"` // multiplier, [0.0, 2.0]
	Timbre         map[string]float64 `json:"timbre,omitempty" yaml:"timbre,omitempty"`
	Language       string             `json:"language" yaml:"language"`
	Accent         string             `json:"accent" yaml:"accent"`
	AgeRange       AgeRange           `json:"age_range" yaml:"age_range"`
	EmotionDefault string             `json:"emotion_default" yaml:"emotion_default"`
	CustomParams   map[string]any     `json:"custom_params,omitempty" yaml:"custom_params,omitempty"`
	CreatedAt      time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" yaml:"updated_at"`
}

// Default returns a profile with documented field defaults and no identity.
func Default() Profile {
	return Profile{
		Gender:         GenderNeutral,
		Pitch:          0.0,
		Speed:          1.0,
		Volume:         1.0,
		Language:       "en-US",
		Accent:         "neutral",
		AgeRange:       AgeAdult,
		EmotionDefault: "neutral",
	}
}

// NewID generates a fresh opaque profile identifier.
func NewID() string {
	return uuid.New().String()
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	if p.Timbre != nil {
		out.Timbre = make(map[string]float64, len(p.Timbre))
		for k, v := range p.Timbre {
			out.Timbre[k] = v
		}
	}
	if p.CustomParams != nil {
		out.CustomParams = make(map[string]any, len(p.CustomParams))
		for k, v := range p.CustomParams {
			out.CustomParams[k] = v
		}
	}
	return out
}

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Allowed string `json:"allowed"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationError aggregates every violated constraint of a profile.
// Callers get the full list, not just the first failure.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return "invalid profile: " + strings.Join(msgs, "; ")
}

// Validate checks every constraint independently and returns all violations
// in a fixed order: pitch, speed, volume, gender, age_range, name.
// An empty slice means the profile is valid.
func (p Profile) Validate() []FieldError {
	var errs []FieldError

	if p.Pitch < PitchMin || p.Pitch > PitchMax {
		errs = append(errs, FieldError{
			Field:   "pitch",
			Allowed: fmt.Sprintf("[%g, %g]", PitchMin, PitchMax),
			Message: fmt.Sprintf("pitch must be between %g and +%g semitones, got %g", PitchMin, PitchMax, p.Pitch),
		})
	}
	if p.Speed < SpeedMin || p.Speed > SpeedMax {
		errs = append(errs, FieldError{
			Field:   "speed",
			Allowed: fmt.Sprintf("[%g, %g]", SpeedMin, SpeedMax),
			Message: fmt.Sprintf("speed must be between %g and %g, got %g", SpeedMin, SpeedMax, p.Speed),
		})
	}
	if p.Volume < VolumeMin || p.Volume > VolumeMax {
		errs = append(errs, FieldError{
			Field:   "volume",
			Allowed: fmt.Sprintf("[%g, %g]", VolumeMin, VolumeMax),
			Message: fmt.Sprintf("volume must be between %g and %g, got %g", VolumeMin, VolumeMax, p.Volume),
		})
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderNeutral, GenderCustom:
	default:
		errs = append(errs, FieldError{
			Field:   "gender",
			Allowed: "male, female, neutral, custom",
			Message: fmt.Sprintf("invalid gender: %q", p.Gender),
		})
	}
	if p.AgeRange != "" {
		switch p.AgeRange {
		case AgeChild, AgeYoung, AgeAdult, AgeElderly:
		default:
			errs = append(errs, FieldError{
				Field:   "age_range",
				Allowed: "child, young, adult, elderly",
				Message: fmt.Sprintf("invalid age_range: %q", p.AgeRange),
			})
		}
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, FieldError{
			Field:   "name",
			Allowed: "non-empty string",
			Message: "name must not be empty",
		})
	}

	return errs
}

// Check returns a ValidationError carrying every violation, or nil when the
// profile is valid. A profile that fails Check must never be persisted or
// applied to audio.
func (p Profile) Check() error {
	if errs := p.Validate(); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
