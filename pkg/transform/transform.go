// Package transform applies ephemeral voice-morphing deltas to audio.
package transform

import (
	"fmt"

	"voxa/pkg/model"
)

// Transform describes a one-shot voice morph. It carries no identity and is
// consumed immediately.
//
// PitchShift is conventionally kept within [-12, +12] semitones but is NOT
// validated at construction; the same goes for the other fields. Callers
// that want the conventional ranges enforced can pass the transform through
// Sanitize first.
type Transform struct {
	PitchShift   float64 `json:"pitch_shift"`   // semitones
	FormantShift float64 `json:"formant_shift"` // frequency ratio, ~[0.5, 2.0]
	TimbreMorph  float64 `json:"timbre_morph"`  // [-1, +1]
	Breathiness  float64 `json:"breathiness"`   // [0, 1]
	Roughness    float64 `json:"roughness"`     // [0, 1]
}

// Sanitize returns a copy with every field clamped to its conventional
// range. Opt-in only; Apply accepts unclamped transforms.
func (t Transform) Sanitize() Transform {
	return Transform{
		PitchShift:   clamp(t.PitchShift, -12, 12),
		FormantShift: clamp(t.FormantShift, 0.5, 2.0),
		TimbreMorph:  clamp(t.TimbreMorph, -1, 1),
		Breathiness:  clamp(t.Breathiness, 0, 1),
		Roughness:    clamp(t.Roughness, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsZero reports whether the transform is a no-op.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// MaleToFemale is the canonical male-to-female morph.
func MaleToFemale() Transform {
	return Transform{PitchShift: 4.0, FormantShift: 1.15, TimbreMorph: 0.5}
}

// FemaleToMale is the canonical female-to-male morph.
func FemaleToMale() Transform {
	return Transform{PitchShift: -4.0, FormantShift: 0.85, TimbreMorph: -0.5}
}

// RobotVoice flattens timbre and adds heavy roughness.
func RobotVoice() Transform {
	return Transform{FormantShift: 1.0, TimbreMorph: -1.0, Roughness: 0.8}
}

// UnknownPresetError reports a transform preset name with no definition.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown transform preset: %q", e.Name)
}

// Preset resolves a canonical morph by name.
func Preset(name string) (Transform, error) {
	switch name {
	case "male_to_female":
		return MaleToFemale(), nil
	case "female_to_male":
		return FemaleToMale(), nil
	case "robot_voice":
		return RobotVoice(), nil
	default:
		return Transform{}, &UnknownPresetError{Name: name}
	}
}

// Apply morphs the audio with the given transform and returns a new buffer.
// Zero-valued fields are skipped. Each applied field prepends its stamp so
// downstream consumers and tests can observe what ran and in what order.
func Apply(audio model.AudioData, t Transform) (model.AudioData, error) {
	out := audio.Bytes

	// Applied in documented order: pitch, formant, timbre, breath, roughness.
	// Stamps are prepended, so the first field ends up outermost.
	if t.Roughness != 0 {
		out = stamp(out, fmt.Sprintf("[rough %.2f]", t.Roughness))
	}
	if t.Breathiness != 0 {
		out = stamp(out, fmt.Sprintf("[breath %.2f]", t.Breathiness))
	}
	if t.TimbreMorph != 0 {
		out = stamp(out, fmt.Sprintf("[timbre %+.2f]", t.TimbreMorph))
	}
	if t.FormantShift != 0 {
		out = stamp(out, fmt.Sprintf("[formant x%.2f]", t.FormantShift))
	}
	if t.PitchShift != 0 {
		out = stamp(out, fmt.Sprintf("[pitch %+.1f]", t.PitchShift))
	}

	return audio.WithBytes(out), nil
}

func stamp(payload []byte, marker string) []byte {
	return append([]byte(marker), payload...)
}
