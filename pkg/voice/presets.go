package voice

import (
	"fmt"
	"sort"
)

// UnknownPresetError is returned when a creation request names a preset
// that is not in the registry.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset: %q", e.Name)
}

// PresetRegistry is an immutable set of named starting profiles.
// It is populated once at construction and never mutated afterwards.
type PresetRegistry struct {
	presets map[string]Profile
}

// NewPresetRegistry builds a registry from the given table. The table is
// copied; later changes to the argument do not leak into the registry.
func NewPresetRegistry(table map[string]Profile) *PresetRegistry {
	presets := make(map[string]Profile, len(table))
	for name, p := range table {
		presets[name] = p.Clone()
	}
	return &PresetRegistry{presets: presets}
}

// Get returns a copy of the named preset.
func (r *PresetRegistry) Get(name string) (Profile, error) {
	p, ok := r.presets[name]
	if !ok {
		return Profile{}, &UnknownPresetError{Name: name}
	}
	return p.Clone(), nil
}

// Names returns the sorted preset names.
func (r *PresetRegistry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinPresets returns the six built-in voice presets.
func BuiltinPresets() *PresetRegistry {
	return NewPresetRegistry(map[string]Profile{
		"professional_male": withDefaults(Profile{
			Name:     "Professional Male",
			Gender:   GenderMale,
			Pitch:    -2.0,
			Speed:    0.95,
			Volume:   1.0,
			Accent:   "american",
			AgeRange: AgeAdult,
		}),
		"professional_female": withDefaults(Profile{
			Name:     "Professional Female",
			Gender:   GenderFemale,
			Pitch:    2.0,
			Speed:    1.0,
			Volume:   1.0,
			Accent:   "american",
			AgeRange: AgeAdult,
		}),
		"friendly_assistant": withDefaults(Profile{
			Name:           "Friendly Assistant",
			Gender:         GenderNeutral,
			Pitch:          1.0,
			Speed:          1.1,
			Volume:         1.0,
			EmotionDefault: "happy",
			AgeRange:       AgeYoung,
		}),
		"narrator_deep": withDefaults(Profile{
			Name:     "Deep Narrator",
			Gender:   GenderMale,
			Pitch:    -4.0,
			Speed:    0.85,
			Volume:   1.1,
			Accent:   "british",
			AgeRange: AgeAdult,
		}),
		"child_voice": withDefaults(Profile{
			Name:     "Child Voice",
			Gender:   GenderNeutral,
			Pitch:    6.0,
			Speed:    1.2,
			Volume:   0.9,
			AgeRange: AgeChild,
		}),
		"elderly_wise": withDefaults(Profile{
			Name:         "Elderly Wise",
			Gender:       GenderMale,
			Pitch:        -1.0,
			Speed:        0.8,
			Volume:       0.95,
			AgeRange:     AgeElderly,
			CustomParams: map[string]any{"tremolo": 0.3},
		}),
	})
}

// withDefaults fills the fields a preset leaves unset.
func withDefaults(p Profile) Profile {
	if p.Language == "" {
		p.Language = "en-US"
	}
	if p.Accent == "" {
		p.Accent = "neutral"
	}
	if p.EmotionDefault == "" {
		p.EmotionDefault = "neutral"
	}
	return p
}
