package voice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinPresets(t *testing.T) {
	reg := BuiltinPresets()

	assert.Equal(t, []string{
		"child_voice",
		"elderly_wise",
		"friendly_assistant",
		"narrator_deep",
		"professional_female",
		"professional_male",
	}, reg.Names())

	// Every built-in preset must itself satisfy profile validation.
	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		assert.NoError(t, err)
		assert.Empty(t, p.Validate(), "preset %s must be valid", name)
	}
}

func TestPresetFields(t *testing.T) {
	reg := BuiltinPresets()

	pm, err := reg.Get("professional_male")
	assert.NoError(t, err)
	assert.Equal(t, GenderMale, pm.Gender)
	assert.Equal(t, -2.0, pm.Pitch)
	assert.Equal(t, 0.95, pm.Speed)
	assert.Equal(t, "american", pm.Accent)
	assert.Equal(t, "neutral", pm.EmotionDefault)

	ew, err := reg.Get("elderly_wise")
	assert.NoError(t, err)
	assert.Equal(t, AgeElderly, ew.AgeRange)
	assert.Equal(t, 0.3, ew.CustomParams["tremolo"])
}

func TestPresetUnknown(t *testing.T) {
	reg := BuiltinPresets()
	_, err := reg.Get("does_not_exist")

	var perr *UnknownPresetError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "does_not_exist", perr.Name)
}

func TestPresetGetReturnsCopy(t *testing.T) {
	reg := BuiltinPresets()

	p1, _ := reg.Get("elderly_wise")
	p1.CustomParams["tremolo"] = 0.9
	p1.Pitch = 11.0

	p2, _ := reg.Get("elderly_wise")
	assert.Equal(t, 0.3, p2.CustomParams["tremolo"], "registry must stay read-only")
	assert.Equal(t, -1.0, p2.Pitch)
}

func TestNewPresetRegistryCopiesTable(t *testing.T) {
	table := map[string]Profile{"one": {Name: "One", Pitch: 1.0}}
	reg := NewPresetRegistry(table)

	table["one"] = Profile{Name: "Mutated"}
	p, err := reg.Get("one")
	assert.NoError(t, err)
	assert.Equal(t, "One", p.Name)
}
