package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxa/pkg/model"
)

func TestApplyZeroTransformIsIdentity(t *testing.T) {
	in := model.NewAudioData([]byte("AUDIO"), "wav", 16000, 1.0)
	out, err := Apply(in, Transform{})
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestApplySkipsZeroFields(t *testing.T) {
	in := model.NewAudioData([]byte("AUDIO"), "wav", 16000, 1.0)
	out, err := Apply(in, Transform{PitchShift: 4.0, TimbreMorph: 0.5})
	require.NoError(t, err)

	s := string(out.Bytes)
	assert.True(t, strings.HasPrefix(s, "[pitch +4.0]"))
	assert.Contains(t, s, "[timbre +0.50]")
	assert.NotContains(t, s, "[formant")
	assert.NotContains(t, s, "[breath")
	assert.Equal(t, []byte("AUDIO"), in.Bytes, "input must not be mutated")
}

func TestApplyAcceptsOutOfRangePitch(t *testing.T) {
	// Transform pitch is deliberately not validated at construction or
	// application time, unlike profile pitch.
	in := model.NewAudioData([]byte("AUDIO"), "wav", 16000, 1.0)
	out, err := Apply(in, Transform{PitchShift: 30.0})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out.Bytes), "[pitch +30.0]"))
}

func TestSanitizeClamps(t *testing.T) {
	tr := Transform{
		PitchShift:   30.0,
		FormantShift: 0.1,
		TimbreMorph:  -2.0,
		Breathiness:  1.5,
		Roughness:    -0.5,
	}.Sanitize()

	assert.Equal(t, 12.0, tr.PitchShift)
	assert.Equal(t, 0.5, tr.FormantShift)
	assert.Equal(t, -1.0, tr.TimbreMorph)
	assert.Equal(t, 1.0, tr.Breathiness)
	assert.Equal(t, 0.0, tr.Roughness)
}

func TestPresetTransforms(t *testing.T) {
	m2f := MaleToFemale()
	assert.Equal(t, 4.0, m2f.PitchShift)
	assert.Equal(t, 1.15, m2f.FormantShift)

	f2m := FemaleToMale()
	assert.Equal(t, -4.0, f2m.PitchShift)
	assert.Equal(t, -0.5, f2m.TimbreMorph)

	robot := RobotVoice()
	assert.Equal(t, 0.0, robot.PitchShift)
	assert.Equal(t, 0.8, robot.Roughness)
	assert.False(t, robot.IsZero())
	assert.True(t, Transform{}.IsZero())
}

func TestPresetLookup(t *testing.T) {
	for name, want := range map[string]Transform{
		"male_to_female": MaleToFemale(),
		"female_to_male": FemaleToMale(),
		"robot_voice":    RobotVoice(),
	} {
		got, err := Preset(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := Preset("chipmunk")
	var perr *UnknownPresetError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "chipmunk", perr.Name)
}
