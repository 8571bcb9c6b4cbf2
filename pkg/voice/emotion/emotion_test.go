package emotion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"voxa/pkg/voice"
)

func TestApplyZeroIntensityIsIdentity(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	m, err := eng.Apply("happy", 0.0, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, m.PitchShift)
	assert.Equal(t, 1.0, m.SpeedMultiplier)
	assert.Equal(t, 1.0, m.VolumeMultiplier)
	assert.Equal(t, 1.0, m.PitchVariance)
}

func TestApplyFullIntensityMatchesTable(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	m, err := eng.Apply("happy", 1.0, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, m.PitchShift)
	assert.Equal(t, 1.1, m.SpeedMultiplier)
	assert.Equal(t, 1.05, m.VolumeMultiplier)
	assert.Equal(t, 1.3, m.PitchVariance)
}

func TestApplyHalfIntensityInterpolates(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	// sad: pitch -1.5, speed 0.85, volume 0.9
	m, err := eng.Apply("sad", 0.5, nil)
	assert.NoError(t, err)
	assert.InDelta(t, -0.75, m.PitchShift, 1e-9)
	assert.InDelta(t, 0.925, m.SpeedMultiplier, 1e-9, "speed interpolates toward 1.0, not toward 0")
	assert.InDelta(t, 0.95, m.VolumeMultiplier, 1e-9)
}

func TestApplyWithBaseProfile(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	base := voice.Default()
	base.Name = "Narrator"
	base.Pitch = -4.0
	base.Speed = 0.85
	base.Volume = 1.1

	m, err := eng.Apply("excited", 1.0, &base)
	assert.NoError(t, err)
	assert.True(t, m.HasFinals)
	assert.InDelta(t, -1.0, m.FinalPitch, 1e-9)
	assert.InDelta(t, 0.85*1.3, m.FinalSpeed, 1e-9)
	assert.InDelta(t, 1.1*1.1, m.FinalVolume, 1e-9)
}

func TestApplyFinalsNotReclamped(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	base := voice.Default()
	base.Name = "High"
	base.Pitch = 11.0

	// excited adds +3.0 at full intensity; the final may exceed the
	// profile pitch range and must be reported as-is.
	m, err := eng.Apply("excited", 1.0, &base)
	assert.NoError(t, err)
	assert.InDelta(t, 14.0, m.FinalPitch, 1e-9)
}

func TestApplyUnknownEmotion(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	_, err := eng.Apply("bored", 0.5, nil)
	var uerr *UnknownEmotionError
	assert.True(t, errors.As(err, &uerr))
	assert.Equal(t, "bored", uerr.Name)
}

func TestApplyIntensityOutOfRangeRejected(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	for _, v := range []float64{-0.01, 1.01, 2.0} {
		_, err := eng.Apply("happy", v, nil)
		var ierr *IntensityError
		assert.True(t, errors.As(err, &ierr), "intensity %g must be rejected", v)
	}
}

func TestBuiltinTableNames(t *testing.T) {
	eng := NewEngine(BuiltinTable())
	assert.Equal(t, []string{
		"angry", "calm", "confident", "excited",
		"fearful", "happy", "neutral", "sad",
	}, eng.List())
}

func TestNeutralIsIdentityAtAnyIntensity(t *testing.T) {
	eng := NewEngine(BuiltinTable())

	for _, v := range []float64{0.0, 0.3, 1.0} {
		m, err := eng.Apply("neutral", v, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, m.PitchShift)
		assert.Equal(t, 1.0, m.SpeedMultiplier)
		assert.Equal(t, 1.0, m.VolumeMultiplier)
	}
}
