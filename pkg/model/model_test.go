package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioDataWithBytes(t *testing.T) {
	orig := NewAudioData([]byte("abc"), "wav", 44100, 1.5)
	derived := orig.WithBytes([]byte("abcdef"))

	assert.Equal(t, []byte("abc"), orig.Bytes, "input must not be mutated")
	assert.Equal(t, []byte("abcdef"), derived.Bytes)
	assert.Equal(t, "wav", derived.Format)
	assert.Equal(t, 44100, derived.SampleRate)
	assert.Equal(t, 1.5, derived.Duration)
}

func TestAudioDataEqual(t *testing.T) {
	a := NewAudioData([]byte("abc"), "wav", 44100, 1.5)
	b := NewAudioData([]byte("abc"), "wav", 44100, 1.5)
	c := NewAudioData([]byte("abc"), "mp3", 44100, 1.5)

	assert.True(t, a.Equal(b), "timestamps must not affect equality")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a.WithBytes([]byte("xyz"))))
}

func TestNewTextData(t *testing.T) {
	td := NewTextData("hello", "en-US")
	assert.Equal(t, 1.0, td.Confidence)
	assert.Equal(t, "en-US", td.Language)
}
