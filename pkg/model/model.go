// Package model defines the value objects shared across the voice pipeline.
package model

import (
	"bytes"
	"time"
)

// AudioData is an immutable audio buffer with format metadata.
// Every transformation in the pipeline returns a new AudioData and never
// modifies the input in place.
type AudioData struct {
	Bytes      []byte    `json:"-"`
	Format     string    `json:"format"`      // "wav", "mp3", "pcm16", ...
	SampleRate int       `json:"sample_rate"` // Hz
	Duration   float64   `json:"duration"`    // seconds
	Timestamp  time.Time `json:"timestamp"`
}

// NewAudioData creates an AudioData with the timestamp set to now.
func NewAudioData(b []byte, format string, sampleRate int, duration float64) AudioData {
	return AudioData{
		Bytes:      b,
		Format:     format,
		SampleRate: sampleRate,
		Duration:   duration,
		Timestamp:  time.Now().UTC(),
	}
}

// WithBytes returns a copy of the audio carrying the given payload.
// Format metadata is preserved; the timestamp is refreshed.
func (a AudioData) WithBytes(b []byte) AudioData {
	out := a
	out.Bytes = b
	out.Timestamp = time.Now().UTC()
	return out
}

// WithDuration returns a copy with an adjusted duration.
func (a AudioData) WithDuration(seconds float64) AudioData {
	out := a
	out.Duration = seconds
	return out
}

// Equal reports whether two buffers carry the same payload and format
// metadata. Timestamps are ignored.
func (a AudioData) Equal(b AudioData) bool {
	return a.Format == b.Format &&
		a.SampleRate == b.SampleRate &&
		a.Duration == b.Duration &&
		bytes.Equal(a.Bytes, b.Bytes)
}

// TextData is a transcription or synthesis input with confidence metadata.
type TextData struct {
	Text       string         `json:"text"`
	Confidence float64        `json:"confidence"` // [0,1]
	Language   string         `json:"language"`   // locale code, e.g. "en-US"
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewTextData creates a TextData with full confidence and the given language.
func NewTextData(text, language string) TextData {
	return TextData{Text: text, Confidence: 1.0, Language: language}
}
