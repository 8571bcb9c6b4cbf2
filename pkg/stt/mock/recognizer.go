// Package mock provides a deterministic in-process recognizer for tests.
package mock

import (
	"context"

	"voxa/pkg/model"
)

// Recognizer implements stt.Recognizer without any backend. The transcript
// is fixed per instance, falling back to a canned phrase.
type Recognizer struct {
	// Transcript, when set, is returned verbatim.
	Transcript string

	// Fail, when set, makes every call return this error.
	Fail error

	// Calls counts invocations.
	Calls int
}

// New creates a mock recognizer.
func New() *Recognizer {
	return &Recognizer{}
}

// Recognize returns the configured transcript with full confidence.
func (r *Recognizer) Recognize(ctx context.Context, audio model.AudioData, language string) (model.TextData, error) {
	if err := ctx.Err(); err != nil {
		return model.TextData{}, err
	}
	r.Calls++
	if r.Fail != nil {
		return model.TextData{}, r.Fail
	}

	text := r.Transcript
	if text == "" {
		text = "mock transcription"
	}
	lang := language
	if lang == "" {
		lang = "en-US"
	}
	return model.TextData{
		Text:       text,
		Confidence: 1.0,
		Language:   lang,
		Metadata:   map[string]any{"engine": "mock", "bytes": len(audio.Bytes)},
	}, nil
}
