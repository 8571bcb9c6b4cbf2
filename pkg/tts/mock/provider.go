// Package mock provides a deterministic in-process TTS engine for tests and
// offline use.
package mock

import (
	"context"
	"fmt"

	"voxa/pkg/model"
	"voxa/pkg/tts"
)

// charsPerSecond approximates average speech rate for duration estimates.
const charsPerSecond = 15.0

// Provider implements tts.Provider without any backend.
type Provider struct {
	// Fail, when set, makes every call return this error. Lets tests
	// exercise failure propagation.
	Fail error

	// Calls records every request for assertion.
	Calls []tts.Request
}

// New creates a mock provider.
func New() *Provider {
	return &Provider{}
}

// Synthesize produces a deterministic payload derived from the request.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (model.AudioData, error) {
	if err := ctx.Err(); err != nil {
		return model.AudioData{}, err
	}
	p.Calls = append(p.Calls, req)
	if p.Fail != nil {
		return model.AudioData{}, p.Fail
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}

	payload := []byte(fmt.Sprintf("[mock voice=%s lang=%s]%s", req.Voice, req.Language, req.Text))
	duration := float64(len(req.Text)) / (charsPerSecond * speed)
	return model.NewAudioData(payload, "pcm16", 22050, duration), nil
}

// Voices returns a fixed voice set.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return []tts.Voice{
		{ID: "mock-f1", Name: "Mock Female", Language: "en-US"},
		{ID: "mock-m1", Name: "Mock Male", Language: "en-US"},
	}, nil
}
