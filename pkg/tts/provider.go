// Package tts defines the Text-To-Speech provider boundary. Engines are
// opaque to the customization core: selection is by string key, failures
// surface as a single uniform backend error.
package tts

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"voxa/pkg/model"
)

// Request describes one synthesis call.
type Request struct {
	Text     string
	Voice    string  // engine-specific voice id, optional
	Language string  // locale code, e.g. "en-US"
	Speed    float64 // rate multiplier; 0 means engine default
}

// Provider defines the interface for Text-To-Speech engines.
type Provider interface {
	// Synthesize generates audio from text.
	Synthesize(ctx context.Context, req Request) (model.AudioData, error)

	// Voices returns the voices the engine offers.
	Voices(ctx context.Context) ([]Voice, error)
}

// Voice represents an available TTS voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	IsNeural bool   `json:"is_neural"`
}

// Registry maps engine keys to providers. It is populated at startup and
// read-only afterwards.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under the given engine key.
func (r *Registry) Register(engine string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[engine] = p
}

// Get returns the provider for the engine key.
func (r *Registry) Get(engine string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[engine]
	if !ok {
		return nil, fmt.Errorf("unsupported TTS engine: %q (have %v)", engine, r.enginesLocked())
	}
	return p, nil
}

// Engines returns the sorted registered engine keys.
func (r *Registry) Engines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enginesLocked()
}

func (r *Registry) enginesLocked() []string {
	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
