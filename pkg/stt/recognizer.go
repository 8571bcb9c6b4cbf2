// Package stt defines the Speech-To-Text boundary. Like tts, engines are
// selected by string key and failures surface as backend errors.
package stt

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"voxa/pkg/model"
)

// Recognizer converts recorded audio into text.
type Recognizer interface {
	// Recognize transcribes the audio. The returned TextData carries the
	// provider's confidence in [0,1] and the detected or requested language.
	Recognize(ctx context.Context, audio model.AudioData, language string) (model.TextData, error)
}

// Registry maps engine keys to recognizers.
type Registry struct {
	mu          sync.RWMutex
	recognizers map[string]Recognizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{recognizers: make(map[string]Recognizer)}
}

// Register adds a recognizer under the given engine key.
func (r *Registry) Register(engine string, rec Recognizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recognizers[engine] = rec
}

// Get returns the recognizer for the engine key.
func (r *Registry) Get(engine string) (Recognizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recognizers[engine]
	if !ok {
		return nil, fmt.Errorf("unsupported STT engine: %q (have %v)", engine, r.enginesLocked())
	}
	return rec, nil
}

// Engines returns the sorted registered engine keys.
func (r *Registry) Engines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enginesLocked()
}

func (r *Registry) enginesLocked() []string {
	keys := make([]string, 0, len(r.recognizers))
	for k := range r.recognizers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
