// Package engine orchestrates profile creation and audio customization.
// Operations are synchronous and all-or-nothing: a failed stage returns the
// stage's error and no partial output.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voxa/pkg/effects"
	"voxa/pkg/model"
	"voxa/pkg/store"
	"voxa/pkg/transform"
	"voxa/pkg/voice"
	"voxa/pkg/voice/emotion"
)

// Engine wires the preset table, emotion engine and profile store together.
type Engine struct {
	store    store.ProfileStore
	emotions *emotion.Engine
	presets  *voice.PresetRegistry
}

// New creates an Engine. All collaborators are required.
func New(st store.ProfileStore, em *emotion.Engine, presets *voice.PresetRegistry) *Engine {
	return &Engine{store: st, emotions: em, presets: presets}
}

// Presets exposes the preset registry for listing.
func (e *Engine) Presets() *voice.PresetRegistry {
	return e.presets
}

// Emotions exposes the emotion engine for listing and ad-hoc resolution.
func (e *Engine) Emotions() *emotion.Engine {
	return e.emotions
}

// Store exposes the profile store for read paths (load, list, delete).
func (e *Engine) Store() store.ProfileStore {
	return e.store
}

// Overrides carries per-field profile overrides for CreateCustomVoice.
// Nil pointer fields are "not specified" and leave the preset or default
// value untouched; set fields always win.
type Overrides struct {
	Gender         *voice.Gender
	Pitch          *float64
	Speed          *float64
	Volume         *float64
	Timbre         map[string]float64
	Language       *string
	Accent         *string
	AgeRange       *voice.AgeRange
	EmotionDefault *string
	CustomParams   map[string]any
}

func (o Overrides) applyTo(p *voice.Profile) {
	if o.Gender != nil {
		p.Gender = *o.Gender
	}
	if o.Pitch != nil {
		p.Pitch = *o.Pitch
	}
	if o.Speed != nil {
		p.Speed = *o.Speed
	}
	if o.Volume != nil {
		p.Volume = *o.Volume
	}
	if o.Timbre != nil {
		p.Timbre = make(map[string]float64, len(o.Timbre))
		for k, v := range o.Timbre {
			p.Timbre[k] = v
		}
	}
	if o.Language != nil {
		p.Language = *o.Language
	}
	if o.Accent != nil {
		p.Accent = *o.Accent
	}
	if o.AgeRange != nil {
		p.AgeRange = *o.AgeRange
	}
	if o.EmotionDefault != nil {
		p.EmotionDefault = *o.EmotionDefault
	}
	if o.CustomParams != nil {
		p.CustomParams = make(map[string]any, len(o.CustomParams))
		for k, v := range o.CustomParams {
			p.CustomParams[k] = v
		}
	}
}

// CreateCustomVoice builds a profile from a preset (or the documented
// defaults when basePreset is empty) with overrides applied on top, assigns
// a fresh id, validates every field, and persists it. The profile is only
// returned once durable; a validation or storage failure creates nothing.
// The name always comes from the explicit argument.
func (e *Engine) CreateCustomVoice(ctx context.Context, name, basePreset string, overrides Overrides) (*voice.Profile, error) {
	var p voice.Profile
	if basePreset != "" {
		preset, err := e.presets.Get(basePreset)
		if err != nil {
			return nil, err
		}
		p = preset.Clone()
	} else {
		p = voice.Default()
	}

	overrides.applyTo(&p)

	p.Name = name
	p.ProfileID = voice.NewID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := p.Check(); err != nil {
		slog.Warn("engine: profile rejected", "name", name, "preset", basePreset, "error", err)
		return nil, err
	}

	location, err := e.store.Save(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	slog.Info("engine: profile created", "profile_id", p.ProfileID, "name", p.Name, "preset", basePreset, "location", location)
	return &p, nil
}

// ApplyOptions selects the emotion and effect chain for ApplyVoiceProfile.
type ApplyOptions struct {
	// Emotion, when set, resolves modifiers against the profile before the
	// scalar stage. Empty means the profile's own scalars apply unchanged.
	Emotion string

	// EmotionIntensity in [0,1]; only read when Emotion is set. The zero
	// value means full intensity to keep the common call site short.
	EmotionIntensity *float64

	// Transform, when set, morphs the voice after the scalar stage and
	// before the effect chain.
	Transform *transform.Transform

	// Effects run after the scalar stage, strictly in order.
	Effects []effects.Config
}

func (o ApplyOptions) intensity() float64 {
	if o.EmotionIntensity == nil {
		return 1.0
	}
	return *o.EmotionIntensity
}

// ApplyVoiceProfile customizes audio with the given profile. The stage
// order is fixed: emotion resolution, scalar pitch/speed/volume, voice
// transform, then the effect chain. The input is never mutated; any stage
// error aborts the whole call with no partial output.
func (e *Engine) ApplyVoiceProfile(ctx context.Context, audio model.AudioData, p *voice.Profile, opts ApplyOptions) (model.AudioData, error) {
	if p == nil {
		return model.AudioData{}, fmt.Errorf("profile is required")
	}
	if err := p.Check(); err != nil {
		return model.AudioData{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.AudioData{}, err
	}

	pitch, speed, volume := p.Pitch, p.Speed, p.Volume
	if opts.Emotion != "" {
		mods, err := e.emotions.Apply(opts.Emotion, opts.intensity(), p)
		if err != nil {
			return model.AudioData{}, err
		}
		pitch, speed, volume = mods.FinalPitch, mods.FinalSpeed, mods.FinalVolume
	}

	out := applyScalars(audio, pitch, speed, volume)

	if opts.Transform != nil && !opts.Transform.IsZero() {
		var err error
		out, err = transform.Apply(out, *opts.Transform)
		if err != nil {
			return model.AudioData{}, err
		}
	}

	if len(opts.Effects) > 0 {
		var err error
		out, err = effects.Apply(out, opts.Effects)
		if err != nil {
			return model.AudioData{}, err
		}
	}

	slog.Debug("engine: profile applied",
		"profile_id", p.ProfileID, "emotion", opts.Emotion,
		"pitch", pitch, "speed", speed, "volume", volume,
		"effects", len(opts.Effects), "duration", out.Duration)
	return out, nil
}

// applyScalars adjusts the audio by the resolved pitch/speed/volume. Each
// adjustment prepends a stamp in documented order (pitch outermost), speed
// shortens or lengthens the reported duration, and volume scales PCM
// samples where the payload is linear PCM.
func applyScalars(audio model.AudioData, pitch, speed, volume float64) model.AudioData {
	out := audio

	if volume != 1.0 {
		out = effects.Gain(out, volume)
		out = out.WithBytes(stamp(out.Bytes, fmt.Sprintf("[vol x%.2f]", volume)))
	}
	if speed != 1.0 && speed > 0 {
		out = out.WithDuration(out.Duration / speed)
		out = out.WithBytes(stamp(out.Bytes, fmt.Sprintf("[speed x%.2f]", speed)))
	}
	if pitch != 0 {
		out = out.WithBytes(stamp(out.Bytes, fmt.Sprintf("[pitch %+.1f]", pitch)))
	}
	return out
}

func stamp(payload []byte, marker string) []byte {
	return append([]byte(marker), payload...)
}
