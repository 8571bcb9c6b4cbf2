package api

import (
	"fmt"

	"voxa/pkg/effects"
)

// EffectSpec is the wire form of one effect descriptor.
type EffectSpec struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

// buildEffects converts wire descriptors into validated effect configs.
// Builder validation runs here so a bad descriptor fails before any audio
// work starts.
func buildEffects(specs []EffectSpec) ([]effects.Config, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	chain := make([]effects.Config, 0, len(specs))
	for i, s := range specs {
		cfg, err := buildEffect(s)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i+1, err)
		}
		chain = append(chain, cfg)
	}
	return chain, nil
}

func buildEffect(s EffectSpec) (effects.Config, error) {
	p := func(key string) float64 { return s.Params[key] }

	switch effects.Kind(s.Kind) {
	case effects.KindReverb:
		return effects.NewReverb(p("room_size"), p("damping"))
	case effects.KindEcho:
		return effects.NewEcho(p("delay_ms"), p("feedback"))
	case effects.KindEqualizer:
		return effects.NewEqualizer(p("bass"), p("mid"), p("treble"))
	case effects.KindChorus:
		return effects.NewChorus(p("depth"), p("rate"))
	case effects.KindCompressor:
		return effects.NewCompressor(p("ratio"), p("threshold_db"))
	case effects.KindDistortion:
		return effects.NewDistortion(p("amount"))
	case effects.KindNoiseGate:
		return effects.NewNoiseGate(p("threshold_db"))
	case effects.KindPitchShift:
		return effects.NewPitchShift(p("semitones"))
	case effects.KindTimeStretch:
		return effects.NewTimeStretch(p("factor"))
	default:
		return nil, fmt.Errorf("unknown effect kind: %q", s.Kind)
	}
}
