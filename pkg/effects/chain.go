package effects

import (
	"encoding/binary"
	"fmt"
	"math"

	"voxa/pkg/model"
)

// ChainError identifies the failing effect of a chain by 1-based position
// and kind. When a chain fails, no partial output is produced.
type ChainError struct {
	Position int
	Kind     Kind
	Err      error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("effect %d (%s) failed: %v", e.Position, e.Kind, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

// Apply runs the chain over the audio strictly in list order and returns the
// transformed buffer. Order is load-bearing: the same effects in a different
// order produce a different result.
//
// An empty chain returns the input unchanged. Any invalid or nil entry fails
// the whole chain; nothing is returned from a partial application.
func Apply(audio model.AudioData, chain []Config) (model.AudioData, error) {
	if len(chain) == 0 {
		return audio, nil
	}

	out := audio
	for i, cfg := range chain {
		pos := i + 1
		if cfg == nil {
			return model.AudioData{}, &ChainError{Position: pos, Kind: "nil", Err: fmt.Errorf("nil effect config")}
		}
		// Descriptors built via the New* constructors are already valid,
		// but literals can arrive with out-of-range fields.
		if errs := cfg.params(); len(errs) > 0 {
			return model.AudioData{}, &ChainError{
				Position: pos,
				Kind:     cfg.Kind(),
				Err:      &ParameterRangeError{Kind: cfg.Kind(), Params: errs},
			}
		}
		out = applyOne(out, cfg)
	}
	return out, nil
}

// applyOne transforms the audio with a single validated effect. Every kind
// prepends its stamp so application order stays observable; kinds with a
// cheap sample-domain meaning additionally adjust 16-bit PCM payloads or
// duration metadata. Full filter DSP is out of scope here.
func applyOne(audio model.AudioData, cfg Config) model.AudioData {
	payload := audio.Bytes
	duration := audio.Duration

	switch c := cfg.(type) {
	case Echo:
		duration += c.DelayMs / 1000.0
	case TimeStretch:
		duration *= c.Factor
	case Distortion:
		payload = mapPCM16(audio, payload, func(s float64) float64 {
			// tanh soft clip, driven harder as amount grows
			drive := 1.0 + 4.0*c.Amount
			return math.Tanh(s*drive) / math.Tanh(drive)
		})
	case NoiseGate:
		floor := math.Pow(10, c.ThresholdDB/20.0)
		payload = mapPCM16(audio, payload, func(s float64) float64 {
			if math.Abs(s) < floor {
				return 0
			}
			return s
		})
	case Compressor:
		thr := math.Pow(10, c.ThresholdDB/20.0)
		payload = mapPCM16(audio, payload, func(s float64) float64 {
			a := math.Abs(s)
			if a <= thr {
				return s
			}
			compressed := thr + (a-thr)/c.Ratio
			return math.Copysign(compressed, s)
		})
	}

	stamped := append([]byte(cfg.stamp()), payload...)
	return audio.WithBytes(stamped).WithDuration(duration)
}

// Gain scales a linear PCM payload by the given volume multiplier, clamping
// at full scale. Non-PCM payloads pass through unchanged; callers record the
// adjustment out of band.
func Gain(audio model.AudioData, volume float64) model.AudioData {
	payload := mapPCM16(audio, audio.Bytes, func(s float64) float64 {
		return s * volume
	})
	return audio.WithBytes(payload)
}

// pcmFormats are payload formats whose bytes are interleaved little-endian
// 16-bit samples.
func isPCM16(format string) bool {
	return format == "pcm16" || format == "wav"
}

// mapPCM16 applies fn to every sample of a 16-bit PCM payload, where fn maps
// normalized [-1, 1] values. Non-PCM payloads are returned untouched so the
// stamp still records the application.
func mapPCM16(audio model.AudioData, payload []byte, fn func(float64) float64) []byte {
	if !isPCM16(audio.Format) || len(payload)%2 != 0 {
		return payload
	}
	out := make([]byte, len(payload))
	for i := 0; i+1 < len(payload); i += 2 {
		s := float64(int16(binary.LittleEndian.Uint16(payload[i:]))) / math.MaxInt16
		v := fn(s)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(out[i:], uint16(int16(v*math.MaxInt16)))
	}
	return out
}
