// Package effects models audio effect descriptors and their ordered
// application to an audio buffer.
//
// The effect set is closed: nine kinds, handled exhaustively at application
// time. Builders validate parameter ranges up front in the same
// collect-all-violations style as profile validation.
package effects

import (
	"fmt"
	"strings"
)

// Kind identifies one of the nine effect variants.
type Kind string

const (
	KindReverb      Kind = "reverb"
	KindEcho        Kind = "echo"
	KindEqualizer   Kind = "equalizer"
	KindChorus      Kind = "chorus"
	KindCompressor  Kind = "compressor"
	KindDistortion  Kind = "distortion"
	KindNoiseGate   Kind = "noise_gate"
	KindPitchShift  Kind = "pitch_shift"
	KindTimeStretch Kind = "time_stretch"
)

// Config is one parameterized effect. The set of implementations is closed;
// the unexported method keeps external packages from adding variants.
type Config interface {
	Kind() Kind
	// params returns all out-of-range parameters; empty means valid.
	params() []ParamError
	// stamp is the deterministic application marker for this effect.
	stamp() string
}

// ParamError describes a single out-of-range effect parameter.
type ParamError struct {
	Field   string  `json:"field"`
	Allowed string  `json:"allowed"`
	Value   float64 `json:"value"`
}

func (e ParamError) Error() string {
	return fmt.Sprintf("%s must be in %s, got %g", e.Field, e.Allowed, e.Value)
}

// ParameterRangeError reports every out-of-range parameter of one builder
// call.
type ParameterRangeError struct {
	Kind   Kind
	Params []ParamError
}

func (e *ParameterRangeError) Error() string {
	msgs := make([]string, len(e.Params))
	for i, p := range e.Params {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("invalid %s parameters: %s", e.Kind, strings.Join(msgs, "; "))
}

func checked(c Config) (Config, error) {
	if errs := c.params(); len(errs) > 0 {
		return nil, &ParameterRangeError{Kind: c.Kind(), Params: errs}
	}
	return c, nil
}

// Reverb simulates room acoustics.
type Reverb struct {
	RoomSize float64 `json:"room_size"` // [0, 1]
	Damping  float64 `json:"damping"`   // [0, 1]
}

func (Reverb) Kind() Kind { return KindReverb }

func (r Reverb) params() []ParamError {
	var errs []ParamError
	if r.RoomSize < 0 || r.RoomSize > 1 {
		errs = append(errs, ParamError{Field: "room_size", Allowed: "[0, 1]", Value: r.RoomSize})
	}
	if r.Damping < 0 || r.Damping > 1 {
		errs = append(errs, ParamError{Field: "damping", Allowed: "[0, 1]", Value: r.Damping})
	}
	return errs
}

func (r Reverb) stamp() string {
	return fmt.Sprintf("[reverb room=%.2f damp=%.2f]", r.RoomSize, r.Damping)
}

// NewReverb builds a validated reverb descriptor.
func NewReverb(roomSize, damping float64) (Config, error) {
	return checked(Reverb{RoomSize: roomSize, Damping: damping})
}

// Echo repeats the signal after a delay with decaying feedback.
type Echo struct {
	DelayMs  float64 `json:"delay_ms"` // > 0
	Feedback float64 `json:"feedback"` // [0, 1)
}

func (Echo) Kind() Kind { return KindEcho }

func (e Echo) params() []ParamError {
	var errs []ParamError
	if e.DelayMs <= 0 {
		errs = append(errs, ParamError{Field: "delay_ms", Allowed: "(0, inf)", Value: e.DelayMs})
	}
	if e.Feedback < 0 || e.Feedback >= 1 {
		errs = append(errs, ParamError{Field: "feedback", Allowed: "[0, 1)", Value: e.Feedback})
	}
	return errs
}

func (e Echo) stamp() string {
	return fmt.Sprintf("[echo delay=%.0fms fb=%.2f]", e.DelayMs, e.Feedback)
}

// NewEcho builds a validated echo descriptor.
func NewEcho(delayMs, feedback float64) (Config, error) {
	return checked(Echo{DelayMs: delayMs, Feedback: feedback})
}

// Equalizer adjusts three frequency bands in dB.
type Equalizer struct {
	Bass   float64 `json:"bass"`   // [-12, +12] dB
	Mid    float64 `json:"mid"`    // [-12, +12] dB
	Treble float64 `json:"treble"` // [-12, +12] dB
}

func (Equalizer) Kind() Kind { return KindEqualizer }

func (e Equalizer) params() []ParamError {
	var errs []ParamError
	for _, band := range []struct {
		name string
		val  float64
	}{{"bass", e.Bass}, {"mid", e.Mid}, {"treble", e.Treble}} {
		if band.val < -12 || band.val > 12 {
			errs = append(errs, ParamError{Field: band.name, Allowed: "[-12, +12] dB", Value: band.val})
		}
	}
	return errs
}

func (e Equalizer) stamp() string {
	return fmt.Sprintf("[eq bass=%+.1f mid=%+.1f treble=%+.1f]", e.Bass, e.Mid, e.Treble)
}

// NewEqualizer builds a validated three-band equalizer descriptor.
func NewEqualizer(bass, mid, treble float64) (Config, error) {
	return checked(Equalizer{Bass: bass, Mid: mid, Treble: treble})
}

// Chorus thickens the voice with modulated copies.
type Chorus struct {
	Depth float64 `json:"depth"` // [0, 1]
	Rate  float64 `json:"rate"`  // Hz, > 0
}

func (Chorus) Kind() Kind { return KindChorus }

func (c Chorus) params() []ParamError {
	var errs []ParamError
	if c.Depth < 0 || c.Depth > 1 {
		errs = append(errs, ParamError{Field: "depth", Allowed: "[0, 1]", Value: c.Depth})
	}
	if c.Rate <= 0 {
		errs = append(errs, ParamError{Field: "rate", Allowed: "(0, inf)", Value: c.Rate})
	}
	return errs
}

func (c Chorus) stamp() string {
	return fmt.Sprintf("[chorus depth=%.2f rate=%.2f]", c.Depth, c.Rate)
}

// NewChorus builds a validated chorus descriptor.
func NewChorus(depth, rate float64) (Config, error) {
	return checked(Chorus{Depth: depth, Rate: rate})
}

// Compressor reduces dynamic range above a threshold.
type Compressor struct {
	Ratio       float64 `json:"ratio"`        // >= 1
	ThresholdDB float64 `json:"threshold_db"` // <= 0
}

func (Compressor) Kind() Kind { return KindCompressor }

func (c Compressor) params() []ParamError {
	var errs []ParamError
	if c.Ratio < 1 {
		errs = append(errs, ParamError{Field: "ratio", Allowed: "[1, inf)", Value: c.Ratio})
	}
	if c.ThresholdDB > 0 {
		errs = append(errs, ParamError{Field: "threshold_db", Allowed: "(-inf, 0]", Value: c.ThresholdDB})
	}
	return errs
}

func (c Compressor) stamp() string {
	return fmt.Sprintf("[comp ratio=%.1f thr=%.1fdB]", c.Ratio, c.ThresholdDB)
}

// NewCompressor builds a validated compressor descriptor.
func NewCompressor(ratio, thresholdDB float64) (Config, error) {
	return checked(Compressor{Ratio: ratio, ThresholdDB: thresholdDB})
}

// Distortion adds harmonic saturation.
type Distortion struct {
	Amount float64 `json:"amount"` // [0, 1]
}

func (Distortion) Kind() Kind { return KindDistortion }

func (d Distortion) params() []ParamError {
	if d.Amount < 0 || d.Amount > 1 {
		return []ParamError{{Field: "amount", Allowed: "[0, 1]", Value: d.Amount}}
	}
	return nil
}

func (d Distortion) stamp() string {
	return fmt.Sprintf("[dist amount=%.2f]", d.Amount)
}

// NewDistortion builds a validated distortion descriptor.
func NewDistortion(amount float64) (Config, error) {
	return checked(Distortion{Amount: amount})
}

// NoiseGate silences the signal below a threshold.
type NoiseGate struct {
	ThresholdDB float64 `json:"threshold_db"` // <= 0
}

func (NoiseGate) Kind() Kind { return KindNoiseGate }

func (n NoiseGate) params() []ParamError {
	if n.ThresholdDB > 0 {
		return []ParamError{{Field: "threshold_db", Allowed: "(-inf, 0]", Value: n.ThresholdDB}}
	}
	return nil
}

func (n NoiseGate) stamp() string {
	return fmt.Sprintf("[gate thr=%.1fdB]", n.ThresholdDB)
}

// NewNoiseGate builds a validated noise gate descriptor.
func NewNoiseGate(thresholdDB float64) (Config, error) {
	return checked(NoiseGate{ThresholdDB: thresholdDB})
}

// PitchShift transposes the buffer by a semitone delta. The delta is not
// range-restricted; extreme values are a caller choice.
type PitchShift struct {
	Semitones float64 `json:"semitones"`
}

func (PitchShift) Kind() Kind { return KindPitchShift }

func (PitchShift) params() []ParamError { return nil }

func (p PitchShift) stamp() string {
	return fmt.Sprintf("[pitch %+.1f]", p.Semitones)
}

// NewPitchShift builds a pitch shift descriptor.
func NewPitchShift(semitones float64) (Config, error) {
	return checked(PitchShift{Semitones: semitones})
}

// TimeStretch changes playback length without transposing.
type TimeStretch struct {
	Factor float64 `json:"factor"` // > 0
}

func (TimeStretch) Kind() Kind { return KindTimeStretch }

func (t TimeStretch) params() []ParamError {
	if t.Factor <= 0 {
		return []ParamError{{Field: "factor", Allowed: "(0, inf)", Value: t.Factor}}
	}
	return nil
}

func (t TimeStretch) stamp() string {
	return fmt.Sprintf("[stretch x%.2f]", t.Factor)
}

// NewTimeStretch builds a validated time stretch descriptor.
func NewTimeStretch(factor float64) (Config, error) {
	return checked(TimeStretch{Factor: factor})
}
