package api

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"voxa/pkg/audiofile"
	"voxa/pkg/cache"
	"voxa/pkg/engine"
	"voxa/pkg/model"
	"voxa/pkg/stt"
	"voxa/pkg/textnorm"
	"voxa/pkg/transform"
	"voxa/pkg/tts"
)

// SpeechHandler serves synthesis, recognition and profile application.
type SpeechHandler struct {
	engine *engine.Engine
	tts    *tts.Registry
	stt    *stt.Registry
	loader *audiofile.Loader
	writer *audiofile.Writer
	cache  cache.Cacher

	defaultTTS string
	defaultSTT string
}

// NewSpeechHandler creates a new SpeechHandler. A nil cache disables
// synthesis caching.
func NewSpeechHandler(e *engine.Engine, ttsReg *tts.Registry, sttReg *stt.Registry, loader *audiofile.Loader, writer *audiofile.Writer, c cache.Cacher, defaultTTS, defaultSTT string) *SpeechHandler {
	if c == nil {
		c = cache.Null{}
	}
	return &SpeechHandler{
		engine:     e,
		tts:        ttsReg,
		stt:        sttReg,
		loader:     loader,
		writer:     writer,
		cache:      c,
		defaultTTS: defaultTTS,
		defaultSTT: defaultSTT,
	}
}

// SynthesizeRequest is the body of POST /api/synthesize.
type SynthesizeRequest struct {
	Text     string  `json:"text"`
	Engine   string  `json:"engine,omitempty"`
	Voice    string  `json:"voice,omitempty"`
	Language string  `json:"language,omitempty"`
	Speed    float64 `json:"speed,omitempty"`

	// Normalize runs text normalization before synthesis.
	Normalize bool `json:"normalize,omitempty"`

	// ProfileID, when set, applies the stored profile to the synthesized
	// audio before returning.
	ProfileID string         `json:"profile_id,omitempty"`
	Emotion   string         `json:"emotion,omitempty"`
	Intensity *float64       `json:"intensity,omitempty"`
	Transform *TransformSpec `json:"transform,omitempty"`
	Effects   []EffectSpec   `json:"effects,omitempty"`

	// SaveAs writes the result under the audio base dir instead of
	// returning the payload inline. A trailing slash picks a timestamped
	// filename in that directory.
	SaveAs    string `json:"save_as,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

// AudioResponse describes produced audio. Payload is base64 and only set
// when the audio was not saved to a file.
type AudioResponse struct {
	Format     string  `json:"format"`
	SampleRate int     `json:"sample_rate"`
	Duration   float64 `json:"duration"`
	Size       int     `json:"size"`
	Payload    string  `json:"payload,omitempty"`
	Path       string  `json:"path,omitempty"`
}

// HandleSynthesize handles POST /api/synthesize
func (h *SpeechHandler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("API: HandleSynthesize decode error", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	text := req.Text
	if req.Normalize {
		td, err := textnorm.Normalize(text, textnorm.Options{CollapseWhitespace: true})
		if err != nil {
			writeError(w, err)
			return
		}
		text = td.Text
	} else if text == "" {
		writeError(w, textnorm.ErrEmptyText)
		return
	}

	engineKey := req.Engine
	if engineKey == "" {
		engineKey = h.defaultTTS
	}
	provider, err := h.tts.Get(engineKey)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	key := cache.Key(engineKey, req.Voice, req.Language, req.Speed, text)
	audio, hit := h.cache.Get(r.Context(), key)
	if !hit {
		audio, err = provider.Synthesize(r.Context(), tts.Request{
			Text:     text,
			Voice:    req.Voice,
			Language: req.Language,
			Speed:    req.Speed,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		// Best effort; a failed store never fails the request.
		_ = h.cache.Set(r.Context(), key, audio)
	} else {
		slog.Debug("API: synthesis cache hit", "engine", engineKey, "key", key)
	}

	if req.ProfileID != "" {
		audio, err = h.applyProfile(r, audio, req.ProfileID, req.Emotion, req.Intensity, req.Transform, req.Effects)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	h.respondAudio(w, audio, req.SaveAs, req.Overwrite)
}

// RecognizeRequest is the body of POST /api/recognize.
type RecognizeRequest struct {
	Path     string `json:"path"`
	Engine   string `json:"engine,omitempty"`
	Language string `json:"language,omitempty"`
}

// HandleRecognize handles POST /api/recognize
func (h *SpeechHandler) HandleRecognize(w http.ResponseWriter, r *http.Request) {
	var req RecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	engineKey := req.Engine
	if engineKey == "" {
		engineKey = h.defaultSTT
	}
	recognizer, err := h.stt.Get(engineKey)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	audio, err := h.loader.Load(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	td, err := recognizer.Recognize(r.Context(), audio, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, td)
}

// TransformSpec selects a voice morph: either a named preset or explicit
// deltas. A non-empty preset wins over inline fields.
type TransformSpec struct {
	Preset string `json:"preset,omitempty"`
	transform.Transform
}

// resolve turns the spec into the transform to run, or nil for none.
func (s *TransformSpec) resolve() (*transform.Transform, error) {
	if s == nil {
		return nil, nil
	}
	if s.Preset != "" {
		t, err := transform.Preset(s.Preset)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	t := s.Transform
	return &t, nil
}

// ApplyRequest is the body of POST /api/apply.
type ApplyRequest struct {
	Path      string         `json:"path"`
	ProfileID string         `json:"profile_id"`
	Emotion   string         `json:"emotion,omitempty"`
	Intensity *float64       `json:"intensity,omitempty"`
	Transform *TransformSpec `json:"transform,omitempty"`
	Effects   []EffectSpec   `json:"effects,omitempty"`

	SaveAs    string `json:"save_as,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

// HandleApply handles POST /api/apply
func (h *SpeechHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ProfileID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "profile_id is required"})
		return
	}

	audio, err := h.loader.Load(req.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.applyProfile(r, audio, req.ProfileID, req.Emotion, req.Intensity, req.Transform, req.Effects)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondAudio(w, out, req.SaveAs, req.Overwrite)
}

func (h *SpeechHandler) applyProfile(r *http.Request, audio model.AudioData, profileID, emotion string, intensity *float64, tspec *TransformSpec, specs []EffectSpec) (model.AudioData, error) {
	p, err := h.engine.Store().Load(r.Context(), profileID)
	if err != nil {
		return model.AudioData{}, err
	}
	morph, err := tspec.resolve()
	if err != nil {
		return model.AudioData{}, err
	}
	chain, err := buildEffects(specs)
	if err != nil {
		return model.AudioData{}, err
	}
	return h.engine.ApplyVoiceProfile(r.Context(), audio, p, engine.ApplyOptions{
		Emotion:          emotion,
		EmotionIntensity: intensity,
		Transform:        morph,
		Effects:          chain,
	})
}

func (h *SpeechHandler) respondAudio(w http.ResponseWriter, audio model.AudioData, saveAs string, overwrite bool) {
	resp := AudioResponse{
		Format:     audio.Format,
		SampleRate: audio.SampleRate,
		Duration:   audio.Duration,
		Size:       len(audio.Bytes),
	}

	if saveAs != "" {
		// A trailing slash means "pick a name for me".
		if strings.HasSuffix(saveAs, "/") {
			saveAs += audiofile.Stamp("synth", audio.Format)
		}
		res, err := h.writer.Write(audio, saveAs, overwrite)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Path = res.Path
	} else {
		resp.Payload = base64.StdEncoding.EncodeToString(audio.Bytes)
	}
	writeJSON(w, http.StatusOK, resp)
}
