package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"voxa/pkg/engine"
	"voxa/pkg/voice"
)

// ProfileHandler serves the profile CRUD and the preset/emotion catalogs.
type ProfileHandler struct {
	engine *engine.Engine
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(e *engine.Engine) *ProfileHandler {
	return &ProfileHandler{engine: e}
}

// CreateProfileRequest is the body of POST /api/profiles. Pointer fields
// distinguish "not specified" from a zero value.
type CreateProfileRequest struct {
	Name       string `json:"name"`
	BasePreset string `json:"base_preset,omitempty"`

	Gender         *voice.Gender      `json:"gender,omitempty"`
	Pitch          *float64           `json:"pitch,omitempty"`
	Speed          *float64           `json:"speed,omitempty"`
	Volume         *float64           `json:"volume,omitempty"`
	Timbre         map[string]float64 `json:"timbre,omitempty"`
	Language       *string            `json:"language,omitempty"`
	Accent         *string            `json:"accent,omitempty"`
	AgeRange       *voice.AgeRange    `json:"age_range,omitempty"`
	EmotionDefault *string            `json:"emotion_default,omitempty"`
	CustomParams   map[string]any     `json:"custom_params,omitempty"`
}

func (r CreateProfileRequest) overrides() engine.Overrides {
	return engine.Overrides{
		Gender:         r.Gender,
		Pitch:          r.Pitch,
		Speed:          r.Speed,
		Volume:         r.Volume,
		Timbre:         r.Timbre,
		Language:       r.Language,
		Accent:         r.Accent,
		AgeRange:       r.AgeRange,
		EmotionDefault: r.EmotionDefault,
		CustomParams:   r.CustomParams,
	}
}

// HandleCreate handles POST /api/profiles
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("API: HandleCreate decode error", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.engine.CreateCustomVoice(r.Context(), req.Name, req.BasePreset, req.overrides())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleList handles GET /api/profiles
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.engine.Store().List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": summaries, "count": len(summaries)})
}

// HandleGet handles GET /api/profiles/{id}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.Store().Load(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /api/profiles/{id}
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := h.engine.Store().Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "profile not found"})
		return
	}
	slog.Info("API: profile deleted", "profile_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "profile_id": id})
}

// HandlePresets handles GET /api/presets
func (h *ProfileHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	names := h.engine.Presets().Names()
	presets := make(map[string]voice.Profile, len(names))
	for _, name := range names {
		p, err := h.engine.Presets().Get(name)
		if err != nil {
			writeError(w, err)
			return
		}
		presets[name] = p
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets, "names": names})
}

// HandleEmotions handles GET /api/emotions
func (h *ProfileHandler) HandleEmotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"emotions": h.engine.Emotions().List()})
}
