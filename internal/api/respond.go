package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"voxa/pkg/audiofile"
	"voxa/pkg/backend"
	"voxa/pkg/effects"
	"voxa/pkg/store"
	"voxa/pkg/textnorm"
	"voxa/pkg/transform"
	"voxa/pkg/voice"
	"voxa/pkg/voice/emotion"
)

// errorResponse is the uniform JSON error body. Detail carries the
// structured part of the failure (field errors, chain position) so callers
// can correct input without parsing messages.
type errorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("API: failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses and a structured
// JSON body.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *voice.ValidationError
		perr *voice.UnknownPresetError
		eerr *emotion.UnknownEmotionError
		ierr *emotion.IntensityError
		rerr *effects.ParameterRangeError
		cerr *effects.ChainError
		terr *transform.UnknownPresetError
		serr *audiofile.SecurityError
		ferr *audiofile.FormatError
		berr *backend.Error
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Detail: verr.Errors})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: perr.Error(), Detail: map[string]string{"preset": perr.Name}})
	case errors.As(err, &eerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: eerr.Error(), Detail: map[string]string{"emotion": eerr.Name}})
	case errors.As(err, &ierr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ierr.Error()})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  cerr.Error(),
			Detail: map[string]any{"position": cerr.Position, "kind": cerr.Kind},
		})
	case errors.As(err, &rerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: rerr.Error(), Detail: rerr.Params})
	case errors.As(err, &terr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: terr.Error(), Detail: map[string]string{"preset": terr.Name}})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, audiofile.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, audiofile.ErrExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: serr.Error()})
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ferr.Error()})
	case errors.Is(err, textnorm.ErrEmptyText):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &berr):
		slog.Error("API: backend failure", "op", berr.Op, "engine", berr.Engine, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:  berr.Error(),
			Detail: map[string]any{"engine": berr.Engine, "op": berr.Op},
		})
	default:
		slog.Error("API: internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
