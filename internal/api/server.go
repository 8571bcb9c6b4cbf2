// Package api exposes the HTTP surface of the voice customization service.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"voxa/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful
// shutdown.
func NewServer(addr string, profiles *ProfileHandler, speech *SpeechHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Profile Endpoints
	mux.HandleFunc("POST /api/profiles", profiles.HandleCreate)
	mux.HandleFunc("GET /api/profiles", profiles.HandleList)
	mux.HandleFunc("GET /api/profiles/{id}", profiles.HandleGet)
	mux.HandleFunc("DELETE /api/profiles/{id}", profiles.HandleDelete)

	// 3. Catalog Endpoints
	mux.HandleFunc("GET /api/presets", profiles.HandlePresets)
	mux.HandleFunc("GET /api/emotions", profiles.HandleEmotions)

	// 4. Speech Endpoints
	if speech != nil {
		mux.HandleFunc("POST /api/synthesize", speech.HandleSynthesize)
		mux.HandleFunc("POST /api/recognize", speech.HandleRecognize)
		mux.HandleFunc("POST /api/apply", speech.HandleApply)
	}

	// 5. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
