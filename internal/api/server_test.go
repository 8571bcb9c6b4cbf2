package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"voxa/pkg/audiofile"
	"voxa/pkg/engine"
	"voxa/pkg/store"
	"voxa/pkg/stt"
	sttmock "voxa/pkg/stt/mock"
	"voxa/pkg/tts"
	ttsmock "voxa/pkg/tts/mock"
	"voxa/pkg/version"
	"voxa/pkg/voice"
	"voxa/pkg/voice/emotion"
)

func newTestServer(t *testing.T) (*http.Server, *engine.Engine, string) {
	t.Helper()
	audioDir := t.TempDir()

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	eng := engine.New(st, emotion.NewEngine(emotion.BuiltinTable()), voice.BuiltinPresets())

	ttsReg := tts.NewRegistry()
	ttsReg.Register("mock", ttsmock.New())
	sttReg := stt.NewRegistry()
	sttReg.Register("mock", sttmock.New())

	speech := NewSpeechHandler(eng, ttsReg, sttReg,
		audiofile.NewLoader(audioDir), audiofile.NewWriter(audioDir), nil, "mock", "mock")

	srv := NewServer("localhost:0", NewProfileHandler(eng), speech, func() {})
	return srv, eng, audioDir
}

func doJSON(t *testing.T, srv *http.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), version.Version) {
		t.Errorf("health body missing version: %s", rec.Body.String())
	}
}

func TestProfileLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// Create from preset with an override.
	rec := doJSON(t, srv, http.MethodPost, "/api/profiles", map[string]any{
		"name":        "Anchor",
		"base_preset": "professional_male",
		"pitch":       -1.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created voice.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Pitch != -1.0 || created.Gender != voice.GenderMale {
		t.Errorf("unexpected profile: %+v", created)
	}

	// Get it back.
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/"+created.ProfileID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	// List contains it.
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), created.ProfileID) {
		t.Error("list missing created profile")
	}

	// Delete, then 404 on second delete.
	rec = doJSON(t, srv, http.MethodDelete, "/api/profiles/"+created.ProfileID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodDelete, "/api/profiles/"+created.ProfileID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestCreateProfileValidationDetail(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/profiles", map[string]any{
		"name":  "Broken",
		"pitch": 15.0,
		"speed": 3.5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Error  string `json:"error"`
		Detail []struct {
			Field   string `json:"field"`
			Allowed string `json:"allowed"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Detail) != 2 {
		t.Fatalf("expected 2 field errors, got %d (%s)", len(resp.Detail), rec.Body.String())
	}
	if resp.Detail[0].Field != "pitch" || resp.Detail[1].Field != "speed" {
		t.Errorf("unexpected field order: %+v", resp.Detail)
	}
}

func TestCreateProfileUnknownPreset(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/profiles", map[string]any{
		"name":        "x",
		"base_preset": "operatic_bass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "operatic_bass") {
		t.Error("error body should name the preset")
	}
}

func TestGetProfileNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/profiles/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCatalogs(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/presets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("presets: expected 200, got %d", rec.Code)
	}
	for _, name := range []string{"professional_male", "child_voice", "elderly_wise"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("presets missing %q", name)
		}
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/emotions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("emotions: expected 200, got %d", rec.Code)
	}
	for _, name := range []string{"happy", "sad", "angry", "neutral"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("emotions missing %q", name)
		}
	}
}

func TestSynthesizeInline(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/synthesize", map[string]any{
		"text":  "hello world",
		"voice": "mock-f1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AudioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	payload, err := base64.StdEncoding.DecodeString(resp.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(payload), "hello world") {
		t.Errorf("payload = %q", payload)
	}
	if resp.Duration <= 0 {
		t.Error("expected positive duration")
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/synthesize", map[string]any{"text": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSynthesizeUnknownEngine(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/synthesize", map[string]any{
		"text":   "hi",
		"engine": "bogus",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSynthesizeWithProfileAndSave(t *testing.T) {
	srv, eng, audioDir := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "Host", "friendly_assistant", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/synthesize", map[string]any{
		"text":       "welcome back",
		"profile_id": p.ProfileID,
		"emotion":    "happy",
		"effects":    []map[string]any{{"kind": "reverb", "params": map[string]float64{"room_size": 0.5, "damping": 0.5}}},
		"save_as":    "out/welcome.ogg",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AudioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Payload != "" {
		t.Error("saved response should not carry inline payload")
	}
	data, err := os.ReadFile(filepath.Join(audioDir, "out", "welcome.ogg"))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if !strings.Contains(string(data), "reverb") {
		t.Error("saved audio missing effect stamp")
	}
}

func TestApplyRoundTrip(t *testing.T) {
	srv, eng, audioDir := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "Deep", "narrator_deep", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(audioDir, "in.ogg"), []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "in.ogg",
		"profile_id": p.ProfileID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApplyMissingFile(t *testing.T) {
	srv, eng, _ := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "x", "", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "nope.ogg",
		"profile_id": p.ProfileID,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApplyWithTransformPreset(t *testing.T) {
	srv, eng, audioDir := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "Bot", "", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, "in.ogg"), []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "in.ogg",
		"profile_id": p.ProfileID,
		"transform":  map[string]any{"preset": "robot_voice"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AudioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	payload, err := base64.StdEncoding.DecodeString(resp.Payload)
	if err != nil {
		t.Fatal(err)
	}
	for _, stamp := range []string{"[formant x1.00]", "[timbre -1.00]", "[rough 0.80]"} {
		if !strings.Contains(string(payload), stamp) {
			t.Errorf("payload missing %q: %q", stamp, payload)
		}
	}
}

func TestApplyUnknownTransformPreset(t *testing.T) {
	srv, eng, audioDir := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "x", "", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, "in.ogg"), []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "in.ogg",
		"profile_id": p.ProfileID,
		"transform":  map[string]any{"preset": "chipmunk"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "chipmunk") {
		t.Error("error body should name the transform preset")
	}
}

func TestApplySaveAsDirectory(t *testing.T) {
	srv, eng, audioDir := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "x", "", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, "in.ogg"), []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "in.ogg",
		"profile_id": p.ProfileID,
		"save_as":    "out/",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AudioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := regexp.MustCompile(`synth_\d{8}_\d{6}\.ogg$`)
	if !want.MatchString(resp.Path) {
		t.Errorf("path = %q, want generated name", resp.Path)
	}
	if _, err := os.Stat(resp.Path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestApplyBadEffectSpec(t *testing.T) {
	srv, eng, audioDir := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "x", "", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, "in.ogg"), []byte("raw"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "in.ogg",
		"profile_id": p.ProfileID,
		"effects":    []map[string]any{{"kind": "reverb", "params": map[string]float64{"room_size": 5.0}}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApplyPathTraversal(t *testing.T) {
	srv, eng, _ := newTestServer(t)

	p, err := eng.CreateCustomVoice(t.Context(), "x", "", engine.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/apply", map[string]any{
		"path":       "../../etc/shadow.wav",
		"profile_id": p.ProfileID,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRecognize(t *testing.T) {
	srv, _, audioDir := newTestServer(t)

	if err := os.WriteFile(filepath.Join(audioDir, "say.ogg"), []byte("voice"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/recognize", map[string]any{"path": "say.ogg"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "mock transcription") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
