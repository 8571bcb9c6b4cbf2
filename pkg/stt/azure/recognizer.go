// Package azure implements stt.Recognizer against the Azure Speech
// short-audio REST endpoint.
package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"voxa/pkg/backend"
	"voxa/pkg/config"
	"voxa/pkg/model"
	"voxa/pkg/request"
	"voxa/pkg/stt"
)

// Recognizer implements stt.Recognizer for Azure Speech.
type Recognizer struct {
	key    string
	lang   string
	client *request.Client
	url    string
}

// NewRecognizer creates a new Azure Speech recognizer.
func NewRecognizer(cfg config.AzureSpeechConfig, client *request.Client) *Recognizer {
	return &Recognizer{
		key:    cfg.Key,
		lang:   cfg.Language,
		client: client,
		url:    fmt.Sprintf("https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1", cfg.Region),
	}
}

// recognitionResponse is the detailed-format response shape.
type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	NBest             []struct {
		Confidence float64 `json:"Confidence"`
		Display    string  `json:"Display"`
	} `json:"NBest"`
}

// Recognize transcribes the audio via the short-audio endpoint.
func (r *Recognizer) Recognize(ctx context.Context, audio model.AudioData, language string) (model.TextData, error) {
	if len(audio.Bytes) == 0 {
		return model.TextData{}, backend.Wrap("recognize", "azure", 0,
			fmt.Errorf("empty audio payload"))
	}

	lang := language
	if lang == "" {
		lang = r.lang
	}

	q := url.Values{}
	q.Set("language", lang)
	q.Set("format", "detailed")

	headers := map[string]string{
		"Ocp-Apim-Subscription-Key": r.key,
		"Content-Type":              contentType(audio),
		"Accept":                    "application/json",
	}

	resp, err := r.client.Post(ctx, r.url+"?"+q.Encode(), audio.Bytes, headers)
	if err != nil {
		status := 0
		var serr *request.StatusError
		if errors.As(err, &serr) {
			status = serr.Status
		}
		stt.Log("azure", "", status, err)
		return model.TextData{}, backend.Wrap("recognize", "azure", status, err)
	}

	var parsed recognitionResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return model.TextData{}, backend.Wrap("recognize", "azure", resp.Status,
			fmt.Errorf("failed to parse recognition response: %w", err))
	}
	if parsed.RecognitionStatus != "Success" {
		return model.TextData{}, backend.Wrap("recognize", "azure", resp.Status,
			fmt.Errorf("recognition failed: %s", parsed.RecognitionStatus))
	}

	text := parsed.DisplayText
	confidence := 0.0
	if len(parsed.NBest) > 0 {
		confidence = parsed.NBest[0].Confidence
		if parsed.NBest[0].Display != "" {
			text = parsed.NBest[0].Display
		}
	}

	stt.Log("azure", text, resp.Status, nil)

	td := model.TextData{
		Text:       text,
		Confidence: confidence,
		Language:   lang,
		Metadata:   map[string]any{"engine": "azure", "status": parsed.RecognitionStatus},
	}
	return td, nil
}

func contentType(audio model.AudioData) string {
	switch audio.Format {
	case "wav", "pcm16":
		return fmt.Sprintf("audio/wav; codecs=audio/pcm; samplerate=%d", audio.SampleRate)
	case "ogg":
		return "audio/ogg; codecs=opus"
	default:
		return "application/octet-stream"
	}
}
