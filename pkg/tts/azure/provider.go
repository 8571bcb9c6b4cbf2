// Package azure implements tts.Provider for Azure Speech.
package azure

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"voxa/pkg/backend"
	"voxa/pkg/config"
	"voxa/pkg/model"
	"voxa/pkg/request"
	"voxa/pkg/tts"
)

const outputFormat = "audio-24khz-160kbitrate-mono-mp3"

// Provider implements tts.Provider for Azure Speech.
type Provider struct {
	key     string
	voiceID string
	lang    string
	client  *request.Client
	url     string
}

// NewProvider creates a new Azure Speech TTS provider.
func NewProvider(cfg config.AzureSpeechConfig, client *request.Client) *Provider {
	return &Provider{
		key:     cfg.Key,
		voiceID: cfg.VoiceID,
		lang:    cfg.Language,
		client:  client,
		url:     fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", cfg.Region),
	}
}

// Synthesize generates speech from text using Azure Speech.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (model.AudioData, error) {
	vid := p.voiceID
	if req.Voice != "" {
		vid = req.Voice
	}
	if vid == "" {
		return model.AudioData{}, backend.Wrap("synthesize", "azure", 0,
			fmt.Errorf("no voice ID configured for Azure Speech"))
	}

	lang := p.lang
	if req.Language != "" {
		lang = req.Language
	}

	ssml := buildSSML(lang, vid, req.Text, req.Speed)

	headers := map[string]string{
		"Ocp-Apim-Subscription-Key": p.key,
		"Content-Type":              "application/ssml+xml",
		"X-Microsoft-OutputFormat":  outputFormat,
		"User-Agent":                "voxa",
	}

	resp, err := p.client.Post(ctx, p.url, []byte(ssml), headers)
	if err != nil {
		status := 0
		var serr *request.StatusError
		if errors.As(err, &serr) {
			status = serr.Status
		}
		tts.Log("azure", req.Text, status, err)
		return model.AudioData{}, backend.Wrap("synthesize", "azure", status, err)
	}

	tts.Log("azure", req.Text, resp.Status, nil)

	duration := estimateDuration(req.Text, req.Speed)
	return model.NewAudioData(resp.Body, "mp3", 24000, duration), nil
}

// Voices returns the configured voice; Azure voice listing requires a
// separate endpoint the adapter does not call.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return []tts.Voice{
		{ID: p.voiceID, Name: "Configured Azure Voice", Language: p.lang, IsNeural: true},
	}, nil
}

// buildSSML wraps the text in a speak/voice envelope. Text is XML-escaped;
// a prosody rate element is added when a non-default speed is requested.
func buildSSML(lang, vid, text string, speed float64) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(text))
	escaped := buf.String()

	body := escaped
	if speed > 0 && speed != 1.0 {
		body = fmt.Sprintf(`<prosody rate="%+.0f%%">%s</prosody>`, (speed-1.0)*100, escaped)
	}

	return fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='%s'><voice name='%s'>%s</voice></speak>`,
		lang, vid, body,
	)
}

// estimateDuration approximates audio length from text size; Azure does not
// report duration in the synthesis response.
func estimateDuration(text string, speed float64) float64 {
	if speed <= 0 {
		speed = 1.0
	}
	return float64(len(text)) / (15.0 * speed)
}
