// Package google implements tts.Provider for Google Cloud Text-to-Speech.
package google

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"

	"voxa/pkg/backend"
	"voxa/pkg/model"
	"voxa/pkg/tts"
)

// chunkLimit stays a little under the 5000-byte API input cap.
const chunkLimit = 4800

// Provider implements tts.Provider for Google Cloud TTS. Credentials are
// resolved by the client library from the environment.
type Provider struct {
	client       *texttospeech.Client
	defaultVoice string
	defaultLang  string
}

// NewProvider creates a new Google Cloud TTS provider.
func NewProvider(ctx context.Context, defaultVoice, defaultLang string) (*Provider, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, backend.Wrap("init", "google", 0, fmt.Errorf("failed to create TTS client: %w", err))
	}
	return &Provider{client: client, defaultVoice: defaultVoice, defaultLang: defaultLang}, nil
}

// Close releases the underlying gRPC connection.
func (p *Provider) Close() error {
	return p.client.Close()
}

// Synthesize generates mp3 audio using Google Cloud TTS. Long texts are
// split into chunks and the audio concatenated.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (model.AudioData, error) {
	voice := req.Voice
	if voice == "" {
		voice = p.defaultVoice
	}
	lang := req.Language
	if lang == "" {
		lang = p.defaultLang
	}

	audioCfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}
	// Chirp voices reject speakingRate; skip it there.
	if req.Speed > 0 && req.Speed != 1.0 && !strings.Contains(strings.ToLower(voice), "chirp") {
		audioCfg.SpeakingRate = req.Speed
	}

	var audio []byte
	for i, chunk := range splitIntoChunks(req.Text, chunkLimit) {
		resp, err := p.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: lang,
				Name:         voice,
			},
			AudioConfig: audioCfg,
		})
		if err != nil {
			tts.Log("google", req.Text, 0, err)
			return model.AudioData{}, backend.Wrap("synthesize", "google", 0,
				fmt.Errorf("failed to synthesize chunk %d: %w", i, err))
		}
		audio = append(audio, resp.AudioContent...)
	}

	tts.Log("google", req.Text, 200, nil)

	duration := float64(len(req.Text)) / 15.0
	if req.Speed > 0 {
		duration /= req.Speed
	}
	return model.NewAudioData(audio, "mp3", 24000, duration), nil
}

// Voices lists the voices available for the configured language.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	resp, err := p.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: p.defaultLang,
	})
	if err != nil {
		return nil, backend.Wrap("voices", "google", 0, err)
	}
	voices := make([]tts.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		lang := p.defaultLang
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		}
		voices = append(voices, tts.Voice{
			ID:       v.Name,
			Name:     v.Name,
			Language: lang,
			IsNeural: strings.Contains(strings.ToLower(v.Name), "neural") || strings.Contains(strings.ToLower(v.Name), "chirp"),
		})
	}
	return voices, nil
}

func splitIntoChunks(text string, limit int) []string {
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
