// Package config loads and writes the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	DB      DBConfig      `yaml:"db"`
	Storage StorageConfig `yaml:"storage"`
	Request RequestConfig `yaml:"request"`
	TTS     TTSConfig     `yaml:"tts"`
	STT     STTConfig     `yaml:"stt"`
	Audio   AudioConfig   `yaml:"audio"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
}

// HistoryConfig holds the backend call history logs. Empty paths disable
// the corresponding log.
type HistoryConfig struct {
	TTSPath string `yaml:"tts_path"`
	STTPath string `yaml:"stt_path"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig selects the profile persistence backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // "sqlite", "files"
	ProfilesDir string `yaml:"profiles_dir"`
}

// RequestConfig holds HTTP request settings for backend adapters.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// AzureSpeechConfig holds settings for Azure Speech (TTS and STT share the
// key and region).
type AzureSpeechConfig struct {
	Key      string `yaml:"key"`
	Region   string `yaml:"region"` // e.g., "eastus"
	VoiceID  string `yaml:"voice"`
	Language string `yaml:"language"`
}

// EdgeTTSConfig holds settings for Edge TTS.
type EdgeTTSConfig struct {
	VoiceID string `yaml:"voice"` // e.g. "en-US-AvaMultilingualNeural"
}

// GoogleTTSConfig holds settings for Google Cloud TTS.
type GoogleTTSConfig struct {
	VoiceID  string `yaml:"voice"`
	Language string `yaml:"language"`
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine          string            `yaml:"engine"`
	DefaultLanguage string            `yaml:"default_language"`
	SampleRate      int               `yaml:"sample_rate"`
	AzureSpeech     AzureSpeechConfig `yaml:"azure_speech"`
	EdgeTTS         EdgeTTSConfig     `yaml:"edge_tts"`
	Google          GoogleTTSConfig   `yaml:"google"`
}

// STTConfig holds Speech-To-Text settings.
type STTConfig struct {
	Engine      string            `yaml:"engine"`
	AzureSpeech AzureSpeechConfig `yaml:"azure_speech"`
}

// AudioConfig holds file I/O settings. All audio reads and writes are
// confined to BaseDir.
type AudioConfig struct {
	BaseDir       string `yaml:"base_dir"`
	DefaultFormat string `yaml:"default_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1960",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
		},
		History: HistoryConfig{
			TTSPath: "./logs/history.tts",
			STTPath: "./logs/history.stt",
		},
		DB: DBConfig{
			Path: "./data/voxa.db",
		},
		Storage: StorageConfig{
			Backend:     "sqlite",
			ProfilesDir: "./data/profiles",
		},
		Request: RequestConfig{
			Retries: 2,
			Timeout: Duration(60 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
				MaxDelay:  Duration(5 * time.Second),
			},
		},
		TTS: TTSConfig{
			Engine:          "mock",
			DefaultLanguage: "en-US",
			SampleRate:      22050,
			AzureSpeech: AzureSpeechConfig{
				VoiceID:  "en-US-AvaMultilingualNeural",
				Language: "en-US",
			},
			EdgeTTS: EdgeTTSConfig{
				VoiceID: "en-US-AvaMultilingualNeural",
			},
			Google: GoogleTTSConfig{
				VoiceID:  "en-US-Chirp3-HD-Charon",
				Language: "en-US",
			},
		},
		STT: STTConfig{
			Engine: "mock",
			AzureSpeech: AzureSpeechConfig{
				Language: "en-US",
			},
		},
		Audio: AudioConfig{
			BaseDir:       "./data/audio",
			DefaultFormat: "mp3",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Load from Env if empty (as a fallback, but do NOT save back to disk)
		if cfg.TTS.AzureSpeech.Key == "" {
			if key := os.Getenv("AZURE_SPEECH_KEY"); key != "" {
				cfg.TTS.AzureSpeech.Key = key
			}
		}
		if cfg.TTS.AzureSpeech.Region == "" {
			if region := os.Getenv("AZURE_SPEECH_REGION"); region != "" {
				cfg.TTS.AzureSpeech.Region = region
			}
		}
		if cfg.STT.AzureSpeech.Key == "" {
			cfg.STT.AzureSpeech.Key = cfg.TTS.AzureSpeech.Key
		}
		if cfg.STT.AzureSpeech.Region == "" {
			cfg.STT.AzureSpeech.Region = cfg.TTS.AzureSpeech.Region
		}

		if err := validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if !isValidLocale(cfg.TTS.DefaultLanguage) {
		return fmt.Errorf("invalid default_language format '%s': must be 'xx-YY' (e.g. 'en-US', 'de-DE')", cfg.TTS.DefaultLanguage)
	}
	switch cfg.Storage.Backend {
	case "sqlite", "files":
	default:
		return fmt.Errorf("invalid storage backend '%s': must be 'sqlite' or 'files'", cfg.Storage.Backend)
	}
	return nil
}

func isValidLocale(s string) bool {
	matched, _ := regexp.MatchString(`^[a-z]{2}-[A-Z]{2}$`, s)
	return matched
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Voxa Configuration
# ------------------
# Durations accept: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields so a generated file documents itself.
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: mock, azure, edge, google (TTS) / mock, azure (STT)\n${1}engine:"))

	reBackend := regexp.MustCompile(`(?m)^(\s+)backend:`)
	data = reBackend.ReplaceAll(data, []byte("${1}# Options: sqlite, files\n${1}backend:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}
