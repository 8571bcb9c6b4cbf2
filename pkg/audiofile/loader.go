// Package audiofile handles reading and writing audio files under a
// configured base directory. Paths are confined to that directory and only
// known audio extensions are accepted.
package audiofile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"voxa/pkg/model"
)

// allowedExtensions maps accepted file extensions to the format tag recorded
// on the loaded AudioData.
var allowedExtensions = map[string]string{
	".wav":  "wav",
	".mp3":  "mp3",
	".ogg":  "ogg",
	".flac": "flac",
	".m4a":  "m4a",
}

// fallbackBytesPerSecond approximates duration for formats whose containers
// we do not parse (rough figure for compressed speech audio).
const fallbackBytesPerSecond = 32000.0

// ErrNotFound is returned when the requested audio file does not exist.
var ErrNotFound = fmt.Errorf("audio file not found")

// SecurityError reports a path that resolves outside the configured base
// directory.
type SecurityError struct {
	Path string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("path escapes audio directory: %s", e.Path)
}

// FormatError reports an extension outside the allow-list.
type FormatError struct {
	Extension string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported audio format: %q", e.Extension)
}

// Loader reads audio files from a base directory.
type Loader struct {
	baseDir string
}

// NewLoader creates a Loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{baseDir: baseDir}
}

// Load reads the audio file at the given path, relative to the base
// directory. The sample rate and duration are probed from the container
// where a decoder is available; otherwise estimated from file size.
func (l *Loader) Load(rel string) (model.AudioData, error) {
	path, format, err := l.resolve(rel)
	if err != nil {
		return model.AudioData{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.AudioData{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return model.AudioData{}, fmt.Errorf("failed to read audio file: %w", err)
	}

	sampleRate, duration := probe(path, format, len(data))

	audio := model.NewAudioData(data, format, sampleRate, duration)
	slog.Debug("audiofile: loaded", "path", rel, "format", format, "bytes", len(data), "duration", duration)
	return audio, nil
}

// resolve joins rel onto the base dir, rejects escapes and unknown
// extensions, and returns the absolute path plus format tag.
func (l *Loader) resolve(rel string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(rel))
	format, ok := allowedExtensions[ext]
	if !ok {
		return "", "", &FormatError{Extension: ext}
	}

	base, err := filepath.Abs(l.baseDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve audio directory: %w", err)
	}
	path := filepath.Join(base, rel)
	if path != base && !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", "", &SecurityError{Path: rel}
	}
	return path, format, nil
}

// probe decodes the container header for sample rate and duration. Formats
// without a decoder fall back to a size-based estimate at the default rate.
func probe(path, format string, size int) (sampleRate int, duration float64) {
	switch format {
	case "wav", "mp3":
		sr, d, err := decodeMeta(path, format)
		if err == nil {
			return sr, d
		}
		slog.Debug("audiofile: probe failed, using size estimate", "path", path, "error", err)
	}
	return 22050, float64(size) / fallbackBytesPerSecond
}

func decodeMeta(path, format string) (int, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var streamer beep.StreamSeekCloser
	var bf beep.Format
	switch format {
	case "mp3":
		streamer, bf, err = mp3.Decode(f)
	default:
		streamer, bf, err = wav.Decode(f)
	}
	if err != nil {
		return 0, 0, err
	}
	defer streamer.Close()

	d := bf.SampleRate.D(streamer.Len())
	return int(bf.SampleRate), d.Seconds(), nil
}

// WriteResult describes a completed write.
type WriteResult struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// ErrExists is returned when the target already exists and overwrite was not
// requested.
var ErrExists = fmt.Errorf("audio file already exists")

// Writer persists audio under a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Write stores the audio bytes at the given relative path, creating parent
// directories as needed. Without overwrite an existing target returns
// ErrExists.
func (w *Writer) Write(audio model.AudioData, rel string, overwrite bool) (WriteResult, error) {
	loader := Loader{baseDir: w.baseDir}
	path, _, err := loader.resolve(rel)
	if err != nil {
		return WriteResult{}, err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return WriteResult{}, fmt.Errorf("%w: %s", ErrExists, rel)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := os.WriteFile(path, audio.Bytes, 0o644); err != nil {
		return WriteResult{}, fmt.Errorf("failed to write audio file: %w", err)
	}

	slog.Info("audiofile: wrote", "path", rel, "bytes", len(audio.Bytes), "format", audio.Format)
	return WriteResult{Path: path, Size: len(audio.Bytes)}, nil
}

// Stamp returns a timestamped filename for generated audio, e.g.
// "synth_20260829_153000.mp3". Raw PCM payloads get a .wav extension so
// the name stays within the loadable set.
func Stamp(prefix, format string) string {
	if format == "pcm16" {
		format = "wav"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), format)
}
