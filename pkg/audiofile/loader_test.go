package audiofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxa/pkg/model"
)

func TestLoaderRejectsUnknownExtension(t *testing.T) {
	l := NewLoader(t.TempDir())

	_, err := l.Load("notes.txt")
	require.Error(t, err)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ".txt", ferr.Extension)
}

func TestLoaderRejectsEscape(t *testing.T) {
	l := NewLoader(t.TempDir())

	for _, rel := range []string{
		"../outside.wav",
		"../../etc/passwd.wav",
		"sub/../../outside.mp3",
	} {
		_, err := l.Load(rel)
		var serr *SecurityError
		assert.ErrorAs(t, err, &serr, "path %q should be rejected", rel)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(t.TempDir())

	_, err := l.Load("ghost.wav")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ghost.wav")
}

func TestLoadSizeEstimateFallback(t *testing.T) {
	dir := t.TempDir()
	// 64000 bytes of opaque ogg data estimates to 2 seconds.
	payload := make([]byte, 64000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.ogg"), payload, 0o644))

	l := NewLoader(dir)
	audio, err := l.Load("clip.ogg")
	require.NoError(t, err)

	assert.Equal(t, "ogg", audio.Format)
	assert.Equal(t, 22050, audio.SampleRate)
	assert.InDelta(t, 2.0, audio.Duration, 1e-9)
	assert.Equal(t, payload, audio.Bytes)
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	l := NewLoader(dir)

	audio := model.NewAudioData([]byte("pcm-bytes"), "ogg", 22050, 0.1)
	res, err := w.Write(audio, "out/take1.ogg", false)
	require.NoError(t, err)
	assert.Equal(t, len(audio.Bytes), res.Size)
	assert.Equal(t, filepath.Join(dir, "out", "take1.ogg"), res.Path)

	got, err := l.Load("out/take1.ogg")
	require.NoError(t, err)
	assert.Equal(t, audio.Bytes, got.Bytes)
}

func TestWriterExisting(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	audio := model.NewAudioData([]byte("a"), "ogg", 22050, 0.1)

	_, err := w.Write(audio, "clip.ogg", false)
	require.NoError(t, err)

	_, err = w.Write(audio, "clip.ogg", false)
	assert.ErrorIs(t, err, ErrExists)

	_, err = w.Write(audio, "clip.ogg", true)
	assert.NoError(t, err)
}

func TestWriterConfinement(t *testing.T) {
	w := NewWriter(t.TempDir())
	audio := model.NewAudioData([]byte("a"), "ogg", 22050, 0.1)

	_, err := w.Write(audio, "../escape.ogg", true)
	var serr *SecurityError
	assert.ErrorAs(t, err, &serr)
}

func TestStamp(t *testing.T) {
	name := Stamp("synth", "mp3")
	assert.Regexp(t, `^synth_\d{8}_\d{6}\.mp3$`, name)

	name = Stamp("synth", "pcm16")
	assert.Regexp(t, `^synth_\d{8}_\d{6}\.wav$`, name)
}
