package tts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxa/pkg/tts"
	"voxa/pkg/tts/mock"
)

func TestRegistryGet(t *testing.T) {
	reg := tts.NewRegistry()
	reg.Register("mock", mock.New())

	p, err := reg.Get("mock")
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = reg.Get("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported TTS engine")
	assert.Contains(t, err.Error(), "bogus")
}

func TestRegistryEnginesSorted(t *testing.T) {
	reg := tts.NewRegistry()
	reg.Register("edge", mock.New())
	reg.Register("azure", mock.New())
	reg.Register("mock", mock.New())

	assert.Equal(t, []string{"azure", "edge", "mock"}, reg.Engines())
}

func TestMockSynthesizeDeterministic(t *testing.T) {
	p := mock.New()

	req := tts.Request{Text: "hello world", Voice: "mock-f1", Language: "en-US", Speed: 1.0}
	a, err := p.Synthesize(context.Background(), req)
	require.NoError(t, err)
	b, err := p.Synthesize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Bytes, b.Bytes)
	assert.Equal(t, "pcm16", a.Format)
	assert.Greater(t, a.Duration, 0.0)
	assert.Len(t, p.Calls, 2)
}

func TestMockSynthesizeFailure(t *testing.T) {
	p := mock.New()
	p.Fail = assert.AnError

	_, err := p.Synthesize(context.Background(), tts.Request{Text: "boom"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
