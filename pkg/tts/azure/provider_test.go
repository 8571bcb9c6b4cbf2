package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSSML(t *testing.T) {
	ssml := buildSSML("en-US", "en-US-JennyNeural", "hello & <goodbye>", 1.0)
	assert.Contains(t, ssml, "name='en-US-JennyNeural'")
	assert.Contains(t, ssml, "xml:lang='en-US'")
	assert.Contains(t, ssml, "hello &amp; &lt;goodbye&gt;")
	assert.NotContains(t, ssml, "<prosody")
}

func TestBuildSSMLWithRate(t *testing.T) {
	ssml := buildSSML("en-US", "en-US-JennyNeural", "fast", 1.25)
	assert.Contains(t, ssml, `<prosody rate="+25%">`)

	ssml = buildSSML("en-US", "en-US-JennyNeural", "slow", 0.8)
	assert.Contains(t, ssml, `<prosody rate="-20%">`)
}

func TestEstimateDuration(t *testing.T) {
	assert.InDelta(t, 2.0, estimateDuration("123456789012345678901234567890", 1.0), 1e-9)
	assert.InDelta(t, 1.0, estimateDuration("123456789012345678901234567890", 2.0), 1e-9)
	assert.Greater(t, estimateDuration("x", 0), 0.0)
}
