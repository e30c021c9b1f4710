package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFingerprintInvariance(t *testing.T) {
	a, aHash := BuildFingerprint([]Attribute{
		{K: "Color", V: "Red"},
		{K: "Size", V: "M"},
	})
	b, bHash := BuildFingerprint([]Attribute{
		{K: " size ", V: "m"},
		{K: "COLOR", V: " RED "},
	})

	require.Equal(t, "color=red|size=m", a)
	assert.Equal(t, a, b)
	assert.Equal(t, aHash, bHash)
	assert.Len(t, aHash, 64)
}

func TestBuildFingerprintLastWriteWins(t *testing.T) {
	fp, _ := BuildFingerprint([]Attribute{
		{K: "Color", V: "Red"},
		{K: "Color", V: "Blue"},
	})
	assert.Equal(t, "color=blue", fp)
}

func TestBuildFingerprintEmpty(t *testing.T) {
	fp, hash := BuildFingerprint(nil)
	assert.Equal(t, "", fp)
	assert.Equal(t, "", hash)

	fp, hash = BuildFingerprint([]Attribute{{K: "  ", V: "x"}, {K: "k", V: " "}})
	assert.Equal(t, "", fp)
	assert.Equal(t, "", hash)
}

func TestCleanAttributes(t *testing.T) {
	out := Clean([]Attribute{
		{K: " Color ", V: " Red "},
		{K: "Size", V: "M"},
		{K: "color", V: "Blue"}, // duplicate canonical key, last wins
		{K: "", V: "x"},
		{K: "y", V: "  "},
	})

	require.Len(t, out, 2)
	assert.Equal(t, Attribute{K: "Color", V: "Blue"}, out[0])
	assert.Equal(t, Attribute{K: "Size", V: "M"}, out[1])
}

func TestGetIsCaseInsensitive(t *testing.T) {
	attrs := []Attribute{{K: "Type", V: "Collar"}}
	assert.Equal(t, "Collar", Get(attrs, "type"))
	assert.Equal(t, "Collar", Get(attrs, " TYPE "))
	assert.Equal(t, "", Get(attrs, "color"))
}
