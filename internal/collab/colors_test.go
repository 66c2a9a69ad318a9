package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackColor_Stable(t *testing.T) {
	assert.Equal(t, FallbackColor("user-a"), FallbackColor("user-a"))
	assert.Contains(t, fallbackPalette, FallbackColor("user-a"))
}

func TestResolveColors_ProfileWins(t *testing.T) {
	profiles := map[string]string{"user-a": "#112233"}

	colors := resolveColors([]string{"user-a", "user-b"}, profiles)

	require.Len(t, colors, 2)
	assert.Equal(t, "#112233", colors[0])
	assert.Equal(t, FallbackColor("user-b"), colors[1])
}

func TestResolveColors_CappedAtMax(t *testing.T) {
	profiles := map[string]string{
		"u1": "#111111",
		"u2": "#222222",
		"u3": "#333333",
		"u4": "#444444",
		"u5": "#555555",
	}

	colors := resolveColors([]string{"u1", "u2", "u3", "u4", "u5"}, profiles)

	assert.Len(t, colors, MaxOverlayColors)
	assert.Equal(t, []string{"#111111", "#222222", "#333333"}, colors)
}

func TestResolveColors_DeduplicatesSameColor(t *testing.T) {
	profiles := map[string]string{
		"u1": "#111111",
		"u2": "#111111",
		"u3": "#333333",
	}

	colors := resolveColors([]string{"u1", "u2", "u3"}, profiles)

	assert.Equal(t, []string{"#111111", "#333333"}, colors)
}

func TestResolveColors_EmptyInput(t *testing.T) {
	assert.Empty(t, resolveColors(nil, nil))
}
