package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmojiMenuSize(t *testing.T) {
	require.Len(t, EmojiMenu, 80)

	seen := make(map[string]bool)
	for _, e := range EmojiMenu {
		assert.False(t, seen[e], "duplicate menu glyph %q", e)
		seen[e] = true
	}
}

func TestIsMenuEmoji(t *testing.T) {
	assert.True(t, IsMenuEmoji("🐬"))
	assert.True(t, IsMenuEmoji("✈️"))
	assert.False(t, IsMenuEmoji("a"))
	assert.False(t, IsMenuEmoji("🦄"))
	assert.False(t, IsMenuEmoji(""))
}

func TestTokenizeGraphemes(t *testing.T) {
	assert.Nil(t, Tokenize(""))

	assert.Equal(t, []string{"c", "a", "t"}, Tokenize("cat"))

	// Multi-codepoint glyphs count as one token.
	tokens := Tokenize("✈️abc")
	require.Len(t, tokens, 4)
	assert.Equal(t, "✈️", tokens[0])

	tokens = Tokenize("cat123🐬🔥")
	assert.Len(t, tokens, 8)
}

func TestNewOrdering(t *testing.T) {
	ordering := NewOrdering()
	require.Len(t, ordering, len(EmojiMenu))

	// A permutation of the menu, nothing added or lost.
	seen := make(map[string]bool)
	for _, e := range ordering {
		require.True(t, IsMenuEmoji(e))
		require.False(t, seen[e])
		seen[e] = true
	}

	// The menu itself is untouched.
	assert.Equal(t, "😀", EmojiMenu[0])
}
