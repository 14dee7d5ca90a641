package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage/memory"
)

func TestExtractFeaturesTrailingEmoji(t *testing.T) {
	f := ExtractFeatures("cat123🐬🔥", nil)

	assert.Equal(t, 8, f.TokenLen)
	assert.Equal(t, 2, f.EmojiCount)
	assert.False(t, f.EmojiSingle)
	assert.False(t, f.EmojiFirst)
	assert.True(t, f.EmojiAtEnd)
	assert.False(t, f.EmojiWithin, "a trailing emoji run is not within")
	assert.False(t, f.EmojiOnly)
	assert.Equal(t, []string{"🐬", "🔥"}, f.EmojisUsed)
}

func TestExtractFeaturesLeadingEmoji(t *testing.T) {
	f := ExtractFeatures("🐬cat123🔥", nil)

	assert.Equal(t, 8, f.TokenLen)
	assert.Equal(t, 2, f.EmojiCount)
	assert.True(t, f.EmojiFirst)
	assert.True(t, f.EmojiAtEnd)
	assert.True(t, f.EmojiWithin, "an emoji followed by plain text is within")
}

func TestExtractFeaturesNoEmoji(t *testing.T) {
	f := ExtractFeatures("catdog", nil)

	assert.Equal(t, 6, f.TokenLen)
	assert.Zero(t, f.EmojiCount)
	assert.False(t, f.EmojiSingle)
	assert.False(t, f.EmojiFirst)
	assert.False(t, f.EmojiAtEnd)
	assert.False(t, f.EmojiWithin)
	assert.False(t, f.EmojiOnly)
	assert.Empty(t, f.EmojisUsed)
	assert.False(t, f.FirstEmojiBias)
}

func TestExtractFeaturesEmojiOnly(t *testing.T) {
	f := ExtractFeatures("🐬🔥", nil)

	assert.Equal(t, 2, f.TokenLen)
	assert.Equal(t, 2, f.EmojiCount)
	assert.True(t, f.EmojiOnly)
	assert.True(t, f.EmojiFirst)
	assert.True(t, f.EmojiAtEnd)
	assert.False(t, f.EmojiWithin)
}

func TestExtractFeaturesSingleEmoji(t *testing.T) {
	f := ExtractFeatures("pass🔑word", nil)

	assert.Equal(t, 1, f.EmojiCount)
	assert.True(t, f.EmojiSingle)
	assert.True(t, f.EmojiWithin)
	assert.False(t, f.EmojiFirst)
	assert.False(t, f.EmojiAtEnd)
}

func TestExtractFeaturesFirstEmojiBias(t *testing.T) {
	f := ExtractFeatures("cat🔥", []string{"🔥", "🐬"})
	assert.True(t, f.FirstEmojiBias)

	f = ExtractFeatures("cat🔥", []string{"🐬", "🔥"})
	assert.False(t, f.FirstEmojiBias)

	// No ordering (condition A) never flags bias.
	f = ExtractFeatures("cat🔥", nil)
	assert.False(t, f.FirstEmojiBias)
}

func TestExtractFeaturesMultiCodepointGlyph(t *testing.T) {
	f := ExtractFeatures("fly✈️", nil)

	assert.Equal(t, 4, f.TokenLen)
	assert.Equal(t, 1, f.EmojiCount)
	assert.True(t, f.EmojiAtEnd)
}

func TestStoreFeatures(t *testing.T) {
	repo := memory.NewRepository()

	feats, err := StoreFeatures(repo, "p1", ConditionEmoji, "cat🔥", []string{"🔥"})
	require.NoError(t, err)
	assert.Equal(t, ConditionEmoji, feats.Condition)
	assert.False(t, feats.CreatedAt.IsZero())

	data, err := repo.Get("p1", "features", "B")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"emoji_count":1`)
	assert.NotContains(t, string(data), "cat🔥", "raw secret must not be persisted")
}
