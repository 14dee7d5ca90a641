package study

import (
	"math/rand/v2"

	"github.com/rivo/uniseg"
)

// EmojiMenu is the fixed 80-glyph emoji set shared by all participants.
// Condition B participants see it in a per-session random order.
var EmojiMenu = []string{
	// Faces (20)
	"😀", "😃", "😄", "😁", "😆", "😅", "😂", "🙂", "😉", "😊",
	"😇", "😍", "😘", "😜", "🤔", "😎", "🥳", "😴", "😭", "😡",

	// Animals (20)
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯",
	"🦁", "🐸", "🐵", "🐧", "🐦", "🐤", "🐙", "🐬", "🐢", "🐝",

	// Food (15)
	"🍎", "🍊", "🍌", "🍉", "🍓", "🍒", "🍕", "🍔", "🍟", "🍩",
	"🍪", "🍰", "🍫", "🍿", "🍣",

	// Objects (15)
	"🚗", "🚲", "✈️", "🚀", "📱", "💻", "⌚", "📷", "🎧", "🎮",
	"📚", "✏️", "🔑", "💡", "🧸",

	// Symbols / misc (10)
	"⭐", "🔥", "🌈", "☀️", "🌙", "⚡", "💎", "🎵", "⚽", "🏆",
}

var emojiMenuSet = func() map[string]bool {
	m := make(map[string]bool, len(EmojiMenu))
	for _, e := range EmojiMenu {
		m[e] = true
	}
	return m
}()

// IsMenuEmoji reports whether tok is a glyph of the fixed emoji menu.
func IsMenuEmoji(tok string) bool {
	return emojiMenuSet[tok]
}

// Tokenize splits s into grapheme clusters, so that multi-codepoint glyphs
// like ✈️ count as a single token.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		tokens = append(tokens, gr.Str())
	}
	return tokens
}

// NewOrdering returns a fresh random permutation of the emoji menu. The
// ordering is generated once per participant session and stable thereafter;
// shuffling reduces menu-position bias across participants.
func NewOrdering() []string {
	ordering := make([]string, len(EmojiMenu))
	copy(ordering, EmojiMenu)
	rand.Shuffle(len(ordering), func(i, j int) {
		ordering[i], ordering[j] = ordering[j], ordering[i]
	})
	return ordering
}
