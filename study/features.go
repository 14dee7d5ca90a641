package study

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
)

// Features is the structural feature record derived from a confirmed secret.
// Only these derived values are ever persisted or exported; the raw secret
// text never leaves the session.
type Features struct {
	Condition Condition `json:"condition"`

	TokenLen    int  `json:"pw_tokens_len"`
	EmojiCount  int  `json:"emoji_count"`
	EmojiSingle bool `json:"emoji_single"`
	EmojiFirst  bool `json:"emoji_first"`
	EmojiAtEnd  bool `json:"emoji_at_end"`
	EmojiWithin bool `json:"emoji_within"`
	EmojiOnly   bool `json:"emoji_only"`

	EmojisUsed     []string `json:"emojis_used,omitempty"`
	FirstEmojiBias bool     `json:"first_emoji_bias"`

	CreatedAt time.Time `json:"created_at"`
}

// ExtractFeatures derives the structural features of a secret. The ordering
// is the session's emoji menu permutation (nil for condition A); only the
// first-menu-emoji bias flag depends on it. Pure and deterministic given
// (secret, ordering).
func ExtractFeatures(secret string, ordering []string) Features {
	tokens := Tokenize(secret)

	var f Features
	f.TokenLen = len(tokens)

	var emojiPositions []int
	for i, tok := range tokens {
		if IsMenuEmoji(tok) {
			emojiPositions = append(emojiPositions, i)
			f.EmojisUsed = append(f.EmojisUsed, tok)
		}
	}
	f.EmojiCount = len(emojiPositions)
	if f.EmojiCount == 0 {
		return f
	}

	f.EmojiSingle = f.EmojiCount == 1
	f.EmojiOnly = f.EmojiCount == f.TokenLen
	f.EmojiFirst = emojiPositions[0] == 0
	f.EmojiAtEnd = emojiPositions[len(emojiPositions)-1] == f.TokenLen-1

	// An emoji is "within" the secret when at least one non-emoji token
	// follows it. A trailing run of emoji therefore never counts.
	lastPlain := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if !IsMenuEmoji(tokens[i]) {
			lastPlain = i
			break
		}
	}
	f.EmojiWithin = emojiPositions[0] < lastPlain

	if len(ordering) > 0 {
		first := ordering[0]
		for _, e := range f.EmojisUsed {
			if e == first {
				f.FirstEmojiBias = true
				break
			}
		}
	}
	return f
}

// StoreFeatures derives and persists the structural feature record for a
// secret, keyed by condition. Overwriting on re-create is intentional; only
// derived values are written, never the secret itself.
func StoreFeatures(repo storage.Repository, participantID string, cond Condition, secret string, ordering []string) (Features, error) {
	feats := ExtractFeatures(secret, ordering)
	feats.Condition = cond
	feats.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(feats)
	if err != nil {
		return feats, fmt.Errorf("encoding features: %w", err)
	}
	if err := repo.Put(participantID, storage.RecordTypeFeatures, string(cond), data); err != nil {
		return feats, fmt.Errorf("storing features: %w", err)
	}
	return feats, nil
}
