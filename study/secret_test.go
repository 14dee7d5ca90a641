package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretSetAndCheck(t *testing.T) {
	s := NewSecretStore()

	require.NoError(t, s.Set(ConditionText, "hunter2"))

	match, err := s.Check(ConditionText, "hunter2")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = s.Check(ConditionText, "hunter3")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestSecretCheckIsExact(t *testing.T) {
	s := NewSecretStore()
	require.NoError(t, s.Set(ConditionText, "Abc123"))

	// Case-sensitive, no trimming, no normalization.
	for _, attempt := range []string{"abc123", "Abc123 ", " Abc123", "ABC123"} {
		match, err := s.Check(ConditionText, attempt)
		require.NoError(t, err)
		assert.False(t, match, "attempt %q must not match", attempt)
	}
}

func TestSecretSetOverwrites(t *testing.T) {
	s := NewSecretStore()
	require.NoError(t, s.Set(ConditionEmoji, "first🔥"))
	require.NoError(t, s.Set(ConditionEmoji, "second🐬"))

	match, err := s.Check(ConditionEmoji, "first🔥")
	require.NoError(t, err)
	assert.False(t, match)

	match, err = s.Check(ConditionEmoji, "second🐬")
	require.NoError(t, err)
	assert.True(t, match)
}

func TestSecretConditionsIsolated(t *testing.T) {
	s := NewSecretStore()
	require.NoError(t, s.Set(ConditionText, "plain"))

	_, err := s.Check(ConditionEmoji, "plain")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestSecretValidation(t *testing.T) {
	s := NewSecretStore()

	assert.ErrorIs(t, s.Set(ConditionText, ""), ErrEmptySecret)
	assert.ErrorIs(t, s.Set(Condition("C"), "x"), ErrInvalidCondition)

	_, err := s.Check(Condition("C"), "x")
	assert.ErrorIs(t, err, ErrInvalidCondition)

	_, err = s.Check(ConditionText, "x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
