package tokenizer

import (
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "small cat", []string{"small", "cat"}},
		{"repeated spaces", "  small   cat  ", []string{"small", "cat"}},
		{"empty", "", []string{}},
		{"only spaces", "    ", []string{}},
		{"tab stays inside word", "big\tdog cat", []string{"big\tdog", "cat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIntoWords(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, IsValidWord("cat"))
	assert.True(t, IsValidWord("-cat"))
	assert.True(t, IsValidWord("кот"))
	assert.False(t, IsValidWord("ca\x12t"))
	assert.False(t, IsValidWord("\x00"))
	assert.False(t, IsValidWord("big\tdog"))
}

func TestStopWords(t *testing.T) {
	sw, err := ParseStopWords("in the  in")
	require.NoError(t, err)

	assert.Equal(t, 2, sw.Len())
	assert.True(t, sw.Contains("in"))
	assert.False(t, sw.Contains("cat"))
	assert.Equal(t, []string{"in", "the"}, sw.Words())

	_, err = NewStopWords([]string{"ok", "b\x01ad"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStopWord)
}

func TestTokenize(t *testing.T) {
	sw, err := NewStopWords([]string{"in", "the"})
	require.NoError(t, err)

	tokens, err := sw.Tokenize("cat in the city cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "city", "cat"}, tokens)

	_, err = sw.Tokenize("cat ci\x1fty")
	assert.ErrorIs(t, err, apperrors.ErrInvalidWord)

	var empty StopWords
	tokens, err = empty.Tokenize("cat in the city")
	require.NoError(t, err)
	assert.Len(t, tokens, 4)
}
