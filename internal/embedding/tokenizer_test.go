package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestTokenizer(t *testing.T) *WordPieceTokenizer {
	t.Helper()
	tk, err := LoadTokenizer("testdata/vocab.txt")
	require.NoError(t, err)
	return tk
}

func TestWordPieceTokenizer_vocabIDs(t *testing.T) {
	tk := loadTestTokenizer(t)

	ids, mask, types, err := tk.Tokenize("What is the cancellation rate?", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 6, 7, 8, 9, 10, 3, 0, 0}, ids)
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 1, 1, 1, 0, 0}, mask)
	assert.Equal(t, make([]int64, 10), types)
}

func TestWordPieceTokenizer_subwordsAndUnknown(t *testing.T) {
	tk := loadTestTokenizer(t)

	ids, _, _, err := tk.Tokenize("cancellations", 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 8, 11, 3, 0, 0}, ids)

	ids, _, _, err = tk.Tokenize("zebra rate", 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 9, 3, 0, 0}, ids)
}

func TestWordPieceTokenizer_truncationKeepsSEP(t *testing.T) {
	tk := loadTestTokenizer(t)

	ids, mask, _, err := tk.Tokenize("what is the cancellation rate?", 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 6, 3}, ids)
	assert.Equal(t, []int64{1, 1, 1, 1}, mask)
}

func TestWordPieceTokenizer_empty(t *testing.T) {
	tk := loadTestTokenizer(t)

	ids, mask, _, err := tk.Tokenize("", 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 0, 0}, ids)
	assert.Equal(t, []int64{1, 1, 0, 0}, mask)
}

func TestLoadTokenizer_errors(t *testing.T) {
	_, err := LoadTokenizer("")
	assert.Error(t, err)
	_, err = LoadTokenizer("testdata/missing-vocab.txt")
	assert.Error(t, err)
}

func TestMeanPool(t *testing.T) {
	hidden := []float32{
		1, 2,
		3, 4,
		100, 100,
	}
	got := MeanPool(hidden, []int64{1, 1, 0}, 3, 2)
	assert.Equal(t, []float32{2, 3}, got)

	assert.Equal(t, []float32{0, 0}, MeanPool(hidden, []int64{0, 0, 0}, 3, 2))
}

func TestHashString(t *testing.T) {
	assert.GreaterOrEqual(t, HashString("abc"), 0)
	assert.Equal(t, HashString("abc"), HashString("abc"))
	assert.NotEqual(t, HashString("abc"), HashString("abd"))
}
