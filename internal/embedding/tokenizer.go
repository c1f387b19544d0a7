package embedding

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"github.com/sugarme/tokenizer/processor"
)

// Tokenizer converts text to the fixed-length int64 inputs a BERT-style ONNX model expects.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64, err error)
}

// WordPieceTokenizer encodes text with the model's own vocabulary, so token IDs line up with the
// embedding table the model was trained with.
type WordPieceTokenizer struct {
	tk    *tokenizer.Tokenizer
	clsID int
	sepID int
}

// LoadTokenizer loads a tokenizer.json (HuggingFace format) or, for any other file, a BERT
// vocab.txt with uncased normalization and [CLS]/[SEP] post-processing.
func LoadTokenizer(path string) (*WordPieceTokenizer, error) {
	if path == "" {
		return nil, fmt.Errorf("tokenizer path is required")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		tk, err := pretrained.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer %s: %w", path, err)
		}
		return withSpecialTokens(tk, path)
	}
	return newBertTokenizer(path)
}

func newBertTokenizer(vocabPath string) (*WordPieceTokenizer, error) {
	model, err := wordpiece.NewWordPieceFromFile(vocabPath, "[UNK]")
	if err != nil {
		return nil, fmt.Errorf("failed to load vocab %s: %w", vocabPath, err)
	}
	tk := tokenizer.NewTokenizer(model)
	tk.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	tk.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	t, err := withSpecialTokens(tk, vocabPath)
	if err != nil {
		return nil, err
	}
	tk.WithPostProcessor(processor.NewBertProcessing(
		processor.PostToken{Id: t.sepID, Value: "[SEP]"},
		processor.PostToken{Id: t.clsID, Value: "[CLS]"},
	))
	return t, nil
}

func withSpecialTokens(tk *tokenizer.Tokenizer, path string) (*WordPieceTokenizer, error) {
	sepID, ok := tk.TokenToId("[SEP]")
	if !ok {
		return nil, fmt.Errorf("tokenizer %s has no [SEP] token", path)
	}
	clsID, ok := tk.TokenToId("[CLS]")
	if !ok {
		return nil, fmt.Errorf("tokenizer %s has no [CLS] token", path)
	}
	return &WordPieceTokenizer{tk: tk, clsID: clsID, sepID: sepID}, nil
}

// Tokenize encodes text with special tokens, truncates to maxTokens keeping the trailing [SEP],
// and zero-pads. Padding positions have attention 0.
func (t *WordPieceTokenizer) Tokenize(text string, maxTokens int) ([]int64, []int64, []int64, error) {
	inputIDs := make([]int64, maxTokens)
	attentionMask := make([]int64, maxTokens)
	tokenTypeIDs := make([]int64, maxTokens)
	if maxTokens <= 0 {
		return inputIDs, attentionMask, tokenTypeIDs, nil
	}

	ids := []int{t.clsID, t.sepID}
	if strings.TrimSpace(text) != "" {
		en, err := t.tk.EncodeSingle(text, true)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to tokenize: %w", err)
		}
		ids = en.Ids
		// tokenizer.json files may carry their own padding; keep only attended positions.
		if len(en.AttentionMask) == len(ids) {
			n := 0
			for n < len(ids) && en.AttentionMask[n] != 0 {
				n++
			}
			ids = ids[:n]
		}
	}
	if len(ids) > maxTokens {
		last := ids[len(ids)-1]
		ids = append(ids[:maxTokens-1:maxTokens-1], last)
	}

	for i, id := range ids {
		inputIDs[i] = int64(id)
		attentionMask[i] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs, nil
}

// MeanPool averages hidden states of shape [seqLen, dims] over positions whose mask is non-zero.
// An all-zero mask yields a zero vector.
func MeanPool(hidden []float32, mask []int64, seqLen, dims int) []float32 {
	out := make([]float32, dims)
	var count float32
	for i := 0; i < seqLen && i < len(mask); i++ {
		if mask[i] == 0 {
			continue
		}
		row := hidden[i*dims : (i+1)*dims]
		for j, v := range row {
			out[j] += v
		}
		count++
	}
	if count == 0 {
		return out
	}
	for j := range out {
		out[j] /= count
	}
	return out
}
