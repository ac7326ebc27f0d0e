package embedding

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// BERT-style special token IDs and the hash vocabulary size used by the
// bundled model export.
const (
	clsTokenID       = 101
	sepTokenID       = 102
	hashVocabSize    = 30000
	defaultMaxTokens = 64
)

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer is a whitespace tokenizer with hash-derived token IDs.
// Column headers are short and rarely exceed a handful of tokens, so a
// vocabulary-free tokenizer is enough for the bundled model export.
type SimpleTokenizer struct{}

// Tokenize returns CLS + word tokens + SEP, zero-padded to maxTokens, with a
// matching attention mask. Words past maxTokens-2 are dropped.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	pos := 1
	for _, word := range splitWords(text) {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = hashTokenID(word)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}

// hashTokenID maps a word into the hash vocabulary deterministically.
func hashTokenID(word string) int64 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return int64(h.Sum32() % hashVocabSize)
}
