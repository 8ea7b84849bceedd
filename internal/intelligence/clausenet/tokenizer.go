package clausenet

import "strings"

// Special tokens understood by the serving backend.
const (
	padToken = "[PAD]"
	unkToken = "[UNK]"
)

// Tokenizer prepares contract text for the classifier: whitespace word
// splitting, lowercasing, then truncation or padding to the model's fixed
// sequence length.  Subword splitting happens server-side; the client only
// guarantees the length contract.
type Tokenizer struct {
	maxLen int
}

// NewTokenizer builds a Tokenizer for the given sequence length.
func NewTokenizer(maxSequenceLength int) *Tokenizer {
	return &Tokenizer{maxLen: maxSequenceLength}
}

// Tokenize returns exactly maxLen tokens: the leading words of text,
// lowercased, truncated at maxLen, padded with [PAD] when shorter.  Empty or
// whitespace-only input yields a fully padded sequence.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > t.maxLen {
		words = words[:t.maxLen]
	}

	out := make([]string, t.maxLen)
	copy(out, words)
	for i := len(words); i < t.maxLen; i++ {
		out[i] = padToken
	}
	return out
}

// Truncated reports whether text exceeds the sequence window.
func (t *Tokenizer) Truncated(text string) bool {
	return len(strings.Fields(text)) > t.maxLen
}
