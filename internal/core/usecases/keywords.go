package usecases

import (
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"

	"github.com/oceanlab/argoscout/internal/core/lexicon"
)

// TaggerKeywordExtractor pulls nouns, adjectives and proper nouns out of a
// query using part-of-speech tagging. Keywords are best-effort context for
// display; downstream filtering never depends on them.
type TaggerKeywordExtractor struct{}

// NewTaggerKeywordExtractor returns the POS-tagging variant.
func NewTaggerKeywordExtractor() *TaggerKeywordExtractor {
	return &TaggerKeywordExtractor{}
}

// ExtractContentWords returns lowercased content words in first-seen order.
func (e *TaggerKeywordExtractor) ExtractContentWords(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil
	}

	var words []string
	seen := make(map[string]struct{})
	for _, tok := range doc.Tokens() {
		if !contentTag(tok.Tag) || len(tok.Text) <= 2 {
			continue
		}
		word := strings.ToLower(tok.Text)
		if !isWordLike(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

// contentTag reports whether a Penn Treebank tag is a noun, adjective or
// proper noun.
func contentTag(tag string) bool {
	switch tag {
	case "NN", "NNS", "NNP", "NNPS", "JJ", "JJR", "JJS":
		return true
	}
	return false
}

// StopwordKeywordExtractor is the fallback variant: whitespace/punctuation
// tokens longer than 2 characters, minus the lexicon stop-word list.
type StopwordKeywordExtractor struct {
	stopWords map[string]struct{}
}

// NewStopwordKeywordExtractor returns the stop-word-filter variant.
func NewStopwordKeywordExtractor(lex *lexicon.Lexicon) *StopwordKeywordExtractor {
	return &StopwordKeywordExtractor{stopWords: lex.StopWords}
}

// ExtractContentWords returns deduplicated tokens in first-seen order.
func (e *StopwordKeywordExtractor) ExtractContentWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var words []string
	seen := make(map[string]struct{})
	for _, word := range fields {
		if len(word) <= 2 {
			continue
		}
		if _, stop := e.stopWords[word]; stop {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

func isWordLike(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
