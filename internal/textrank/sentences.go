package textrank

import (
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Split segments prose into sentences. The prose segmenter protects
// decimal numbers and abbreviations from false splits; a plain rule-based
// splitter covers the rare inputs prose refuses.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
	)
	if err != nil {
		return fallbackSplit(text)
	}
	var out []string
	for _, s := range doc.Sentences() {
		t := strings.TrimSpace(s.Text)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// fallbackSplit breaks on sentence-terminal punctuation followed by
// whitespace, keeping decimal points intact.
var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

func fallbackSplit(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	var out []string
	for _, s := range strings.Split(marked, "\x00") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokens lowercases a sentence and returns its non-stopword terms.
func Tokens(sentence string) []string {
	var out []string
	for _, t := range tokenPattern.FindAllString(strings.ToLower(sentence), -1) {
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// stopwords is a compact English function-word list; enough to keep the
// overlap similarity from being dominated by glue words.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"been": {}, "but": {}, "by": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "of": {}, "on": {}, "or": {}, "our": {}, "such": {},
	"that": {}, "the": {}, "their": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "to": {}, "was": {}, "we": {}, "were": {},
	"which": {}, "will": {}, "with": {}, "would": {}, "not": {}, "no": {},
	"may": {}, "also": {}, "any": {}, "other": {}, "than": {}, "during": {},
	"over": {}, "under": {}, "per": {}, "us": {}, "if": {}, "do": {},
	"does": {}, "did": {}, "so": {}, "can": {}, "could": {}, "should": {},
}
