package themes

import (
	"strings"
	"unicode"

	"ReviewAnalyzer/internal/domain"
)

// Theme pairs a tag with the trigger keywords and phrases that assign it.
type Theme struct {
	Tag      string
	Triggers []string
}

// Vocabulary is one entity's ordered theme rule table. Order is preserved in
// classifier output for deterministic downstream display.
type Vocabulary struct {
	Themes []Theme
}

// Table maps entity IDs to their configured vocabularies.
type Table map[string]Vocabulary

// Classify assigns zero or more themes from the entity's vocabulary.
// An entity without a vocabulary is an UnconfiguredEntityError; the caller
// decides to pass the review through unclassified rather than abort.
func (t Table) Classify(review domain.ScoredReview) ([]string, error) {
	vocab, ok := t[review.EntityID]
	if !ok {
		return nil, &domain.UnconfiguredEntityError{EntityID: review.EntityID}
	}
	return vocab.Match(review.Text), nil
}

// Match returns the tags whose triggers appear in the text, in configured
// order. The result is empty, never nil, when nothing matches.
func (v Vocabulary) Match(text string) []string {
	doc := analyze(text)

	matched := make([]string, 0, len(v.Themes))
	for _, theme := range v.Themes {
		for _, trigger := range theme.Triggers {
			if doc.contains(trigger) {
				matched = append(matched, theme.Tag)
				break
			}
		}
	}

	return matched
}

// document is the tokenized view of one review text: unigram token set,
// joined bigram/trigram set, and the lowercased original for phrase fallback.
type document struct {
	tokens  map[string]struct{}
	ngrams  map[string]struct{}
	lowered string
}

func analyze(text string) document {
	lowered := strings.ToLower(text)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	doc := document{
		tokens:  make(map[string]struct{}, len(words)),
		ngrams:  make(map[string]struct{}, 2*len(words)),
		lowered: lowered,
	}

	for i, w := range words {
		doc.tokens[w] = struct{}{}
		if i+1 < len(words) {
			doc.ngrams[words[i]+" "+words[i+1]] = struct{}{}
		}
		if i+2 < len(words) {
			doc.ngrams[words[i]+" "+words[i+1]+" "+words[i+2]] = struct{}{}
		}
	}

	return doc
}

func (d document) contains(trigger string) bool {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if trigger == "" {
		return false
	}

	// Single words must match a whole token so "app" never fires on "happy".
	if !strings.Contains(trigger, " ") {
		_, ok := d.tokens[trigger]
		return ok
	}

	if _, ok := d.ngrams[trigger]; ok {
		return true
	}
	return strings.Contains(d.lowered, trigger)
}
