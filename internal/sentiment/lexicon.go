package sentiment

import (
	"context"
	"strings"
	"unicode"

	"ReviewAnalyzer/internal/domain"
)

// reviewLexicon maps lowercase terms to signed weights in [-1, 1], tuned for
// the vocabulary of mobile-app store reviews.
var reviewLexicon = map[string]float64{
	// positive
	"good":       0.6,
	"great":      0.8,
	"excellent":  0.9,
	"amazing":    0.9,
	"awesome":    0.85,
	"best":       0.8,
	"love":       0.8,
	"like":       0.4,
	"nice":       0.5,
	"fast":       0.5,
	"easy":       0.5,
	"smooth":     0.6,
	"helpful":    0.6,
	"reliable":   0.7,
	"convenient": 0.6,
	"secure":     0.5,
	"perfect":    0.9,
	"wonderful":  0.8,
	"improved":   0.4,
	"works":      0.3,
	"thanks":     0.5,
	"simple":     0.4,

	// negative
	"bad":          -0.6,
	"worst":        -0.9,
	"terrible":     -0.9,
	"horrible":     -0.9,
	"awful":        -0.85,
	"hate":         -0.8,
	"poor":         -0.6,
	"slow":         -0.5,
	"crash":        -0.8,
	"crashes":      -0.8,
	"crashed":      -0.8,
	"crashing":     -0.8,
	"freezes":      -0.7,
	"frozen":       -0.6,
	"hangs":        -0.6,
	"bug":          -0.6,
	"buggy":        -0.7,
	"broken":       -0.7,
	"error":        -0.5,
	"errors":       -0.5,
	"fail":         -0.7,
	"fails":        -0.7,
	"failed":       -0.7,
	"useless":      -0.8,
	"annoying":     -0.6,
	"frustrating":  -0.7,
	"disappointed": -0.7,
	"scam":         -0.9,
	"stuck":        -0.5,
	"waiting":      -0.3,
	"problem":      -0.5,
	"problems":     -0.5,
	"issue":        -0.4,
	"issues":       -0.4,
}

// negators invert the weight of the sentiment term that follows them.
var negators = map[string]struct{}{
	"not":    {},
	"no":     {},
	"never":  {},
	"dont":   {},
	"don't":  {},
	"cant":   {},
	"can't":  {},
	"won't":  {},
	"wont":   {},
	"didn't": {},
	"didnt":  {},
}

// Lexicon is the offline heuristic strategy: the mean signed weight of the
// sentiment-bearing terms in the text.
type Lexicon struct {
	weights map[string]float64
}

var _ Strategy = (*Lexicon)(nil)

// NewLexicon returns a scorer over the embedded review lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{weights: reviewLexicon}
}

func (l *Lexicon) Name() string {
	return "lexicon"
}

// Score is a pure function of the text; the context is unused but kept for
// the Strategy contract.
func (l *Lexicon) Score(_ context.Context, review domain.NormalizedReview) (float64, error) {
	tokens := fields(review.Text)

	var sum float64
	var matched int
	negated := false

	for _, tok := range tokens {
		if _, ok := negators[tok]; ok {
			negated = true
			continue
		}

		w, ok := l.weights[tok]
		if ok {
			if negated {
				w = -w
			}
			sum += w
			matched++
		}
		negated = false
	}

	if matched == 0 {
		return 0, nil
	}
	return sum / float64(matched), nil
}

func fields(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
