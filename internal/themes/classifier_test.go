package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewAnalyzer/internal/domain"
)

func testVocabulary() Vocabulary {
	return Vocabulary{Themes: []Theme{
		{Tag: "Reliability", Triggers: []string{"crash", "crashes", "force close", "freezes"}},
		{Tag: "Transactions", Triggers: []string{"transfer", "transfers", "send money"}},
		{Tag: "Customer Support", Triggers: []string{"support", "call center"}},
	}}
}

func scoredReview(entityID, text string) domain.ScoredReview {
	return domain.ScoredReview{
		NormalizedReview: domain.NormalizedReview{ReviewID: "r", EntityID: entityID, Text: text, Rating: 3},
		SentimentLabel:   domain.SentimentNeutral,
	}
}

func TestMatchSingleWordIsTokenExact(t *testing.T) {
	t.Parallel()

	v := testVocabulary()

	assert.Equal(t, []string{"Reliability"}, v.Match("The app crashes on login"))
	// "crash" must not fire as a substring of unrelated words.
	assert.Empty(t, v.Match("I use the crashproof case"))
}

func TestMatchPhrases(t *testing.T) {
	t.Parallel()

	v := testVocabulary()

	assert.Equal(t, []string{"Reliability"}, v.Match("It does a Force Close every day"))
	assert.Equal(t, []string{"Transactions"}, v.Match("cannot send money abroad"))
}

func TestMatchMultipleThemesInVocabularyOrder(t *testing.T) {
	t.Parallel()

	v := testVocabulary()

	got := v.Match("Support never answers and transfers crash midway")
	assert.Equal(t, []string{"Reliability", "Transactions", "Customer Support"}, got)
}

func TestMatchNothingYieldsEmptySet(t *testing.T) {
	t.Parallel()

	got := testVocabulary().Match("Lovely colors in the new update")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClassifySubsetOfVocabulary(t *testing.T) {
	t.Parallel()

	table := Table{"boa": testVocabulary()}

	tags, err := table.Classify(scoredReview("boa", "crashes during transfer, called support"))
	require.NoError(t, err)

	allowed := map[string]struct{}{}
	for _, th := range table["boa"].Themes {
		allowed[th.Tag] = struct{}{}
	}
	for _, tag := range tags {
		_, ok := allowed[tag]
		assert.True(t, ok, "tag %q not in vocabulary", tag)
	}
	assert.Len(t, tags, 3)
}

func TestClassifyUnconfiguredEntity(t *testing.T) {
	t.Parallel()

	table := Table{"boa": testVocabulary()}

	_, err := table.Classify(scoredReview("unknown.app", "crashes"))
	require.Error(t, err)

	var ue *domain.UnconfiguredEntityError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "unknown.app", ue.EntityID)
}
