package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_KnownAndUnknownTests(t *testing.T) {
	for _, id := range []string{"mbti", "big_five", "enneagram", "feedback360", "couple"} {
		fn, ok := For(id)
		require.True(t, ok, "test %s", id)
		require.NotNil(t, fn)
	}
	_, ok := For("astrology")
	assert.False(t, ok)
}

func TestScoreBigFive(t *testing.T) {
	answers := make(map[string]string)
	for i := 1; i <= 25; i++ {
		answers[fmt.Sprintf("bf_%d", i)] = "3"
	}
	// Push openness up and neuroticism down.
	for i := 1; i <= 5; i++ {
		answers[fmt.Sprintf("bf_%d", i)] = "5"
	}
	for i := 21; i <= 25; i++ {
		answers[fmt.Sprintf("bf_%d", i)] = "1"
	}

	got, err := ScoreBigFive(answers)
	require.NoError(t, err)
	res := got.(BigFiveResult)

	require.Len(t, res.Traits, 5)
	assert.Equal(t, TraitScore{Trait: "Openness", Percent: 100}, res.Traits[0])
	assert.Equal(t, TraitScore{Trait: "Neuroticism", Percent: 20}, res.Traits[4])
	assert.Equal(t, 60, res.Traits[1].Percent)
}

func TestScoreBigFive_MissingTraitScoresZero(t *testing.T) {
	got, err := ScoreBigFive(map[string]string{"bf_11": "4"})
	require.NoError(t, err)
	res := got.(BigFiveResult)
	assert.Equal(t, 0, res.Traits[0].Percent)
	assert.Equal(t, 80, res.Traits[2].Percent)
}

func TestScoreEnneagram(t *testing.T) {
	answers := map[string]string{
		"en_1": "4", "en_2": "4", "en_3": "4",
		"en_4": "9", "en_5": "9",
		"en_6": "1",
		"bad":  "12",
	}
	got, err := ScoreEnneagram(answers)
	require.NoError(t, err)
	res := got.(EnneagramResult)

	assert.Equal(t, 4, res.DominantType)
	assert.Equal(t, "The Individualist", res.Title)
	assert.Equal(t, 50, res.Types[3].Percent)
	assert.Equal(t, 3, res.Types[3].Count)
}

func TestScoreEnneagram_TieResolvesToLowerType(t *testing.T) {
	got, err := ScoreEnneagram(map[string]string{"en_1": "7", "en_2": "2"})
	require.NoError(t, err)
	res := got.(EnneagramResult)
	assert.Equal(t, 2, res.DominantType)
}

func TestScoreCouple(t *testing.T) {
	answers := make(map[string]string)
	for i := 1; i <= 20; i++ {
		answers[fmt.Sprintf("cc_%d", i)] = "4"
	}
	for i := 1; i <= 5; i++ {
		answers[fmt.Sprintf("cc_%d", i)] = "5"
	}

	got, err := ScoreCouple(answers)
	require.NoError(t, err)
	res := got.(CoupleResult)

	require.Len(t, res.Dimensions, 4)
	assert.Equal(t, 100, res.Dimensions[0].Percent)
	assert.Equal(t, 80, res.Dimensions[1].Percent)
	assert.Equal(t, 85, res.Overall)
}

func TestScoreCouple_EmptyAnswers(t *testing.T) {
	got, err := ScoreCouple(map[string]string{})
	require.NoError(t, err)
	res := got.(CoupleResult)
	assert.Equal(t, 0, res.Overall)
	for _, d := range res.Dimensions {
		assert.Equal(t, 0, d.Percent)
	}
}
