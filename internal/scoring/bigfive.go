package scoring

// bigFiveTraits maps each question id to its trait, five questions per
// trait.
var bigFiveTraits = []struct {
	Trait     string
	Questions []string
}{
	{Trait: "Openness", Questions: []string{"bf_1", "bf_2", "bf_3", "bf_4", "bf_5"}},
	{Trait: "Conscientiousness", Questions: []string{"bf_6", "bf_7", "bf_8", "bf_9", "bf_10"}},
	{Trait: "Extraversion", Questions: []string{"bf_11", "bf_12", "bf_13", "bf_14", "bf_15"}},
	{Trait: "Agreeableness", Questions: []string{"bf_16", "bf_17", "bf_18", "bf_19", "bf_20"}},
	{Trait: "Neuroticism", Questions: []string{"bf_21", "bf_22", "bf_23", "bf_24", "bf_25"}},
}

// BigFiveResult is the payload produced by ScoreBigFive.
type BigFiveResult struct {
	Traits []TraitScore `json:"traits"`
}

// ScoreBigFive averages the answered questions of each trait and reports a
// rounded percentage. Traits with no answered questions score zero.
func ScoreBigFive(answers map[string]string) (any, error) {
	res := BigFiveResult{Traits: make([]TraitScore, 0, len(bigFiveTraits))}
	for _, t := range bigFiveTraits {
		sum, n := 0, 0
		for _, id := range t.Questions {
			if v, ok := scaleValue(answers[id]); ok {
				sum += v
				n++
			}
		}
		percent := 0
		if n > 0 {
			percent = percentOfScale(float64(sum) / float64(n))
		}
		res.Traits = append(res.Traits, TraitScore{Trait: t.Trait, Percent: percent})
	}
	return res, nil
}
