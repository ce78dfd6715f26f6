package scoring

import "sort"

// universalTraits maps the ten universal 360-feedback question ids to their
// named traits: five Big-Five-style and five interpersonal.
var universalTraits = map[string]string{
	"fb360_1":  "Openness",
	"fb360_2":  "Conscientiousness",
	"fb360_3":  "Extraversion",
	"fb360_4":  "Agreeableness",
	"fb360_5":  "Emotional Stability",
	"fb360_6":  "Communication",
	"fb360_7":  "Collaboration",
	"fb360_8":  "Reliability",
	"fb360_9":  "Leadership",
	"fb360_10": "Empathy",
}

// categoryBuckets pairs the ten category-specific question ids into five
// named strength buckets. The table is static so a typo in a question id
// fails loudly in tests instead of silently matching nothing.
var categoryBuckets = []struct {
	Name      string
	Questions [2]string
}{
	{Name: "Decision Making", Questions: [2]string{"fb360_11", "fb360_12"}},
	{Name: "Adaptability", Questions: [2]string{"fb360_13", "fb360_14"}},
	{Name: "Initiative", Questions: [2]string{"fb360_15", "fb360_16"}},
	{Name: "Conflict Handling", Questions: [2]string{"fb360_17", "fb360_18"}},
	{Name: "Mentoring", Questions: [2]string{"fb360_19", "fb360_20"}},
}

// TraitScore is one named trait with its percentage.
type TraitScore struct {
	Trait   string `json:"trait"`
	Percent int    `json:"percent"`
}

// Feedback360Result is the payload produced by ScoreFeedback360.
type Feedback360Result struct {
	Traits           []TraitScore `json:"traits"`
	Strengths        []TraitScore `json:"strengths"`
	DevelopmentAreas []TraitScore `json:"development_areas"`
}

// ScoreFeedback360 scores the ten universal questions as individual traits
// and averages each category pair into its bucket. All scores become
// round(score/5*100) percentages. Strengths are the top five traits,
// development areas the bottom three. Missing answers contribute nothing.
func ScoreFeedback360(answers map[string]string) (any, error) {
	var traits []TraitScore
	for _, id := range sortedKeys(universalTraits) {
		v, ok := scaleValue(answers[id])
		if !ok {
			continue
		}
		traits = append(traits, TraitScore{Trait: universalTraits[id], Percent: percentOfScale(float64(v))})
	}

	for _, bucket := range categoryBuckets {
		sum, n := 0, 0
		for _, id := range bucket.Questions {
			if v, ok := scaleValue(answers[id]); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		traits = append(traits, TraitScore{Trait: bucket.Name, Percent: percentOfScale(float64(sum) / float64(n))})
	}

	ranked := make([]TraitScore, len(traits))
	copy(ranked, traits)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Percent != ranked[j].Percent {
			return ranked[i].Percent > ranked[j].Percent
		}
		return ranked[i].Trait < ranked[j].Trait
	})

	res := Feedback360Result{Traits: traits}
	for i, t := range ranked {
		if i < 5 {
			res.Strengths = append(res.Strengths, t)
		}
	}
	for i := len(ranked) - 3; i < len(ranked); i++ {
		if i >= 0 {
			res.DevelopmentAreas = append(res.DevelopmentAreas, ranked[i])
		}
	}
	return res, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
