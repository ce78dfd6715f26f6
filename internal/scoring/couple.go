package scoring

// coupleDimensions maps compatibility question ids to their dimension, five
// questions per dimension.
var coupleDimensions = []struct {
	Dimension string
	Questions []string
}{
	{Dimension: "Communication", Questions: []string{"cc_1", "cc_2", "cc_3", "cc_4", "cc_5"}},
	{Dimension: "Shared Values", Questions: []string{"cc_6", "cc_7", "cc_8", "cc_9", "cc_10"}},
	{Dimension: "Intimacy", Questions: []string{"cc_11", "cc_12", "cc_13", "cc_14", "cc_15"}},
	{Dimension: "Lifestyle", Questions: []string{"cc_16", "cc_17", "cc_18", "cc_19", "cc_20"}},
}

// DimensionScore is one compatibility dimension with its percentage.
type DimensionScore struct {
	Dimension string `json:"dimension"`
	Percent   int    `json:"percent"`
}

// CoupleResult is the payload produced by ScoreCouple.
type CoupleResult struct {
	Overall    int              `json:"overall"`
	Dimensions []DimensionScore `json:"dimensions"`
}

// ScoreCouple averages each dimension's answered questions into a
// percentage and reports the mean of the answered dimensions as the overall
// compatibility score.
func ScoreCouple(answers map[string]string) (any, error) {
	res := CoupleResult{Dimensions: make([]DimensionScore, 0, len(coupleDimensions))}
	sumPercent, scored := 0, 0
	for _, d := range coupleDimensions {
		sum, n := 0, 0
		for _, id := range d.Questions {
			if v, ok := scaleValue(answers[id]); ok {
				sum += v
				n++
			}
		}
		percent := 0
		if n > 0 {
			percent = percentOfScale(float64(sum) / float64(n))
			sumPercent += percent
			scored++
		}
		res.Dimensions = append(res.Dimensions, DimensionScore{Dimension: d.Dimension, Percent: percent})
	}
	if scored > 0 {
		res.Overall = int(float64(sumPercent)/float64(scored) + 0.5)
	}
	return res, nil
}
