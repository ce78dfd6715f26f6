package scoring

// dichotomies lists the four MBTI pole pairs in fixed output order. The
// first-listed pole wins ties.
var dichotomies = [4][2]string{
	{"E", "I"},
	{"S", "N"},
	{"T", "F"},
	{"J", "P"},
}

// DichotomyScore is the winning pole and its percentage for one pair.
type DichotomyScore struct {
	Pair    string `json:"pair"`
	Letter  string `json:"letter"`
	Percent int    `json:"percent"`
}

// MBTIDescription is the narrative block for a four-letter type.
type MBTIDescription struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// MBTIResult is the payload produced by ScoreMBTI.
type MBTIResult struct {
	Type        string           `json:"type"`
	Dichotomies []DichotomyScore `json:"dichotomies"`
	Description MBTIDescription  `json:"description"`
}

// ScoreMBTI counts letter-valued answers per dichotomy. The percentage for
// the winning pole is max(50, round(count/total*100)); an unanswered pair
// scores 50 and defaults to the first-listed pole. Non-letter answer values
// are ignored.
func ScoreMBTI(answers map[string]string) (any, error) {
	counts := make(map[string]int, 8)
	for _, v := range answers {
		switch v {
		case "E", "I", "S", "N", "T", "F", "J", "P":
			counts[v]++
		}
	}

	res := MBTIResult{Dichotomies: make([]DichotomyScore, 0, 4)}
	for _, pair := range dichotomies {
		first, second := counts[pair[0]], counts[pair[1]]
		total := first + second
		letter := pair[0]
		percent := 50
		if total > 0 {
			winner := first
			if second > first {
				letter = pair[1]
				winner = second
			}
			percent = int(float64(winner)/float64(total)*100 + 0.5)
			if percent < 50 {
				percent = 50
			}
		}
		res.Type += letter
		res.Dichotomies = append(res.Dichotomies, DichotomyScore{
			Pair:    pair[0] + pair[1],
			Letter:  letter,
			Percent: percent,
		})
	}

	desc, ok := mbtiDescriptions[res.Type]
	if !ok {
		desc = genericMBTIDescription
	}
	res.Description = desc
	return res, nil
}
