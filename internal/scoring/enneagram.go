package scoring

import "strconv"

// enneagramTitles names the nine types in type order.
var enneagramTitles = [9]string{
	"The Reformer",
	"The Helper",
	"The Achiever",
	"The Individualist",
	"The Investigator",
	"The Loyalist",
	"The Enthusiast",
	"The Challenger",
	"The Peacemaker",
}

// EnneagramTypeScore is the vote count and share for one type.
type EnneagramTypeScore struct {
	Type    int    `json:"type"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// EnneagramResult is the payload produced by ScoreEnneagram.
type EnneagramResult struct {
	DominantType int                  `json:"dominant_type"`
	Title        string               `json:"title"`
	Types        []EnneagramTypeScore `json:"types"`
}

// ScoreEnneagram counts answers voting for each of the nine types. The
// dominant type is the one with the most votes; ties resolve to the lower
// type number. Answer values outside 1..9 are ignored.
func ScoreEnneagram(answers map[string]string) (any, error) {
	var counts [9]int
	total := 0
	for _, v := range answers {
		t, err := strconv.Atoi(v)
		if err != nil || t < 1 || t > 9 {
			continue
		}
		counts[t-1]++
		total++
	}

	dominant := 1
	res := EnneagramResult{Types: make([]EnneagramTypeScore, 0, 9)}
	for i, c := range counts {
		percent := 0
		if total > 0 {
			percent = int(float64(c)/float64(total)*100 + 0.5)
		}
		res.Types = append(res.Types, EnneagramTypeScore{
			Type:    i + 1,
			Title:   enneagramTitles[i],
			Count:   c,
			Percent: percent,
		})
		if c > counts[dominant-1] {
			dominant = i + 1
		}
	}
	res.DominantType = dominant
	res.Title = enneagramTitles[dominant-1]
	return res, nil
}
