// Package scoring holds the pure scoring functions mapping a completed
// answer set to a result payload, one per test type. All functions are
// deterministic, perform no I/O, and tolerate partial answer maps: missing
// or unrecognized keys are skipped, never an error.
package scoring

import "strconv"

// Func computes a result payload from a raw answer map. Answer values are
// strings; scale answers are decimal integers ("1".."5").
type Func func(answers map[string]string) (any, error)

var table = map[string]Func{
	"mbti":        ScoreMBTI,
	"big_five":    ScoreBigFive,
	"enneagram":   ScoreEnneagram,
	"feedback360": ScoreFeedback360,
	"couple":      ScoreCouple,
}

// For returns the scoring function for the given test id.
func For(testID string) (Func, bool) {
	fn, ok := table[testID]
	return fn, ok
}

// scaleValue parses a 1..5 scale answer. Returns 0 and false for anything
// that is not a valid in-range integer.
func scaleValue(raw string) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > 5 {
		return 0, false
	}
	return v, true
}

// percentOfScale converts an average 1..5 score to a rounded percentage.
func percentOfScale(score float64) int {
	return int(score/5*100 + 0.5)
}
