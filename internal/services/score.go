package services

// LikertPoints is the number of options offered for every quiz question.
const LikertPoints = 5

// ReverseScore maps a raw Likert value to its reverse-scored value
// given the number of points in the scale (e.g., 5 or 7).
// raw is expected to be within [1, points]. Out-of-range values are clamped.
func ReverseScore(raw, points int) int {
	if points < 2 {
		return raw
	}
	if raw < 1 {
		raw = 1
	}
	if raw > points {
		raw = points
	}
	return (points + 1) - raw
}

var likertSigned = [LikertPoints + 1]int{0, -2, -1, 0, 1, 2}

// SignedScore converts a pick into its signed contribution. Picks outside 1..5 contribute nothing.
func SignedScore(pick int) int {
	if pick < 1 || pick > LikertPoints {
		return 0
	}
	return likertSigned[pick]
}

// Contribution is the signed value a pick adds to its question's axis. Reverse questions are
// reverse-coded first, which on a symmetric scale is exactly the negation.
func Contribution(q Question, pick int) int {
	if q.Reverse {
		return SignedScore(ReverseScore(pick, LikertPoints))
	}
	return SignedScore(pick)
}

// Score totals every question of the bank. It returns ok=false when any question lacks a valid
// pick; a partial type is never produced.
func Score(bank []Question, answers AnswerSet) (Outcome, bool) {
	var axes AxisTotals
	for _, q := range bank {
		pick, ok := answers[q.ID]
		if !ok || pick < 1 || pick > LikertPoints {
			return Outcome{}, false
		}
		axes.add(q.Axis, Contribution(q, pick))
	}
	return Outcome{Type: axes.TypeCode(), Axes: axes}, true
}

// ValidPick reports whether v is one of the offered Likert options.
func ValidPick(v int) bool { return v >= 1 && v <= LikertPoints }

// ScoreStrict is Score for submitted answer sets: picks outside 1..5 or for unknown questions are
// rejected as invalid instead of being treated as missing.
func ScoreStrict(bank []Question, answers AnswerSet) (Outcome, error) {
	known := make(map[int]bool, len(bank))
	for _, q := range bank {
		known[q.ID] = true
	}
	for id, pick := range answers {
		if !known[id] {
			return Outcome{}, NewInvalidError("err.unknown_question", "unknown question id")
		}
		if !ValidPick(pick) {
			return Outcome{}, NewInvalidError("err.invalid_pick", "pick must be between 1 and 5")
		}
	}
	out, ok := Score(bank, answers)
	if !ok {
		return Outcome{}, ErrIncompleteAnswers
	}
	return out, nil
}

// SharedOutcome treats an externally supplied code as authoritative. Nothing is validated; unknown
// codes resolve to fallback metadata at display time.
func SharedOutcome(code string) Outcome {
	return Outcome{Type: code, Shared: true}
}
