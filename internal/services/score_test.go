package services

import "testing"

func TestReverseScore(t *testing.T) {
	cases := []struct {
		raw, points, want int
	}{
		{1, 5, 5},
		{2, 5, 4},
		{3, 5, 3},
		{5, 5, 1},
		{0, 5, 5},
		{6, 5, 1},
		{1, 7, 7},
		{7, 7, 1},
	}
	for _, c := range cases {
		if got := ReverseScore(c.raw, c.points); got != c.want {
			t.Fatalf("ReverseScore(%d,%d)=%d, want %d", c.raw, c.points, got, c.want)
		}
	}
}

func TestSignedScoreTable(t *testing.T) {
	want := map[int]int{1: -2, 2: -1, 3: 0, 4: 1, 5: 2, 0: 0, 6: 0}
	for pick, w := range want {
		if got := SignedScore(pick); got != w {
			t.Fatalf("SignedScore(%d)=%d, want %d", pick, got, w)
		}
	}
}

func TestReverseContributionNegates(t *testing.T) {
	plain := Question{ID: 1, Axis: AxisSN}
	rev := Question{ID: 2, Axis: AxisSN, Reverse: true}
	for pick := 1; pick <= LikertPoints; pick++ {
		if Contribution(rev, pick) != -Contribution(plain, pick) {
			t.Fatalf("pick %d: reverse %d, plain %d", pick, Contribution(rev, pick), Contribution(plain, pick))
		}
	}
}

func fullAnswers(pick int) AnswerSet {
	out := AnswerSet{}
	for _, q := range QuestionBank() {
		out[q.ID] = pick
	}
	return out
}

func TestScoreAllNeutralIsUpperLetters(t *testing.T) {
	out, ok := Score(QuestionBank(), fullAnswers(3))
	if !ok {
		t.Fatalf("expected complete result")
	}
	if out.Type != "ESTJ" {
		t.Fatalf("type = %s, want ESTJ", out.Type)
	}
	if out.Axes != (AxisTotals{}) {
		t.Fatalf("axes = %+v", out.Axes)
	}
}

func TestScoreAllFives(t *testing.T) {
	out, ok := Score(QuestionBank(), fullAnswers(5))
	if !ok {
		t.Fatalf("expected complete result")
	}
	// SN has one reverse item of six, TF one of seven.
	want := AxisTotals{EI: 12, SN: 8, TF: 10, JP: 12}
	if out.Axes != want {
		t.Fatalf("axes = %+v, want %+v", out.Axes, want)
	}
	if out.Type != "ESTJ" {
		t.Fatalf("type = %s", out.Type)
	}
}

func TestScoreAllOnes(t *testing.T) {
	out, _ := Score(QuestionBank(), fullAnswers(1))
	if out.Type != "INFP" {
		t.Fatalf("type = %s, want INFP", out.Type)
	}
}

func TestScoreWithinBounds(t *testing.T) {
	bank := QuestionBank()
	bounds := map[Axis]int{}
	for _, q := range bank {
		bounds[q.Axis] += 2
	}
	for pick := 1; pick <= LikertPoints; pick++ {
		out, _ := Score(bank, fullAnswers(pick))
		for _, axis := range Axes {
			v := out.Axes.Get(axis)
			if v < -bounds[axis] || v > bounds[axis] {
				t.Fatalf("axis %s=%d out of ±%d", axis, v, bounds[axis])
			}
		}
	}
}

func TestScoreIncomplete(t *testing.T) {
	answers := fullAnswers(4)
	delete(answers, 25)
	if _, ok := Score(QuestionBank(), answers); ok {
		t.Fatalf("expected incomplete")
	}
	if _, err := ScoreStrict(QuestionBank(), answers); err != ErrIncompleteAnswers {
		t.Fatalf("ScoreStrict err = %v", err)
	}
}

func TestScoreStrictRejectsBadPick(t *testing.T) {
	answers := fullAnswers(4)
	answers[3] = 9
	_, err := ScoreStrict(QuestionBank(), answers)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
	answers = fullAnswers(4)
	answers[99] = 3
	if _, err := ScoreStrict(QuestionBank(), answers); err == nil {
		t.Fatalf("expected unknown question error")
	}
}

func TestTypeCodeFromTotals(t *testing.T) {
	got := AxisTotals{EI: 3, SN: -1, TF: 0, JP: 2}.TypeCode()
	if got != "ENTJ" {
		t.Fatalf("TypeCode = %s, want ENTJ", got)
	}
}

func TestSharedOutcomeSkipsScoring(t *testing.T) {
	out := SharedOutcome("ZZZZ")
	if out.Type != "ZZZZ" || out.Axes != (AxisTotals{}) || !out.Shared {
		t.Fatalf("unexpected shared outcome %+v", out)
	}
	meta, known := MetaFor("ZZZZ", "ko")
	if known || meta.Title != "골프 MBTI" || meta.Subtitle != "나의 라운드 성향은?" || meta.Description != "" {
		t.Fatalf("unexpected fallback %+v known=%v", meta, known)
	}
}
