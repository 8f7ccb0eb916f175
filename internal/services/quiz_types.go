package services

import "strings"

type Axis string

const (
	AxisEI Axis = "EI"
	AxisSN Axis = "SN"
	AxisTF Axis = "TF"
	AxisJP Axis = "JP"
)

// Axes in type-code order.
var Axes = []Axis{AxisEI, AxisSN, AxisTF, AxisJP}

// Letters returns the (upper, lower) letters of an axis; upper wins ties.
func (a Axis) Letters() (upper, lower string) {
	s := string(a)
	if len(s) != 2 {
		return "", ""
	}
	return s[:1], s[1:]
}

// Question is one item of the fixed question bank.
type Question struct {
	ID         int               `json:"id"`
	Axis       Axis              `json:"axis"`
	PromptI18n map[string]string `json:"prompt_i18n"`
	Reverse    bool              `json:"reverse,omitempty"`
}

// Prompt returns the prompt for lang, falling back to Korean.
func (q Question) Prompt(lang string) string {
	if v := q.PromptI18n[lang]; v != "" {
		return v
	}
	return q.PromptI18n["ko"]
}

// AnswerSet maps question id to a Likert pick (1..5).
type AnswerSet map[int]int

type AxisTotals struct {
	EI int `json:"EI"`
	SN int `json:"SN"`
	TF int `json:"TF"`
	JP int `json:"JP"`
}

func (t *AxisTotals) add(axis Axis, v int) {
	switch axis {
	case AxisEI:
		t.EI += v
	case AxisSN:
		t.SN += v
	case AxisTF:
		t.TF += v
	case AxisJP:
		t.JP += v
	}
}

func (t AxisTotals) Get(axis Axis) int {
	switch axis {
	case AxisEI:
		return t.EI
	case AxisSN:
		return t.SN
	case AxisTF:
		return t.TF
	case AxisJP:
		return t.JP
	}
	return 0
}

// TypeCode derives the four-letter code from the sign of each total.
func (t AxisTotals) TypeCode() string {
	var b strings.Builder
	for _, axis := range Axes {
		upper, lower := axis.Letters()
		if t.Get(axis) >= 0 {
			b.WriteString(upper)
		} else {
			b.WriteString(lower)
		}
	}
	return b.String()
}

type Outcome struct {
	Type   string     `json:"type"`
	Axes   AxisTotals `json:"axes"`
	Shared bool       `json:"shared,omitempty"`
}

// ResultMeta describes a type code for display.
type ResultMeta struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

type localizedMeta map[string]ResultMeta
