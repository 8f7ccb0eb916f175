package services

import "math"

// DefaultPageSize is the number of questions shown per page.
const DefaultPageSize = 5

// Pager walks a question bank in fixed-size pages.
type Pager struct {
	bank []Question
	size int
}

func NewPager(bank []Question, size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{bank: bank, size: size}
}

func (p Pager) Size() int { return p.size }

// MaxPage is the last valid zero-based page index.
func (p Pager) MaxPage() int {
	if len(p.bank) == 0 {
		return 0
	}
	return (len(p.bank) - 1) / p.size
}

func (p Pager) Count() int { return p.MaxPage() + 1 }

// Clamp pins an index into [0, MaxPage].
func (p Pager) Clamp(page int) int {
	if page < 0 {
		return 0
	}
	if max := p.MaxPage(); page > max {
		return max
	}
	return page
}

// Questions returns the slice of the bank shown on page (clamped).
func (p Pager) Questions(page int) []Question {
	page = p.Clamp(page)
	start := page * p.size
	end := start + p.size
	if end > len(p.bank) {
		end = len(p.bank)
	}
	if start >= end {
		return nil
	}
	return p.bank[start:end]
}

func (p Pager) CanPrev(page int) bool { return p.Clamp(page) > 0 }

// CanNext holds when every question on the page has a valid pick. On the last page it gates the
// result action instead of navigation.
func (p Pager) CanNext(page int, answers AnswerSet) bool {
	for _, q := range p.Questions(page) {
		if v, ok := answers[q.ID]; !ok || v < 1 || v > LikertPoints {
			return false
		}
	}
	return true
}

func (p Pager) IsLast(page int) bool { return p.Clamp(page) == p.MaxPage() }

// Progress is round(answered/total*100) over the whole bank.
func Progress(bank []Question, answers AnswerSet) int {
	if len(bank) == 0 {
		return 0
	}
	answered := 0
	for _, q := range bank {
		if v, ok := answers[q.ID]; ok && v >= 1 && v <= LikertPoints {
			answered++
		}
	}
	return int(math.Round(float64(answered) / float64(len(bank)) * 100))
}
