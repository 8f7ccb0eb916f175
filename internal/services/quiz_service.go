package services

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/url"
	"strings"
	"sync"

	"github.com/soaringjerry/fairway/internal/logger"
)

// AnswerStore persists a serialized answer set under a key. Get reports ok=false when nothing is
// stored.
type AnswerStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, raw []byte) error
	Delete(ctx context.Context, key string) error
}

const (
	VariantStandard = "standard"
	VariantCompact  = "compact"
)

// Variant parameterizes the single quiz surface.
type Variant struct {
	Name     string `json:"name"`
	Layout   string `json:"layout"`
	CopyLink bool   `json:"copyLink"`
}

func VariantFor(name string) Variant {
	if strings.EqualFold(name, VariantCompact) {
		return Variant{Name: VariantCompact, Layout: "compact", CopyLink: false}
	}
	return Variant{Name: VariantStandard, Layout: "spacious", CopyLink: true}
}

type LikertOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

var likertLabels = map[string][LikertPoints]string{
	"ko": {"전혀 아님", "아님", "보통", "그런 편", "매우"},
	"en": {"Not at all", "Not really", "Neutral", "Somewhat", "Very much"},
}

var likertEmoji = [LikertPoints]string{"🙅", "🤔", "😐", "🙂", "🙌"}

func likertOptions(lang string) []LikertOption {
	labels, ok := likertLabels[lang]
	if !ok {
		labels = likertLabels["ko"]
	}
	out := make([]LikertOption, LikertPoints)
	for i := range out {
		out[i] = LikertOption{Value: i + 1, Label: labels[i], Emoji: likertEmoji[i]}
	}
	return out
}

type QuizConfigView struct {
	PageSize  int            `json:"pageSize"`
	PageCount int            `json:"pageCount"`
	Questions int            `json:"questions"`
	Variant   Variant        `json:"variant"`
	Options   []LikertOption `json:"options"`
}

type QuestionView struct {
	ID     int    `json:"id"`
	Axis   Axis   `json:"axis"`
	Prompt string `json:"prompt"`
	Pick   int    `json:"pick,omitempty"`
}

type PageView struct {
	Page      int            `json:"page"`
	PageCount int            `json:"pageCount"`
	Questions []QuestionView `json:"questions"`
	CanPrev   bool           `json:"canPrev"`
	CanNext   bool           `json:"canNext"`
	IsLast    bool           `json:"isLast"`
	Progress  int            `json:"progress"`
}

type ProgressView struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
	Progress int `json:"progress"`
}

type ResultRequest struct {
	Session    string
	SharedType string
	Lang       string
	BaseURL    string
}

type ResultView struct {
	Ready      bool        `json:"ready"`
	Progress   int         `json:"progress"`
	Type       string      `json:"type,omitempty"`
	Axes       *AxisTotals `json:"axes,omitempty"`
	Shared     bool        `json:"shared,omitempty"`
	Meta       *ResultMeta `json:"meta,omitempty"`
	ShareTitle string      `json:"shareTitle,omitempty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	ShareURL   string      `json:"shareUrl,omitempty"`
}

type QuizService struct {
	store   AnswerStore
	bank    []Question
	pager   Pager
	variant Variant
	log     *logger.Logger

	// sessionLocks stripe per-session read-modify-write cycles.
	sessionLocks [64]sync.Mutex
}

func NewQuizService(store AnswerStore, variant Variant, pageSize int) *QuizService {
	bank := QuestionBank()
	return &QuizService{
		store:   store,
		bank:    bank,
		pager:   NewPager(bank, pageSize),
		variant: variant,
		log:     logger.Nop(),
	}
}

func (s *QuizService) WithLogger(l *logger.Logger) *QuizService {
	if l != nil {
		s.log = l
	}
	return s
}

func (s *QuizService) Config(lang string) QuizConfigView {
	return QuizConfigView{
		PageSize:  s.pager.Size(),
		PageCount: s.pager.Count(),
		Questions: len(s.bank),
		Variant:   s.variant,
		Options:   likertOptions(lang),
	}
}

func (s *QuizService) lockSession(session string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(session))
	mu := &s.sessionLocks[h.Sum32()%uint32(len(s.sessionLocks))]
	mu.Lock()
	return mu.Unlock
}

func storageKey(session string) string {
	return AnswerStorageKey + ":" + session
}

// Answers loads the session's answer set. Stored state that does not decode is discarded and the
// session starts over with an empty set.
func (s *QuizService) Answers(ctx context.Context, session string) (AnswerSet, error) {
	if strings.TrimSpace(session) == "" {
		return nil, NewInvalidError("err.missing_params", "quiz session required")
	}
	raw, ok, err := s.store.Get(ctx, storageKey(session))
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		return AnswerSet{}, nil
	}
	answers, err := decodeAnswers(raw)
	if err != nil {
		s.log.Warn("quiz_state_reset", "session", session, "err", err)
		if derr := s.store.Delete(ctx, storageKey(session)); derr != nil {
			return nil, derr
		}
		return AnswerSet{}, nil
	}
	return answers, nil
}

func decodeAnswers(raw []byte) (AnswerSet, error) {
	var parsed map[int]int
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	out := AnswerSet{}
	for id, pick := range parsed {
		if ValidPick(pick) {
			out[id] = pick
		}
	}
	return out, nil
}

func (s *QuizService) question(id int) (Question, bool) {
	for _, q := range s.bank {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// SetAnswer records one pick by rewriting the session's whole answer set. Writers in this process
// are serialized per session, so concurrent picks for different questions are all kept. Processes
// sharing a store can still overwrite each other's set.
func (s *QuizService) SetAnswer(ctx context.Context, session string, questionID, pick int) (ProgressView, error) {
	if _, ok := s.question(questionID); !ok {
		return ProgressView{}, NewInvalidError("err.unknown_question", "unknown question id")
	}
	if !ValidPick(pick) {
		return ProgressView{}, NewInvalidError("err.invalid_pick", "pick must be between 1 and 5")
	}
	if strings.TrimSpace(session) != "" {
		defer s.lockSession(session)()
	}
	answers, err := s.Answers(ctx, session)
	if err != nil {
		return ProgressView{}, err
	}
	answers[questionID] = pick
	raw, err := json.Marshal(answers)
	if err != nil {
		return ProgressView{}, err
	}
	if err := s.store.Set(ctx, storageKey(session), raw); err != nil {
		return ProgressView{}, err
	}
	return s.progress(answers), nil
}

func (s *QuizService) progress(answers AnswerSet) ProgressView {
	answered := 0
	for _, q := range s.bank {
		if ValidPick(answers[q.ID]) {
			answered++
		}
	}
	return ProgressView{Answered: answered, Total: len(s.bank), Progress: Progress(s.bank, answers)}
}

func (s *QuizService) Reset(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return NewInvalidError("err.missing_params", "quiz session required")
	}
	defer s.lockSession(session)()
	return s.store.Delete(ctx, storageKey(session))
}

// Page renders one page of questions with the session's picks. Out-of-range indexes are clamped.
func (s *QuizService) Page(ctx context.Context, session string, page int, lang string) (PageView, error) {
	answers, err := s.Answers(ctx, session)
	if err != nil {
		return PageView{}, err
	}
	page = s.pager.Clamp(page)
	qs := s.pager.Questions(page)
	views := make([]QuestionView, 0, len(qs))
	for _, q := range qs {
		views = append(views, QuestionView{ID: q.ID, Axis: q.Axis, Prompt: q.Prompt(lang), Pick: answers[q.ID]})
	}
	return PageView{
		Page:      page,
		PageCount: s.pager.Count(),
		Questions: views,
		CanPrev:   s.pager.CanPrev(page),
		CanNext:   s.pager.CanNext(page, answers),
		IsLast:    s.pager.IsLast(page),
		Progress:  Progress(s.bank, answers),
	}, nil
}

// Result scores the session, or echoes a shared type code without scoring it.
func (s *QuizService) Result(ctx context.Context, req ResultRequest) (ResultView, error) {
	var (
		outcome  Outcome
		progress = 100
	)
	if code := strings.TrimSpace(req.SharedType); code != "" {
		outcome = SharedOutcome(code)
	} else {
		answers, err := s.Answers(ctx, req.Session)
		if err != nil {
			return ResultView{}, err
		}
		progress = Progress(s.bank, answers)
		var ok bool
		outcome, ok = Score(s.bank, answers)
		if !ok {
			return ResultView{Ready: false, Progress: progress}, nil
		}
	}
	meta, _ := MetaFor(outcome.Type, req.Lang)
	axes := outcome.Axes
	view := ResultView{
		Ready:      true,
		Progress:   progress,
		Type:       outcome.Type,
		Axes:       &axes,
		Shared:     outcome.Shared,
		Meta:       &meta,
		ShareTitle: ShareTitle(outcome.Type, meta, req.Lang),
		ImageURL:   CardURL(req.BaseURL, outcome.Type, req.Lang),
	}
	if s.variant.CopyLink {
		view.ShareURL = ShareURL(req.BaseURL, outcome.Type)
	}
	return view, nil
}

// CardCode reduces a type code to the path segment the card route accepts: ASCII letters and
// digits only, at most eight of them. Case is kept. Nothing left yields the generic "MBTI" card.
func CardCode(code string) string {
	var b strings.Builder
	for _, c := range code {
		if b.Len() == 8 {
			break
		}
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "MBTI"
	}
	return b.String()
}

// CardURL is where the rendered share card for code is served.
func CardURL(base, code, lang string) string {
	u := strings.TrimRight(base, "/") + "/api/quiz/cards/" + CardCode(code) + ".png"
	if lang != "" {
		u += "?lang=" + url.QueryEscape(lang)
	}
	return u
}

// ShareURL is the deep link that reopens a result without scoring.
func ShareURL(base, code string) string {
	return strings.TrimRight(base, "/") + "/quiz/share?type=" + url.QueryEscape(code)
}
