package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/soaringjerry/fairway/internal/middleware"
	"github.com/soaringjerry/fairway/internal/services"
)

const (
	sessionHeader = "X-Quiz-Session"
	sessionCookie = "quiz_session"
	sessionMaxAge = 30 * 24 * 60 * 60
)

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// quizSession returns the caller's session id, issuing one when the request carries none. The id
// is echoed in both the header and the cookie so either client style can keep it.
func quizSession(w http.ResponseWriter, r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(sessionHeader))
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	if !sessionPattern.MatchString(id) {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
	}
	w.Header().Set(sessionHeader, id)
	return id
}

func (rt *Router) handleQuizConfig(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, rt.quiz.Config(locale))
}

func (rt *Router) handleQuizPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		rt.writeError(w, r, services.NewInvalidError("err.missing_params", "invalid page"))
		return
	}
	session := quizSession(w, r)
	view, err := rt.quiz.Page(r.Context(), session, page, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type setAnswerRequest struct {
	Pick int `json:"pick"`
}

func (rt *Router) handleSetAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.Atoi(mux.Vars(r)["questionId"])
	if err != nil {
		rt.writeError(w, r, services.NewInvalidError("err.unknown_question", "unknown question id"))
		return
	}
	var req setAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	session := quizSession(w, r)
	progress, err := rt.quiz.SetAnswer(r.Context(), session, questionID, req.Pick)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (rt *Router) handleResetAnswers(w http.ResponseWriter, r *http.Request) {
	session := quizSession(w, r)
	if err := rt.quiz.Reset(r.Context(), session); err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (rt *Router) handleQuizResult(w http.ResponseWriter, r *http.Request) {
	req := services.ResultRequest{
		SharedType: strings.TrimSpace(r.URL.Query().Get("type")),
		Lang:       middleware.LocaleFromContext(r.Context()),
		BaseURL:    rt.baseURL(r),
	}
	if req.SharedType == "" {
		req.Session = quizSession(w, r)
	}
	view, err := rt.quiz.Result(r.Context(), req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) handleCard(w http.ResponseWriter, r *http.Request) {
	card := rt.cards.CardFor(mux.Vars(r)["type"], middleware.LocaleFromContext(r.Context()))
	png, err := rt.cards.RenderPNG(r.Context(), card)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	middleware.PublicCache(w.Header(), 24*time.Hour)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
