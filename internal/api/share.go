package api

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/soaringjerry/fairway/internal/middleware"
	"github.com/soaringjerry/fairway/internal/services"
)

var sharePage = template.Must(template.New("share").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<meta property="og:type" content="website">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:image" content="{{.ImageURL}}">
<meta property="og:image:width" content="1200">
<meta property="og:image:height" content="630">
<meta property="og:url" content="{{.PageURL}}">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:description" content="{{.Description}}">
<meta name="twitter:image" content="{{.ImageURL}}">
</head>
<body>
<main>
<h1>{{.Type}}</h1>
<p>{{.Description}}</p>
<img src="{{.ImageURL}}" alt="{{.Title}}" width="600" height="315">
<p><a href="{{.QuizURL}}">{{.Cta}}</a></p>
</main>
</body>
</html>
`))

type sharePageData struct {
	Lang        string
	Type        string
	Title       string
	Description string
	ImageURL    string
	PageURL     string
	QuizURL     string
	Cta         string
}

// handleSharePage serves a static page whose metadata tags describe a shared result.
func (rt *Router) handleSharePage(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LocaleFromContext(r.Context())
	code := strings.TrimSpace(r.URL.Query().Get("type"))
	base := rt.baseURL(r)
	meta, _ := services.MetaFor(code, lang)

	data := sharePageData{
		Lang:        lang,
		Type:        code,
		Title:       services.ShareTitle(code, meta, lang),
		Description: meta.Subtitle,
		ImageURL:    services.CardURL(base, code, lang),
		PageURL:     services.ShareURL(base, code),
		QuizURL:     base + "/quiz",
		Cta:         "나도 테스트하기",
	}
	if lang == "en" {
		data.Cta = "Take the quiz"
	}
	if code == "" {
		data.Title = meta.Title
	}

	var buf bytes.Buffer
	if err := sharePage.Execute(&buf, data); err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
