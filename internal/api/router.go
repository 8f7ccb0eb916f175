package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/soaringjerry/fairway/internal/logger"
	"github.com/soaringjerry/fairway/internal/middleware"
	"github.com/soaringjerry/fairway/internal/services"
	"github.com/soaringjerry/fairway/internal/utils"
)

type Options struct {
	Quiz         *services.QuizService
	Cards        *services.CardRenderer
	Reservations *services.ReservationService
	Admin        *services.AdminService
	Auth         *middleware.Authority
	Log          *logger.Logger
	// PublicURL is the externally visible origin used in share links. When empty it is derived
	// from the request.
	PublicURL string
	Commit    string
	BuildTime string
	// Frontend, when set, handles every path the API does not.
	Frontend http.Handler
}

type Router struct {
	quiz         *services.QuizService
	cards        *services.CardRenderer
	reservations *services.ReservationService
	admin        *services.AdminService
	auth         *middleware.Authority
	log          *logger.Logger
	publicURL    string
	commit       string
	buildTime    string
	frontend     http.Handler
}

func NewRouter(opts Options) *Router {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Router{
		quiz:         opts.Quiz,
		cards:        opts.Cards,
		reservations: opts.Reservations,
		admin:        opts.Admin,
		auth:         opts.Auth,
		log:          log.With("component", "api"),
		publicURL:    strings.TrimRight(opts.PublicURL, "/"),
		commit:       opts.Commit,
		buildTime:    opts.BuildTime,
		frontend:     opts.Frontend,
	}
}

// Register mounts every route on r.
func (rt *Router) Register(r *mux.Router) {
	r.HandleFunc("/health", rt.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", rt.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/quiz/share", rt.handleSharePage).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.NoStore)

	apiRouter.HandleFunc("/quiz/config", rt.handleQuizConfig).Methods(http.MethodGet)
	apiRouter.HandleFunc("/quiz/pages/{page:[0-9]+}", rt.handleQuizPage).Methods(http.MethodGet)
	apiRouter.HandleFunc("/quiz/answers/{questionId:[0-9]+}", rt.handleSetAnswer).Methods(http.MethodPut)
	apiRouter.HandleFunc("/quiz/answers", rt.handleResetAnswers).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/quiz/result", rt.handleQuizResult).Methods(http.MethodGet)
	apiRouter.HandleFunc("/quiz/cards/{type:[A-Za-z0-9]{1,8}}.png", rt.handleCard).Methods(http.MethodGet)

	apiRouter.HandleFunc("/hotels", rt.handleListHotels).Methods(http.MethodGet)
	apiRouter.HandleFunc("/hotels/{id}", rt.handleGetHotel).Methods(http.MethodGet)
	apiRouter.HandleFunc("/reservations/availability", rt.handleAvailability).Methods(http.MethodGet)
	apiRouter.HandleFunc("/reservations", rt.handleCreateReservation).Methods(http.MethodPost)
	apiRouter.HandleFunc("/reservations/{code}", rt.handleGetReservation).Methods(http.MethodGet)

	apiRouter.HandleFunc("/admin/login", rt.handleAdminLogin).Methods(http.MethodPost)
	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(rt.auth.WithAuth, middleware.RequireAdmin)
	adminRouter.HandleFunc("/reservations/{code}/payment", rt.handleSetPayment).Methods(http.MethodPut)
	adminRouter.HandleFunc("/reservations/{code}/{action:cancel|check-in|check-out}", rt.handleTransition).Methods(http.MethodPost)
	adminRouter.HandleFunc("/room-types/{id}/prices", rt.handleUpsertPrices).Methods(http.MethodPut)

	if rt.frontend != nil {
		r.PathPrefix("/").Handler(rt.frontend)
	}
}

// Handler builds the full middleware chain around a fresh router.
func (rt *Router) Handler(corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	rt.Register(r)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	var h http.Handler = r
	h = middleware.LocaleMiddleware(h)
	h = middleware.SecureHeaders(h)
	h = middleware.CORS(corsOrigins)(h)
	h = middleware.Recover(rt.log)(h)
	h = middleware.RequestLogger(rt.log)(h)
	return h
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"name":       "Fairway API",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

// baseURL is the origin used for absolute share and card links.
func (rt *Router) baseURL(r *http.Request) string {
	if rt.publicURL != "" {
		return rt.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
