package middleware

import (
	"fmt"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"

	"github.com/soaringjerry/fairway/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogger logs one line per request. Server errors log at error level.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			kv := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if rec.status >= http.StatusInternalServerError {
				log.Error("http_request", kv...)
				return
			}
			log.Info("http_request", kv...)
		})
	}
}

type recoveryLogger struct {
	log *logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("panic_recovered", "detail", fmt.Sprint(v...))
}

// Recover turns handler panics into 500 responses and logs them.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{log: log}),
		gorillaHandlers.PrintRecoveryStack(false),
	)
}
