package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soaringjerry/fairway/internal/middleware"
	"github.com/soaringjerry/fairway/internal/services"
	"github.com/soaringjerry/fairway/internal/utils"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.NewInvalidError("err.invalid_body", err.Error())
	}
	return nil
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorUnavailable:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps service errors onto HTTP statuses with localized messages. Anything that is not
// a ServiceError is logged and answered with a generic 500.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	locale := middleware.LocaleFromContext(r.Context())
	se, ok := services.AsServiceError(err)
	if !ok {
		if errors.Is(err, services.ErrIncompleteAnswers) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"ready": false})
			return
		}
		rt.log.Error("request_failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": utils.T(locale, "err.internal")})
		return
	}
	msg := se.Message
	if se.Key != "" {
		msg = utils.T(locale, se.Key)
	}
	switch se.Code {
	case services.ErrorUnavailable:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error":       msg,
			"unavailable": true,
			"development": true,
			"message":     utils.T(locale, "err.unavailable_detail"),
		})
		return
	case services.ErrorCodeExhausted:
		rt.log.Error("request_failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, statusFor(se.Code), map[string]string{"error": msg})
}
