package middleware

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
)

// CORS allows the configured origins to call the API, including the quiz session header.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	originsOk := gorillaHandlers.AllowedOrigins(origins)
	headersOk := gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Quiz-Session", "Accept-Language"})
	methodsOk := gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	exposed := gorillaHandlers.ExposedHeaders([]string{"X-Quiz-Session"})
	return gorillaHandlers.CORS(originsOk, headersOk, methodsOk, exposed)
}
