package http

import "net/http"

// NotFoundHandler is the fallback route. It keeps 404s in the same JSON
// envelope as every other error.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}
