package http

import (
	"encoding/json"
	"net/http"
)

// HealthHandler reports liveness. Every other endpoint speaks JSON, so this
// one does too.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
