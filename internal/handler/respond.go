package handler

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages. Failures are always reported with one of these
// generic messages; internal error detail is only ever logged.
const (
	msgServerError = "Sunucu Hatası"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, MessageResponse{Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
