package api

import (
	"encoding/json"
	"net/http"
)

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// sendError writes the {"detail": ...} error body the API uses everywhere.
func sendError(w http.ResponseWriter, detail string, status int) {
	sendJSON(w, status, map[string]string{"detail": detail})
}

// sendFieldErrors writes a per-field validation error body, one message
// list per offending field.
func sendFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	sendJSON(w, http.StatusBadRequest, fields)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, "Некорректное тело запроса.", http.StatusBadRequest)
		return false
	}
	return true
}
