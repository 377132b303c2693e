package response

import (
	"encoding/json"
	"net/http"
)

// Error - тело ответа при любом отказе
type Error struct {
	Error string `json:"error"`
}

// JSON пишет v в ответ с заданным статусом
func JSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// Fail отвечает {"error": msg}
func Fail(w http.ResponseWriter, status int, msg string) {
	_ = JSON(w, status, Error{Error: msg})
}
