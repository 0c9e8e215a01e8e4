package sim

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON error payload, matching the backend's wire shape.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeError writes a JSON error payload with the given status code.
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: detail})
}

// writeJSON writes a JSON success payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
