package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON encodes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes an ErrorBody.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, ErrorBody{Detail: detail})
}
