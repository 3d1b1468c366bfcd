package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SendResponse(w http.ResponseWriter, resp Response, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func JSONError(w http.ResponseWriter, message string, code int) {
	SendResponse(w, Response{Message: message, Status: false}, code)
}
