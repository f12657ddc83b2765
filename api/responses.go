package api

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
	// Message carries provider diagnostics through verbatim on 5xx responses.
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}

func writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errMsg})
}

func writeErrorWithMessage(w http.ResponseWriter, statusCode int, errMsg string, message string) {
	writeJSON(w, statusCode, errorResponse{Error: errMsg, Message: message})
}
