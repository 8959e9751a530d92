package http

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes a JSON response with the given status code and payload.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are not recoverable at this point, so we ignore the return.
	_ = json.NewEncoder(w).Encode(data)
}

// respondStorageError reports a failed store operation without leaking its cause.
func respondStorageError(w http.ResponseWriter) {
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  "STORAGE_ERROR",
	})
}

// respondInternalError reports an unexpected failure.
func respondInternalError(w http.ResponseWriter) {
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  "INTERNAL_ERROR",
	})
}
