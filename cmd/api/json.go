package main

import (
	"encoding/json"
	"net/http"

	"mytreviews/internal/reviews"
)

// envelope wraps every response body.
type envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    any                  `json:"data,omitempty"`
	Errors  []reviews.FieldError `json:"errors,omitempty"`
	Error   any                  `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	return decodeBody(w, r, data, true)
}

// readLooseJSON is readJSON without the unknown-field check.
func readLooseJSON(w http.ResponseWriter, r *http.Request, data any) error {
	return decodeBody(w, r, data, false)
}

func decodeBody(w http.ResponseWriter, r *http.Request, data any, strict bool) error {
	maxBytes := 10 << 20 // 10mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &envelope{
		Success: false,
		Message: message,
	})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, message string, data any) error {
	return writeJSON(w, status, &envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}
