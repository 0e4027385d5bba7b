package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"debt-planner/logging"
	"debt-planner/service"
)

const maxBodyBytes = 1 << 20

var errUnsupportedMedia = errors.New("content type must be application/json")

type errorResponse struct {
	Error string `json:"error"`
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return errUnsupportedMedia
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeJSON encodes into a buffer first so an encoding failure never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, log logging.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error("failed to encode response", logging.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn("failed to write response", logging.Err(err))
	}
}

func writeError(w http.ResponseWriter, log logging.Logger, err error) {
	switch {
	case errors.Is(err, errUnsupportedMedia):
		writeJSON(w, log, http.StatusUnsupportedMediaType, errorResponse{Error: err.Error()})
	case service.IsBadRequest(err):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", logging.Err(err))
		writeJSON(w, log, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, log logging.Logger, err error) {
	if errors.Is(err, errUnsupportedMedia) {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
