package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "movilidad/internal/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// StatusFor maps an application error code to an HTTP status
func StatusFor(code string) int {
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeUnknownTarget, apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeAssetUnavailable, apperrors.CodeModelUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if !apperrors.IsAppError(err) {
		code = apperrors.CodeInternalError
	}
	status := StatusFor(code)

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code == apperrors.CodeModelUnavailable {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("%s: %v", code, err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
