package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/domain"
)

type errorPayload struct {
	Message string `json:"message"`
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthFailure), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCatalog),
		errors.Is(err, domain.ErrTopicExhausted),
		errors.Is(err, domain.ErrEndlessLocked):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failures from clients.
func publicMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorPayload{Message: publicMessage(err)})
}
