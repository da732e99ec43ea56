package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"Gallerist/internal/media"
	"Gallerist/internal/response"
	"Gallerist/internal/service"

	"go.uber.org/zap"
)

// statusFor сопоставляет вид ошибки сервиса с HTTP статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError пишет ошибку сервиса. Для неожиданных ошибок клиент получает fallback,
// а текст ошибки — только вне production.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, detail bool, err error, fallback string) {
	status := statusFor(err)
	if msg, ok := service.Message(err); ok && status != http.StatusInternalServerError {
		response.Fail(w, status, msg)
		return
	}
	if errors.Is(err, media.ErrUpload) || errors.Is(err, media.ErrDelete) {
		logger.Warnw(fallback, "error", err)
	} else {
		logger.Errorw(fallback, "error", err)
	}
	response.FailDetail(w, status, fallback, err, detail)
}

// decodeJSON читает JSON тело; пустое тело трактуется как пустой объект.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
