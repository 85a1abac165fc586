package http

import (
	"errors"
	"log/slog"
	"net/http"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
	"employee-portal/internal/observability/middleware"
	"employee-portal/internal/service/impl"
)

var errMalformedBody = errors.New("malformed request body")

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorTable maps service errors to a status and the user facing message.
// The first matching entry wins.
var errorTable = []errorMapping{
	{errMalformedBody, http.StatusBadRequest, "Неправильний формат запиту"},

	{impl.ErrEmptyCredential, http.StatusBadRequest, "Потрібні email та пароль"},
	{impl.ErrEmptyEmail, http.StatusBadRequest, "Потрібен email для реєстрації"},
	{impl.ErrEmptyToken, http.StatusBadRequest, "Потрібні token та password"},
	{impl.ErrPasswordLength, http.StatusBadRequest, "Пароль занадто короткий"},
	{impl.ErrPasswordMismatch, http.StatusBadRequest, "Паролі не співпадають"},
	{impl.ErrEmptyStatus, http.StatusBadRequest, "Статус не може бути порожнім"},
	{impl.ErrMissingUserFields, http.StatusBadRequest, "Поля name, email та password є обов’язковими"},
	{domain.ErrTokenNotFound, http.StatusBadRequest, "Невірний токен або email"},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Невірні облікові дані"},
	{domain.ErrSessionRequired, http.StatusUnauthorized, "Потрібен токен сесії"},
	{domain.ErrSessionNotFound, http.StatusUnauthorized, "Сесію не знайдено"},
	{domain.ErrAdminRequired, http.StatusForbidden, "Доступ дозволено лише адміністраторам"},
	{domain.ErrUserNotFound, http.StatusNotFound, "Користувача не знайдено"},

	{domain.ErrEmailTaken, http.StatusConflict, "Користувач з таким email вже існує"},
	{domain.ErrTokenUsed, http.StatusConflict, "Токен уже використано"},
	{domain.ErrAccountActive, http.StatusConflict, "Користувач уже активований"},
	{domain.ErrTokenExpired, http.StatusGone, "Токен прострочений"},

	{impl.ErrMailDelivery, http.StatusInternalServerError, "Не вдалося надіслати лист із підтвердженням. Спробуйте ще раз."},
}

const internalErrorMessage = "Внутрішня помилка сервера"

func classify(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, internalErrorMessage
}

type errorWriter struct {
	expose bool
	logger *slog.Logger
}

func newErrorWriter(expose bool, logger *slog.Logger) *errorWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &errorWriter{expose: expose, logger: logger}
}

func (e *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	e.writeMessage(w, r, status, message, err)
}

// writeMessage appends err to the body only when error exposure is on.
func (e *errorWriter) writeMessage(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if status >= http.StatusInternalServerError && err != nil {
		e.logger.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	body := dto.MessageResponse{Message: message}
	if e.expose && err != nil {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}
