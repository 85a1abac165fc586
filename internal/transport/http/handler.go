package http

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
	"employee-portal/internal/service"
)

const logoutMessage = "Сесію завершено"

var adminUserPath = regexp.MustCompile(`^/api/admin/users/(\d+)$`)

// HealthFunc reports the database name, or an error when the store is
// unreachable.
type HealthFunc func(ctx context.Context) (string, error)

type Handler struct {
	auth         service.AuthService
	registration service.RegistrationService
	users        service.UserService
	guard        *Guard
	errs         *errorWriter
	health       HealthFunc
}

// Routes is the dispatch table. Order matters: the first match wins.
func (h *Handler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/health", Handler: h.getHealth},

		{Method: http.MethodPost, Path: "/api/auth/login", Handler: h.login},
		{Method: http.MethodPost, Path: "/api/auth/register-request", Handler: h.registerRequest},
		{Method: http.MethodPost, Path: "/api/auth/complete-registration", Handler: h.completeRegistration},
		{Method: http.MethodPost, Path: "/api/auth/logout", Handler: h.logout},

		{Method: http.MethodGet, Path: "/api/profile", Handler: h.getProfile},
		{Method: http.MethodPost, Path: "/api/profile/status", Handler: h.updateProfileStatus},

		{Method: http.MethodGet, Path: "/api/admin/overview", RequireAdmin: true, Handler: h.adminOverview},
		{Method: http.MethodGet, Path: "/api/admin/users", RequireAdmin: true, Handler: h.adminListUsers},
		{Method: http.MethodPost, Path: "/api/admin/users", RequireAdmin: true, Handler: h.adminCreateUser},
		{Method: http.MethodPut, Pattern: adminUserPath, RequireAdmin: true, Handler: h.adminUpdateUser},
		{Method: http.MethodDelete, Pattern: adminUserPath, RequireAdmin: true, Handler: h.adminDeleteUser},
	}
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request, _ []string) {
	name, err := h.health(r.Context())
	if err != nil {
		h.errs.logger.ErrorContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Database: name})
		return
	}
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Database: name})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, _ []string) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) registerRequest(w http.ResponseWriter, r *http.Request, _ []string) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	res, err := h.registration.Request(r.Context(), req)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) completeRegistration(w http.ResponseWriter, r *http.Request, _ []string) {
	var req dto.CompleteRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	res, err := h.registration.Complete(r.Context(), req)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request, _ []string) {
	var req dto.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	revoked, err := h.auth.Logout(r.Context(), req.Token)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LogoutResponse{Message: logoutMessage, Revoked: revoked})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request, _ []string) {
	user, _, ok := h.guard.RequireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

func (h *Handler) updateProfileStatus(w http.ResponseWriter, r *http.Request, _ []string) {
	user, _, ok := h.guard.RequireUser(w, r)
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	res, err := h.users.UpdateStatus(r.Context(), user.ID, req.Status)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adminOverview(w http.ResponseWriter, r *http.Request, _ []string) {
	res, err := h.users.Overview(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request, _ []string) {
	res, err := h.users.List(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adminCreateUser(w http.ResponseWriter, r *http.Request, _ []string) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	res, err := h.users.Create(r.Context(), req)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) adminUpdateUser(w http.ResponseWriter, r *http.Request, params []string) {
	id, ok := h.userID(w, r, params)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	res, err := h.users.Update(r.Context(), id, req)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adminDeleteUser(w http.ResponseWriter, r *http.Request, params []string) {
	id, ok := h.userID(w, r, params)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: true})
}

// userID coerces the captured path segment; an id that does not fit is
// reported as an unknown user.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request, params []string) (domain.UserID, bool) {
	if len(params) != 1 {
		h.errs.write(w, r, domain.ErrUserNotFound)
		return 0, false
	}
	id, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil {
		h.errs.write(w, r, domain.ErrUserNotFound)
		return 0, false
	}
	return id, true
}
