package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PAA-LMS/lms-backend/internal/api/middleware"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	var role *model.Role
	if v := r.URL.Query().Get("role"); v != "" {
		rv := model.Role(v)
		role = &rv
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.users.AdminList(r.Context(), p, role, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.AdminCreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.AdminCreate(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.AdminSetActive(r.Context(), p, chi.URLParam(r, "userID"), req.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.users.AdminDelete(r.Context(), p, chi.URLParam(r, "userID")); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
