package handler

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// Logout denylists the presented token. Runs behind the Verifier so the
// claims are already parsed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		respondError(w, common.ErrUnauthenticated)
		return
	}
	expiry, err := security.GetExpiryFromClaims(claims)
	if err != nil {
		respondError(w, common.ErrUnauthenticated)
		return
	}
	raw := jwtauth.TokenFromHeader(r)
	if err := h.auth.Logout(r.Context(), raw, expiry); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
