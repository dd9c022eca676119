package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
	"github.com/PAA-LMS/lms-backend/internal/platform/tokenstore"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticator verifies the JWT the chi Verifier already parsed, rejects
// revoked tokens, and resolves the account so disabled users are cut off on
// their next request even while holding a valid token.
func Authenticator(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			revoked, err := tokenstore.IsRevoked(r.Context(), raw)
			if err != nil {
				common.RespondWithError(w, common.HTTPStatusFromError(err), "could not verify token")
				return
			}
			if revoked {
				common.RespondWithError(w, http.StatusUnauthorized, "token has been revoked")
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				// A deleted account invalidates outstanding tokens.
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
				return
			}
			if !user.IsActive {
				common.RespondWithError(w, http.StatusForbidden, common.ErrAccountDisabled.Error())
				return
			}

			p := authz.Principal{UserID: user.ID, Role: user.Role, Active: user.IsActive}
			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the principal set by Authenticator. The zero
// principal fails every guard check with an authentication error.
func PrincipalFromContext(ctx context.Context) authz.Principal {
	p, _ := ctx.Value(principalKey).(authz.Principal)
	return p
}

// AdminOnly short-circuits non-admin requests before the handler runs.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if p.Role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, common.ErrForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
