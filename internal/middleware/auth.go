package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sourcefab/rfq-hub-go/internal/audit"
	"github.com/sourcefab/rfq-hub-go/internal/auth"
	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
	"github.com/sourcefab/rfq-hub-go/internal/httputil"
	"github.com/sourcefab/rfq-hub-go/internal/model"
)

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserContextKey).(*model.User); ok {
		return user
	}
	return nil
}

type AuthMiddleware struct {
	validator *auth.TokenValidator
}

func NewAuthMiddleware(validator *auth.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractToken(r)
		user, err := m.validator.Validate(r.Context(), token)
		if err != nil {
			if apperrors.GetCode(err) == apperrors.ErrCodeDatabase {
				log.Error().Err(err).Msg("auth middleware: database error")
			} else {
				audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			}
			httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
