// Package auth validates bearer tokens into user identities. Both the
// REST middleware and the websocket handshake go through it; the upgrade
// path is not covered by request middleware and must validate on its own.
package auth

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/sourcefab/rfq-hub-go/internal/errors"
	"github.com/sourcefab/rfq-hub-go/internal/model"
	"github.com/sourcefab/rfq-hub-go/internal/repository"
	"github.com/sourcefab/rfq-hub-go/internal/util"
)

type TokenValidator struct {
	users repository.UserRepository
}

func NewTokenValidator(users repository.UserRepository) *TokenValidator {
	return &TokenValidator{users: users}
}

// Validate resolves a bearer token to the user it belongs to, including
// the display identity used for chat composition.
func (v *TokenValidator) Validate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Missing authentication token")
	}

	user, err := v.users.FindByTokenHash(ctx, util.HashToken(token))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.InvalidToken("Invalid or expired token")
	}

	return user, nil
}

// ExtractToken pulls the bearer credential from a request: query
// parameter first (browsers cannot set headers on websocket upgrades),
// then the Authorization header.
func ExtractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
