package repository

import (
	"context"

	"github.com/sourcefab/rfq-hub-go/internal/database"
	"github.com/sourcefab/rfq-hub-go/internal/model"
)

type UserRepository interface {
	// FindByTokenHash resolves a hashed bearer token to the user it was
	// issued to, skipping expired tokens. Returns nil without error when
	// the token is unknown.
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type userRepo struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT u.id, u.full_name, u.company_id, c.company_type, c.name AS company_name
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		JOIN companies c ON c.id = u.company_id
		WHERE t.token_hash = $1 AND t.expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT u.id, u.full_name, u.company_id, c.company_type, c.name AS company_name
		FROM users u
		JOIN companies c ON c.id = u.company_id
		WHERE u.id = $1
	`, id)
	return HandleNotFound(&user, err)
}
