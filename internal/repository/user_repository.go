package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/rentcar-reservation/internal/model"
)

// UserRepo reads company staff accounts for authentication.  Accounts
// are provisioned out of band; there is no self-service signup.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `user_id, company_id, name, email, password_hash, role, created_at`

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = ? LIMIT 1`,
		email).Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE user_id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}
