package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh tokens.  Only the SHA-256 hash of a
// token ever touches the database; the raw value lives client-side.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ConsumeRefresh atomically revokes a live token and returns its
// owner.  The conditional UPDATE is the whole race guard: two
// concurrent refreshes with the same token can both read it as live,
// but only one UPDATE matches, so a replayed token always fails with
// sql.ErrNoRows.
func (r *TokenRepo) ConsumeRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()",
		tokenHash)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, sql.ErrNoRows
	}
	var userID uint64
	err = r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID)
	return userID, err
}

// RevokeByHash marks a token as revoked.  Revoking an already-revoked
// or unknown token is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
