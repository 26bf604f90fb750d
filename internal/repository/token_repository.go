package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo stores hashed refresh tokens so sessions can be revoked
// server side.  Only the SHA-256 hash of the opaque token is persisted.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a refresh token hash for the user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt.UTC().Format(dbTime))
	return err
}

// ValidateRefresh returns the owning user id when the hash is known,
// not revoked and not expired; otherwise sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM refresh_tokens WHERE token_hash=? AND revoked=0 AND expires_at > UTC_TIMESTAMP() LIMIT 1",
		tokenHash).Scan(&userID)
	return userID, err
}

// RevokeByHash marks a single refresh token as revoked (logout).
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=?", tokenHash)
	return err
}

// RevokeAllForUser invalidates every session of the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE user_id=?", userID)
	return err
}
