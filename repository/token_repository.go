package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkform/inkform/model"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Insert(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_token (user_id, token_hash, expires_at)
		VALUES (?, ?, ?)`,
		userID, tokenHash, expiresAt,
	)
	return err
}

func (r *TokenRepository) FindByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at
		FROM refresh_token
		WHERE token_hash = ?`,
		tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt)
	return t, err
}

func (r *TokenRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_token
		WHERE token_hash = ?`,
		tokenHash,
	)
	return err
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_token
		WHERE user_id = ?`,
		userID,
	)
	return err
}
