package repository

import (
	"context"
	"database/sql"

	"github.com/inkform/inkform/model"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Insert(ctx context.Context, u model.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user (username, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&id)
	return id, err
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, `WHERE username = ?`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, `WHERE email = ?`, email)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM user `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
