package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/repository"
)

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock, *jwtauth.JWTAuth) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auth := jwtauth.New("HS256", []byte("test-secret"), nil)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewTokenRepository(db), auth)
	return svc, mock, auth
}

func TestRegister(t *testing.T) {
	t.Run("stores the user and returns an info object without credentials", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		mock.ExpectQuery("INSERT INTO user").
			WithArgs("frida", "frida@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
				AddRow(3, "frida", "frida@example.com", "$2a$10$hash", time.Now()))

		user, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "frida",
			Email:    "frida@example.com",
			Password: "correct horse",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
		assert.Equal(t, "frida", user.Username)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username or email fails with Conflict", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		mock.ExpectQuery("INSERT INTO user").
			WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Username: "frida",
			Email:    "frida@example.com",
			Password: "correct horse",
		})
		assert.True(t, fault.IsKind(err, fault.Conflict))
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("issues an access and a refresh token", func(t *testing.T) {
		svc, mock, auth := newUserService(t)

		mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
			WithArgs("frida").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
				AddRow(3, "frida", "frida@example.com", string(hash), time.Now()))
		mock.ExpectExec("INSERT INTO refresh_token").
			WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tokens, err := svc.Login(context.Background(), model.LoginRequest{Username: "frida", Password: "correct horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, int64(900), tokens.ExpiresIn)

		token, err := auth.Decode(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "3", token.Subject())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("the email address works as identifier too", func(t *testing.T) {
		svc, mock, auth := newUserService(t)

		mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
			WithArgs("frida@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
			WithArgs("frida@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
				AddRow(3, "frida", "frida@example.com", string(hash), time.Now()))
		mock.ExpectExec("INSERT INTO refresh_token").
			WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tokens, err := svc.Login(context.Background(), model.LoginRequest{Username: "frida@example.com", Password: "correct horse"})
		require.NoError(t, err)

		token, err := auth.Decode(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "3", token.Subject())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password fails with Unauthorized", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
			WithArgs("frida").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
				AddRow(3, "frida", "frida@example.com", string(hash), time.Now()))

		_, err := svc.Login(context.Background(), model.LoginRequest{Username: "frida", Password: "wrong"})
		assert.True(t, fault.IsKind(err, fault.Unauthorized))
	})

	t.Run("unknown user fails with Unauthorized, not NotFound", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		mock.ExpectQuery("SELECT id, username, email, password_hash, created_at").
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)

		_, err := svc.Login(context.Background(), model.LoginRequest{Username: "nobody", Password: "x"})
		assert.True(t, fault.IsKind(err, fault.Unauthorized))
	})
}

func TestRefresh(t *testing.T) {
	t.Run("rotates the refresh token and issues a new pair", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		presented := "some-refresh-token"
		mock.ExpectQuery("SELECT id, user_id, token_hash, expires_at").
			WithArgs(hashToken(presented)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at"}).
				AddRow(1, 3, hashToken(presented), time.Now().Add(time.Hour)))
		mock.ExpectExec("DELETE FROM refresh_token").
			WithArgs(hashToken(presented)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO refresh_token").
			WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))

		tokens, err := svc.Refresh(context.Background(), presented)
		require.NoError(t, err)
		assert.NotEqual(t, presented, tokens.RefreshToken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired token is dropped and rejected", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		presented := "stale-token"
		mock.ExpectQuery("SELECT id, user_id, token_hash, expires_at").
			WithArgs(hashToken(presented)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at"}).
				AddRow(1, 3, hashToken(presented), time.Now().Add(-time.Hour)))
		mock.ExpectExec("DELETE FROM refresh_token").
			WithArgs(hashToken(presented)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := svc.Refresh(context.Background(), presented)
		assert.True(t, fault.IsKind(err, fault.Unauthorized))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token fails with Unauthorized", func(t *testing.T) {
		svc, mock, _ := newUserService(t)

		mock.ExpectQuery("SELECT id, user_id, token_hash, expires_at").
			WillReturnError(sql.ErrNoRows)

		_, err := svc.Refresh(context.Background(), "forged")
		assert.True(t, fault.IsKind(err, fault.Unauthorized))
	})
}
