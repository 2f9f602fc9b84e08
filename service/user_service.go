package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkform/inkform/database"
	"github.com/inkform/inkform/fault"
	"github.com/inkform/inkform/model"
	"github.com/inkform/inkform/repository"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type UserService struct {
	users  *repository.UserRepository
	tokens *repository.TokenRepository
	auth   *jwtauth.JWTAuth
}

func NewUserService(users *repository.UserRepository, tokens *repository.TokenRepository, auth *jwtauth.JWTAuth) *UserService {
	return &UserService{users: users, tokens: tokens, auth: auth}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.UserInfo, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserInfo{}, fault.Wrap(fault.Storage, "hash password", err)
	}

	id, err := s.users.Insert(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if database.IsUniqueViolation(err) {
		return model.UserInfo{}, fault.New(fault.Conflict, "username or email already taken")
	}
	if err != nil {
		return model.UserInfo{}, fault.Wrap(fault.Storage, "create user", err)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserInfo{}, fault.Wrap(fault.Storage, "load user", err)
	}
	return model.ToUserInfo(user), nil
}

// Login accepts either the username or the email address as identifier.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (model.AuthTokens, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if errors.Is(err, sql.ErrNoRows) && strings.Contains(req.Username, "@") {
		user, err = s.users.FindByEmail(ctx, req.Username)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.AuthTokens{}, fault.New(fault.Unauthorized, "invalid credentials")
	}
	if err != nil {
		return model.AuthTokens{}, fault.Wrap(fault.Storage, "load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.AuthTokens{}, fault.New(fault.Unauthorized, "invalid credentials")
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh trades a live refresh token for a new token pair. Refresh tokens
// are single use: the presented one is revoked as part of the exchange.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (model.AuthTokens, error) {
	tokenHash := hashToken(refreshToken)

	stored, err := s.tokens.FindByHash(ctx, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AuthTokens{}, fault.New(fault.Unauthorized, "invalid refresh token")
	}
	if err != nil {
		return model.AuthTokens{}, fault.Wrap(fault.Storage, "load refresh token", err)
	}

	if stored.ExpiresAt.Before(time.Now()) {
		if err := s.tokens.DeleteByHash(ctx, tokenHash); err != nil {
			return model.AuthTokens{}, fault.Wrap(fault.Storage, "drop expired refresh token", err)
		}
		return model.AuthTokens{}, fault.New(fault.Unauthorized, "refresh token expired")
	}

	if err := s.tokens.DeleteByHash(ctx, tokenHash); err != nil {
		return model.AuthTokens{}, fault.Wrap(fault.Storage, "revoke refresh token", err)
	}

	return s.issueTokens(ctx, stored.UserID)
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.DeleteByHash(ctx, hashToken(refreshToken)); err != nil {
		return fault.Wrap(fault.Storage, "revoke refresh token", err)
	}
	return nil
}

func (s *UserService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return fault.Wrap(fault.Storage, "revoke refresh tokens", err)
	}
	return nil
}

func (s *UserService) issueTokens(ctx context.Context, userID int64) (model.AuthTokens, error) {
	claims := map[string]any{"sub": strconv.FormatInt(userID, 10)}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, accessTokenTTL)

	_, accessToken, err := s.auth.Encode(claims)
	if err != nil {
		return model.AuthTokens{}, fault.Wrap(fault.Storage, "sign access token", err)
	}

	refreshToken := uuid.NewString()
	err = s.tokens.Insert(ctx, userID, hashToken(refreshToken), time.Now().Add(refreshTokenTTL))
	if err != nil {
		return model.AuthTokens{}, fault.Wrap(fault.Storage, "store refresh token", err)
	}

	return model.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

// only the hash of a refresh token ever touches the store
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
