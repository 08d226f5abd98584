package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"
	"quizverse_backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLength  = 32
	saltLength       = 16

	tokenLifetime = 24 * time.Hour
)

type AuthService interface {
	// SignUp creates a new account; duplicate username or email returns
	// apperror.ErrConflict.
	SignUp(ctx context.Context, username, email, password string) (*entity.User, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID uint) error
}

type authService struct {
	users     repository.UserRepository
	missions  repository.MissionRepository
	presence  *PresenceTracker
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepository, missions repository.MissionRepository, presence *PresenceTracker, jwtSecret string) AuthService {
	return &authService{
		users:     users,
		missions:  missions,
		presence:  presence,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) SignUp(ctx context.Context, username, email, password string) (*entity.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already in use", apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hash, salt, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Every mission template starts tracking for the new user right away.
	if err := s.missions.AssignAll(ctx, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", nil, apperror.ErrUnauthorized
	}
	if err != nil {
		return "", nil, err
	}

	if !verifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		return "", nil, apperror.ErrUnauthorized
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLoginAt = &now
	s.presence.Register(user.ID)

	token, err := s.issueToken(user.ID, now)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !verifyPassword(oldPassword, user.PasswordHash, user.PasswordSalt) {
		return apperror.ErrUnauthorized
	}

	hash, salt, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt
	return s.users.Update(ctx, user)
}

func (s *authService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.presence.Remove(userID)
	return nil
}

func (s *authService) issueToken(userID uint, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func hashPassword(password string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltLength)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", err
	}

	key := pbkdf2.Key([]byte(password), rawSalt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key), base64.StdEncoding.EncodeToString(rawSalt), nil
}

func verifyPassword(password, encodedHash, encodedSalt string) bool {
	hash, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(encodedSalt)
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hmac.Equal(hash, key)
}
