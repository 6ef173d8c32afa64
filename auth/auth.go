// Package auth implements registration, login and HS256 token handling. The
// username claim is what the review-edit authorization check compares against.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/models"
	"github.com/dealerhub/dealership-backend/repositories"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// the response does not reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and validates tokens against the users collection.
type Service struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewService requires a non-empty signing secret.
func NewService(users repositories.UserRepository, secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{users: users, secret: []byte(secret), ttl: ttl}, nil
}

// Register hashes the password, stores the user and returns a fresh token.
func (s *Service) Register(ctx context.Context, p models.RegisterPayload) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, models.User{
		Username:     p.Username,
		PasswordHash: string(hash),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.issue(user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the password and returns a fresh token.
func (s *Service) Login(ctx context.Context, p models.LoginPayload) (*models.User, string, error) {
	user, err := s.users.ByUsername(ctx, p.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(p.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issue(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning the username it was
// issued for.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
