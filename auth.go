package main

import (
	"errors"
	"fmt"
	"strings"

	"authapi/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Failure taxonomy. Handlers map these to HTTP statuses; anything else
// coming out of the service is an unexpected internal failure.
var (
	ErrDuplicateUsername  = errors.New("username taken")
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingSecret      = errors.New("signing secret not configured")
)

// AuthService implements the credential and token lifecycle on top of
// a UserStore. Both signing secrets come from configuration at
// construction; their presence is still re-checked per call so a
// misconfigured process answers 500 instead of signing with an empty
// key.
type AuthService struct {
	store         UserStore
	accessSecret  []byte
	refreshSecret []byte
	log           *zap.Logger
}

func NewAuthService(store UserStore, cfg *Config, log *zap.Logger) *AuthService {
	return &AuthService{
		store:         store,
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		log:           log,
	}
}

// Register creates a new user with a bcrypt digest of the password.
// The existence pre-check is not atomic with the insert; the unique
// index on username backstops the race.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	if _, err := s.store.FindByUsername(username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("register lookup: %w", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, HashedPassword: digest}
	if err := s.store.Create(user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// LoginResult carries everything the login response needs.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Login verifies credentials and mints an access/refresh token pair.
// Unknown username and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	if len(s.accessSecret) == 0 || len(s.refreshSecret) == 0 {
		return nil, ErrMissingSecret
	}

	user, err := s.store.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := signToken(user.ID, s.accessSecret, accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := signToken(user.ID, s.refreshSecret, refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until its own
// expiry.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if len(s.accessSecret) == 0 || len(s.refreshSecret) == 0 {
		return "", ErrMissingSecret
	}

	claims, err := parseToken(refreshToken, s.refreshSecret)
	if err != nil {
		s.log.Warn("refresh token rejected", zap.Error(err))
		return "", ErrInvalidToken
	}

	accessToken, err := signToken(claims.UserID, s.accessSecret, accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return accessToken, nil
}

// Profile returns the user for an already-authenticated identifier.
func (s *AuthService) Profile(userID string) (*models.User, error) {
	user, err := s.store.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("profile lookup: %w", err)
	}
	return user, nil
}
