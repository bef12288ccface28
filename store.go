package main

import (
	"errors"
	"fmt"
	"strings"

	"authapi/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by store lookups when no user matches.
var ErrNotFound = errors.New("user not found")

// ErrUsernameTaken is returned by Create when the username column's
// unique index rejects the insert.
var ErrUsernameTaken = errors.New("username already exists")

// UserStore is the persistence surface the auth service and the token
// middleware depend on. FindByUsername returns the password digest;
// callers that serialize a User rely on the model's json tags to keep
// it out of responses.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	ExistsByID(id string) (bool, error)
	Create(user *models.User) error
}

type gormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

func (s *gormUserStore) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (s *gormUserStore) ExistsByID(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return count > 0, nil
}

func (s *gormUserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) { // race with a concurrent register
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
