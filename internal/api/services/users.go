package services

import (
	"context"
	"fmt"

	"github.com/rohits-web03/filekeep/internal/models"
	"github.com/rohits-web03/filekeep/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// UserCreator persists a new user.
type UserCreator interface {
	Create(ctx context.Context, user *models.User) error
}

// ProvisionUser creates a user with a fresh access token. An empty password
// leaves the account usable only through Google login.
func ProvisionUser(ctx context.Context, users UserCreator, username, email, password string) (*models.User, error) {
	var hashed string
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashed = string(hash)
	}

	accessToken, err := utils.GenerateSecureToken(32) // 256-bit token
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		AccessToken: accessToken,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CheckPassword reports whether password matches the user's bcrypt hash.
func CheckPassword(user *models.User, password string) bool {
	if user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
