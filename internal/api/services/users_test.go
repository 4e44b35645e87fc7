package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rohits-web03/filekeep/internal/config"
	"github.com/rohits-web03/filekeep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	created []*models.User
	err     error
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, u)
	return nil
}

func TestProvisionUser(t *testing.T) {
	users := &memUsers{}
	u, err := ProvisionUser(context.Background(), users, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Len(t, users.created, 1)

	assert.NotEmpty(t, u.AccessToken)
	assert.NotEqual(t, "s3cret", u.Password)
	assert.True(t, CheckPassword(u, "s3cret"))
	assert.False(t, CheckPassword(u, "wrong"))

	other, err := ProvisionUser(context.Background(), users, "bob", "bob@example.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, u.AccessToken, other.AccessToken)
	assert.False(t, CheckPassword(other, ""), "passwordless accounts cannot log in with a password")
}

func TestProvisionUserCreateError(t *testing.T) {
	users := &memUsers{err: errors.New("duplicate key")}
	_, err := ProvisionUser(context.Background(), users, "alice", "alice@example.com", "pw")
	assert.EqualError(t, err, "duplicate key")
}

func TestNewGoogleOauthConfig(t *testing.T) {
	assert.Nil(t, NewGoogleOauthConfig(config.GoogleConfig{}))

	cfg := NewGoogleOauthConfig(config.GoogleConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost/cb", cfg.RedirectURL)
	assert.Len(t, cfg.Scopes, 2)
}
