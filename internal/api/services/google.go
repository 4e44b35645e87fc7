package services

import (
	"github.com/rohits-web03/filekeep/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL returns the profile of the authorized account.
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// NewGoogleOauthConfig returns nil when Google login is not configured.
func NewGoogleOauthConfig(cfg config.GoogleConfig) *oauth2.Config {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}
