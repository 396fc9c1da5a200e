package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/smartagri/seat-allocator/internal/config"
)

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, MissingScopes("openid "+ScopeGmailSend))
	assert.Equal(t, []string{ScopeGmailSend}, MissingScopes("openid email"))
	assert.Equal(t, []string{ScopeGmailSend}, MissingScopes(""))
}

func TestTokenFileRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	token, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	stored := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, SaveTokenToFile("test", stored))

	loaded, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	require.NoError(t, DeleteTokenFile("test"))
	require.NoError(t, DeleteTokenFile("test"))

	loaded, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestGetOAuthConfig(t *testing.T) {
	cfg := &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client-id",
			ProjectID:               "project",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "client-id", oauthConfig.ClientID)
	assert.Equal(t, []string{ScopeGmailSend}, oauthConfig.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
}
