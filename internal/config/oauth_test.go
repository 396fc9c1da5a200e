package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOAuthClient = `{
  "installed": {
    "client_id": "client-id.apps.googleusercontent.com",
    "project_id": "seat-allocator",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestLoadOAuthClientFromPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "oauthClient.json", validOAuthClient)

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "client-id.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, []string{"http://localhost"}, cfg.Installed.RedirectURIs)
}

func TestLoadOAuthClientFromPath_MissingFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "oauthClient.json", `{"installed": {"client_id": "id"}}`)

	_, err := LoadOAuthClientFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth client validation failed")
}

func TestLoadOAuthClientWithEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	writeFile(t, dir, "oauthClient.prod.json", validOAuthClient)

	cfg, err := LoadOAuthClientWithEnv("prod")
	require.NoError(t, err)
	assert.Equal(t, "seat-allocator", cfg.Installed.ProjectID)

	_, err = LoadOAuthClientWithEnv("test")
	assert.Error(t, err)
}
