package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/despesabot")
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	t.Setenv("DISCORD_CLIENT_ID", "client-id")
	t.Setenv("DISCORD_CLIENT_SECRET", "client-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3333", cfg.Server.Port)
	assert.Equal(t, "http://localhost:3333", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 168*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "GIGACHAT_API_PERS", cfg.GigaChat.Scope)
	assert.Equal(t, "info", cfg.Logger.Level)

	// The auth token is a password override, not a required credential.
	assert.Empty(t, cfg.Database.AuthToken)
}

func TestLoadBaseURLFollowsPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
}

func TestLoadExplicitBaseURLWins(t *testing.T) {
	setRequired(t)
	t.Setenv("BASE_URL", "https://despesabot.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://despesabot.example.com", cfg.Server.BaseURL)
}

func TestLoadNamesMissingVariables(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DISCORD_CLIENT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "DISCORD_CLIENT_SECRET")
	assert.NotContains(t, err.Error(), "DISCORD_BOT_TOKEN")
}
