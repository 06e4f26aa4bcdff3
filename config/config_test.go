package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-admin-auth/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_AUTH_SIGNING_KEY", "s3cr3t")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.GetSigningKey())
	assert.Equal(t, 24, cfg.GetTokenExpiration())
	assert.Equal(t, "go-admin-auth", cfg.GetIssuer())
	assert.Equal(t, 10, cfg.GetBcryptCost())
	assert.Equal(t, "US", cfg.GetPhoneRegion())
	assert.Equal(t, "user", cfg.GetContextKey())
	assert.Equal(t, "header:Authorization", cfg.GetTokenLookup())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
	assert.Empty(t, cfg.GetPreviousSigningKey())
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	assert.Equal(t, ":50051", cfg.GRPC.Address)
	assert.Equal(t, "file:admin.db?cache=shared", cfg.DB.DSN)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_AUTH_SIGNING_KEY", "new")
	t.Setenv("ADMIN_AUTH_PREVIOUS_SIGNING_KEY", "old")
	t.Setenv("ADMIN_AUTH_TOKEN_TTL_HOURS", "12")
	t.Setenv("ADMIN_AUTH_BCRYPT_COST", "12")
	t.Setenv("ADMIN_HTTP_ADDRESS", ":9090")
	t.Setenv("ADMIN_DEBUG", "true")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "old", cfg.GetPreviousSigningKey())
	assert.Equal(t, 12, cfg.GetTokenExpiration())
	assert.Equal(t, 12, cfg.GetBcryptCost())
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.True(t, cfg.Debug)
}

func TestLoadFromDotEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte("ADMIN_AUTH_SIGNING_KEY=from-file\nADMIN_AUTH_PHONE_REGION=GB\n"), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("ADMIN_AUTH_SIGNING_KEY")
		os.Unsetenv("ADMIN_AUTH_PHONE_REGION")
	})

	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GetSigningKey())
	assert.Equal(t, "GB", cfg.GetPhoneRegion())
}

func TestLoadFailsWithoutSigningKey(t *testing.T) {
	t.Setenv("ADMIN_AUTH_SIGNING_KEY", "")

	_, err := config.Load(noEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Auth: config.AuthConfig{SigningKey: "k", TokenTTLHours: 24, BcryptCost: 10, ContextKey: "user"},
			HTTP: config.HTTPConfig{Address: ":8080"},
			GRPC: config.GRPCConfig{Address: ":50051"},
			DB:   config.DBConfig{DSN: "file::memory:"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no signing key", func(c *config.Config) { c.Auth.SigningKey = "" }},
		{"zero ttl", func(c *config.Config) { c.Auth.TokenTTLHours = 0 }},
		{"bcrypt cost too low", func(c *config.Config) { c.Auth.BcryptCost = 1 }},
		{"bcrypt cost too high", func(c *config.Config) { c.Auth.BcryptCost = 99 }},
		{"no dsn", func(c *config.Config) { c.DB.DSN = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
