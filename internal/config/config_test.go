package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 600, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "jwt", cfg.Auth.CookieName)
	assert.Equal(t, 310000, cfg.Auth.KDFIterations)
	assert.Equal(t, "inr", cfg.Payment.Currency)
	assert.Equal(t, "webhook-events", cfg.Archive.KeyPrefix)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.IsDevelopment())
	assert.Error(t, cfg.Validate())
}

func TestLoad_PrefixedEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHOP_AUTH_JWTSECRET", "jwt-secret")
	t.Setenv("SHOP_PAYMENT_WEBHOOKSECRET", "whsec_1")
	t.Setenv("SHOP_SERVER_ALLOWEDORIGINS", "https://shop.example.com/, https://admin.example.com")
	t.Setenv("SHOP_AUTH_TOKENTTLMINUTES", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "whsec_1", cfg.Payment.WebhookSecret)
	assert.Equal(t, 30, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "legacy-jwt")
	t.Setenv("ENDPOINT_SECRET", "whsec_legacy")
	t.Setenv("STRIPE_SERVER_KEY", "sk_test_legacy")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-jwt", cfg.Auth.JWTSecret)
	assert.Equal(t, "whsec_legacy", cfg.Payment.WebhookSecret)
	assert.Equal(t, "sk_test_legacy", cfg.Payment.StripeSecretKey)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nSHOP_TEST_A=\"from-file\"\nSHOP_TEST_B=file\nbroken-line\n"), 0o600))

	t.Setenv("SHOP_TEST_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("SHOP_TEST_A") })

	loadDotEnv(path)
	assert.Equal(t, "from-file", os.Getenv("SHOP_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("SHOP_TEST_B"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
