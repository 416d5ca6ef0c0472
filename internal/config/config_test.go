package config

import (
	"crypto/sha256"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, DefaultBackendURL, c.BackendURL)
	assert.Equal(t, 15*time.Second, c.BackendTimeout)
	assert.Equal(t, 10, c.RateLimitPerMinute)
	assert.True(t, c.AuthRequired)
	assert.Empty(t, c.AdminEmails)
	assert.Len(t, c.CSRFKey, 32)
	assert.False(t, c.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"BACKEND_URL":     "http://localhost:5000/api/",
		"BACKEND_TIMEOUT": "5s",
		"AUTH_REQUIRED":   "false",
		"ADMIN_EMAILS":    " Owner@GP.in, ,staff@gp.in",
		"CSRF_KEY":        strings.Repeat("ab", 32),
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", c.BackendURL)
	assert.Equal(t, 5*time.Second, c.BackendTimeout)
	assert.False(t, c.AuthRequired)
	assert.Equal(t, []string{"owner@gp.in", "staff@gp.in"}, c.AdminEmails)
	assert.Equal(t, byte(0xab), c.CSRFKey[0])
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"timeout":    {"BACKEND_TIMEOUT": "soon"},
		"rate limit": {"RATE_LIMIT_PER_MINUTE": "many"},
		"zero rate":  {"RATE_LIMIT_PER_MINUTE": "0"},
		"negative":   {"RATE_LIMIT_PER_MINUTE": "-3"},
		"csrf key":   {"CSRF_KEY": "short"},
		"production": {"ENV": "production"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_CSRFKeyFromSessionSecret(t *testing.T) {
	long := strings.Repeat("x", 40)
	a, err := FromEnv(env(map[string]string{"SESSION_SECRET": long}))
	require.NoError(t, err)
	b, err := FromEnv(env(map[string]string{"SESSION_SECRET": long + "tail"}))
	require.NoError(t, err)
	short, err := FromEnv(env(map[string]string{"SESSION_SECRET": "abc"}))
	require.NoError(t, err)

	want := sha256.Sum256([]byte(long))
	assert.Equal(t, want[:], a.CSRFKey)
	assert.NotEqual(t, a.CSRFKey, b.CSRFKey, "secrets differing past 32 bytes must give different keys")
	assert.Len(t, short.CSRFKey, 32)
	assert.NotEqual(t, byte(0), short.CSRFKey[31])
}
