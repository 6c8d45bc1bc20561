package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigPrecedence(t *testing.T) {
	saved := config
	t.Cleanup(func() { config = saved })
	config = Config{DBHost: "file-host", RateLimitMax: 25}

	assert.Equal(t, "file-host", GetConfig("DB_HOST"))
	assert.Equal(t, 25, GetConfigInt("RATE_LIMIT_MAX"))

	t.Setenv("DB_HOST", "env-host")
	assert.Equal(t, "env-host", GetConfig("DB_HOST"))

	assert.Equal(t, "8000", GetConfig("APP_PORT"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
	assert.Zero(t, GetConfigInt("DB_USER"))
}
