package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("ENVIRONMENT", "development")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	require.NoError(t, LoadConfig())
	assert.Equal(t, "5000", AppConfig.ServerPort)
	assert.Equal(t, "coldcommand", AppConfig.DBName)
	assert.Equal(t, 60, AppConfig.RateLimitSequenceWrites)
	assert.Equal(t, 15*time.Second, AppConfig.Smartlead.Timeout)
	assert.Equal(t, 10*time.Minute, AppConfig.StatusSyncInterval)
	assert.Equal(t, "https://server.smartlead.ai/api/v1", AppConfig.Smartlead.BaseURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")
	t.Setenv("STATUS_SYNC_INTERVAL_MINUTES", "2")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	require.NoError(t, LoadConfig())
	assert.True(t, AppConfig.Redis.Enabled)
	assert.Equal(t, 3, AppConfig.Redis.DB)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, AppConfig.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Minute, AppConfig.StatusSyncInterval)
	assert.Equal(t, 100, AppConfig.DBMaxOpenConns)
}

func TestLoadConfigRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing db password", map[string]string{"DB_PASSWORD": ""}, "DB_PASSWORD"},
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"production without smartlead key", map[string]string{"ENVIRONMENT": "production", "SMARTLEAD_API_KEY": ""}, "SMARTLEAD_API_KEY"},
		{"zero rate limit", map[string]string{"RATE_LIMIT_SEQUENCE_WRITES": "0"}, "RATE_LIMIT_SEQUENCE_WRITES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "host=db password=***** dbname=x", maskPassword("host=db password=hunter2 dbname=x"))
	assert.Equal(t, "host=db password=*****", maskPassword("host=db password=hunter2"))
	assert.Equal(t, "host=db", maskPassword("host=db"))
}
