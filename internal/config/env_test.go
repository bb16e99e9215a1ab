package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_CONFIG_FILE", "")
	t.Setenv("JWT_KEY", "")

	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, 120*time.Minute, env.Recovery.TokenTTL)
	assert.True(t, env.Recovery.SingleUse)
	assert.Equal(t, "memory", env.Cache.Driver)
	assert.Error(t, env.Validate())
}

func TestLoadEnvYAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_addr: ":9090"
jwt:
  key: from-yaml
  issuer: yaml-issuer
recovery:
  token_ttl: 30m
  single_use: false
smtp:
  host: smtp.example.com
`), 0o600))

	t.Setenv("APP_CONFIG_FILE", path)
	t.Setenv("JWT_ISSUER", "env-issuer")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", env.AppAddr)
	assert.Equal(t, "from-yaml", env.JWT.Key)
	assert.Equal(t, "env-issuer", env.JWT.Issuer)
	assert.Equal(t, 30*time.Minute, env.Recovery.TokenTTL)
	assert.False(t, env.Recovery.SingleUse)
	assert.True(t, env.SMTP.Enabled())
	assert.Equal(t, 2525, env.SMTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSAllowedOrigins)
	assert.NoError(t, env.Validate())
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_CONFIG_FILE", "")
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("RECOVERY_SINGLE_USE", "maybe")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PORT")
	assert.Contains(t, err.Error(), "RECOVERY_SINGLE_USE")
}

func TestValidateCacheDriver(t *testing.T) {
	env := defaults()
	env.JWT.Key = "k"
	env.Cache.Driver = "redis"
	assert.Error(t, env.Validate())

	env.Cache.RedisAddr = "localhost:6379"
	assert.NoError(t, env.Validate())

	env.Cache.Driver = "memcached"
	assert.Error(t, env.Validate())
}

func TestDataSourceName(t *testing.T) {
	assert.Equal(t, "custom", DBConfig{DSN: "custom"}.DataSourceName())

	dsn := DBConfig{User: "root", Host: "db:3306", Name: "games_library"}.DataSourceName()
	assert.Contains(t, dsn, "root@tcp(db:3306)/games_library")
	assert.Contains(t, dsn, "parseTime=true")
}
