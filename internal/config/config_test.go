package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	p := writeConfig(t, "database:\n  url: postgres://localhost/notify\n")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Queue.Driver)
	assert.Equal(t, "notifications", cfg.Queue.Name)
	assert.Equal(t, 60*time.Minute, cfg.OtpTTL())
	assert.Equal(t, 60*time.Minute, cfg.PasswordResetTTL())
	assert.Equal(t, 15*time.Minute, cfg.ParamsCacheTTL())
	assert.Equal(t, 10*time.Second, cfg.SmsTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileValues(t *testing.T) {
	p := writeConfig(t, `
server:
  port: 9090
queue:
  driver: Kafka
  name: outbox
  brokers: ["kafka:9092"]
otp:
  expiry_minutes: 5
password_reset:
  expiry_minutes: 30
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "kafka", cfg.Queue.Driver)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Queue.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.OtpTTL())
	assert.Equal(t, 30*time.Minute, cfg.PasswordResetTTL())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	p := writeConfig(t, "database:\n  url: postgres://file/notify\nauth:\n  jwt_secret: from-file\n")
	t.Setenv("NOTIFY_DATABASE_URL", "postgres://env/notify")
	t.Setenv("NOTIFY_JWT_SECRET", "from-env")
	t.Setenv("NOTIFY_SMTP_PASSWORD", "hunter2")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/notify", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "hunter2", cfg.Email.SMTPPassword)
}

func TestLoadConfig_PathFromEnv(t *testing.T) {
	p := writeConfig(t, "server:\n  port: 7070\n")
	t.Setenv("NOTIFY_CONFIG", p)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "server: [oops"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "queue:\n  driver: kafka\n"))
	assert.ErrorContains(t, err, "brokers")

	_, err = LoadConfig(writeConfig(t, "queue:\n  driver: nats\n"))
	assert.ErrorContains(t, err, "unknown queue.driver")
}
