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
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestParseClient_Defaults(t *testing.T) {
	t.Setenv("CONFIG", "")
	t.Setenv("OWNERHUB_URL", "")
	t.Setenv("OWNERHUB_SESSION_KEY", "")

	o, err := ParseClient(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:8080", o.BaseURL)
	assert.Equal(t, 10*time.Second, o.Timeout)
	assert.Equal(t, "ownerhub.db", o.DBPath)
	assert.Equal(t, "es", o.Lang)
	assert.Equal(t, "tui", o.Command)
}

func TestParseClient_Precedence(t *testing.T) {
	path := writeConfig(t, `{"url":"http://file:1","db":"file.db","lang":"en","session_key":"file-key"}`)
	t.Setenv("CONFIG", "")
	t.Setenv("OWNERHUB_URL", "http://env:2")
	t.Setenv("OWNERHUB_SESSION_KEY", "")

	o, err := ParseClient([]string{
		"-url", "http://flag:3",
		"-db", "flag.db",
		"-c", path,
		"-cmd", "register",
		"-login", "ana@example.com",
		"-timeout", "2s",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", o.BaseURL, "env wins over file and flag")
	assert.Equal(t, "file.db", o.DBPath, "file wins over flag")
	assert.Equal(t, "en", o.Lang)
	assert.Equal(t, "file-key", o.SessionKey)
	assert.Equal(t, "register", o.Command)
	assert.Equal(t, "ana@example.com", o.Login)
	assert.Equal(t, 2*time.Second, o.Timeout)
}

func TestParseClient_Errors(t *testing.T) {
	t.Setenv("CONFIG", "")

	_, err := ParseClient([]string{"-cmd", "shell"})
	assert.ErrorContains(t, err, "unknown command")

	_, err = ParseClient([]string{"-nope"})
	assert.Error(t, err)

	_, err = ParseClient([]string{"-config", writeConfig(t, "{")})
	assert.ErrorContains(t, err, "error while parsing config file")
}

func TestParseClient_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "absent.json"))
	_, err := ParseClient(nil)
	assert.NoError(t, err)
}

func TestParseStub(t *testing.T) {
	t.Setenv("CONFIG", "")
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("DATABASE_DSN", "")

	o, err := ParseStub(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", o.Port)
	assert.Equal(t, 24*time.Hour, o.SessionTTL)
	assert.False(t, o.TLS())
	assert.Empty(t, o.DatabaseDSN)

	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("CONFIG", writeConfig(t, `{"cert":"s.crt","key":"s.key","log_level":"debug"}`))
	o, err = ParseStub([]string{"-a", ":1", "-ttl", "1m"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", o.Port)
	assert.True(t, o.TLS())
	assert.Equal(t, "debug", o.LogLevel)
	assert.Equal(t, time.Minute, o.SessionTTL)
}

func TestParseStub_HalfTLS(t *testing.T) {
	t.Setenv("CONFIG", "")
	_, err := ParseStub([]string{"-cert", "s.crt"})
	assert.ErrorContains(t, err, "both -cert and -key")
}

func TestParseStub_DatabaseDSN(t *testing.T) {
	t.Setenv("CONFIG", "")
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("DATABASE_DSN", "")

	o, err := ParseStub([]string{"-d", "postgres://flag"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag", o.DatabaseDSN)

	t.Setenv("CONFIG", writeConfig(t, `{"database_dsn":"postgres://file"}`))
	o, err = ParseStub([]string{"-d", "postgres://flag"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://file", o.DatabaseDSN)

	t.Setenv("DATABASE_DSN", "postgres://env")
	o, err = ParseStub([]string{"-d", "postgres://flag"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", o.DatabaseDSN)
}
