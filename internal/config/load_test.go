package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "mrpctl.yaml", `
url: http://192.168.0.3:5000
token: DEADBEEF
s3:
  endpoint: https://objects.lab.example
  region: eu-central
  access_key: AKIA
  secret_key: s3cr3t
  path_style: true
log:
  level: debug
  json: true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		URL:   "http://192.168.0.3:5000",
		Token: "DEADBEEF",
		S3: S3Config{
			Endpoint:  "https://objects.lab.example",
			Region:    "eu-central",
			AccessKey: "AKIA",
			SecretKey: "s3cr3t",
			PathStyle: true,
		},
		Log: LogConfig{Level: "debug", JSON: true},
	}, cfg)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = LoadFile(writeFile(t, dir, "unknown.yaml", "url: http://mrp\nhcloud_token: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hcloud_token")

	_, err = LoadFile(writeFile(t, dir, "bad.yaml", "url: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoadFile_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(writeFile(t, t.TempDir(), "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mrpctl.yaml", "url: http://file:5000\ntoken: file-token\n")

	t.Setenv("MRP_TOKEN", "env-token")
	t.Setenv("MRP_S3_REGION", "us-east-1")
	t.Setenv("MRP_S3_PATH_STYLE", "true")
	t.Setenv("MRP_LOG_JSON", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://file:5000", cfg.URL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.S3.PathStyle)
	assert.True(t, cfg.Log.JSON)
}

func TestLoad_InvalidBoolEnv(t *testing.T) {
	t.Setenv("MRP_LOG_JSON", "sometimes")

	_, err := Load(writeFile(t, t.TempDir(), "mrpctl.yaml", "url: http://mrp\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MRP_LOG_JSON")
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.URL, "missing default file is not an error")

	writeFile(t, dir, DefaultPath, "url: http://default:5000\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://default:5000", cfg.URL)

	_, err = Load(filepath.Join(dir, "other.yaml"))
	require.Error(t, err, "missing explicit file is an error")
}

func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	cfg := &Config{URL: "http://file", Token: "file", Log: LogConfig{Level: "info", JSON: true}}
	off := false

	cfg.ApplyOverrides(Overrides{Token: "flag", LogJSON: &off})
	assert.Equal(t, "http://file", cfg.URL)
	assert.Equal(t, "flag", cfg.Token)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)

	cfg.ApplyOverrides(Overrides{URL: "http://flag", LogLevel: "debug"})
	assert.Equal(t, "http://flag", cfg.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := &Config{Token: "DEADBEEF", S3: S3Config{AccessKey: "AKIA", SecretKey: "s3cr3t"}}
	r := cfg.Redacted()
	assert.Equal(t, "***", r.Token)
	assert.Equal(t, "***", r.S3.SecretKey)
	assert.Equal(t, "AKIA", r.S3.AccessKey)
	assert.Equal(t, "DEADBEEF", cfg.Token, "original is untouched")
}
