package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file. Unknown
// keys are rejected.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &cfg, nil
}

// Load reads path, or DefaultPath when path is empty and that file exists,
// then applies the environment. A missing explicit path is an error; a
// missing default file is not.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	switch {
	case path != "":
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case fileExists(DefaultPath):
		loaded, err := LoadFile(DefaultPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv lays environment variables over the file values.
//
// Environment Variables:
//   - MRP_URL, MRP_TOKEN
//   - MRP_S3_ENDPOINT, MRP_S3_REGION, MRP_S3_ACCESS_KEY, MRP_S3_SECRET_KEY
//   - MRP_S3_PATH_STYLE (bool)
//   - MRP_LOG_LEVEL, MRP_LOG_JSON (bool)
func (c *Config) ApplyEnv() error {
	setString(&c.URL, "MRP_URL")
	setString(&c.Token, "MRP_TOKEN")
	setString(&c.S3.Endpoint, "MRP_S3_ENDPOINT")
	setString(&c.S3.Region, "MRP_S3_REGION")
	setString(&c.S3.AccessKey, "MRP_S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "MRP_S3_SECRET_KEY")
	setString(&c.Log.Level, "MRP_LOG_LEVEL")

	if err := setBool(&c.S3.PathStyle, "MRP_S3_PATH_STYLE"); err != nil {
		return err
	}
	return setBool(&c.Log.JSON, "MRP_LOG_JSON")
}

func setString(dst *string, envVar string) {
	if val := os.Getenv(envVar); val != "" {
		*dst = val
	}
}

func setBool(dst *bool, envVar string) error {
	val := os.Getenv(envVar)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envVar, val, err)
	}
	*dst = b
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
