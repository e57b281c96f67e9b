package config

import (
	"fmt"
	"net/url"

	"github.com/imamik/mrpctl/internal/logging"
)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required (set --url, MRP_URL or url in the config file)")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: host is required", c.URL)
	}

	if c.Token == "" {
		return fmt.Errorf("token is required (set --token, MRP_TOKEN or token in the config file)")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		return fmt.Errorf("s3 access_key and secret_key must be set together")
	}

	return nil
}
