package wizard

import (
	"strings"

	"github.com/imamik/mrpctl/internal/config"
)

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		URL: strings.TrimRight(strings.TrimSpace(result.URL), "/"),
	}

	if result.StoreToken {
		cfg.Token = strings.TrimSpace(result.Token)
	}

	if result.UseS3 {
		cfg.S3 = config.S3Config{
			Endpoint:  strings.TrimSpace(result.S3Endpoint),
			Region:    strings.TrimSpace(result.S3Region),
			AccessKey: strings.TrimSpace(result.S3AccessKey),
			SecretKey: result.S3SecretKey,
			PathStyle: result.S3PathStyle,
		}
	}

	// info is the default and is left out of the file
	if result.LogLevel != "" && result.LogLevel != "info" {
		cfg.Log.Level = result.LogLevel
	}

	return cfg
}
