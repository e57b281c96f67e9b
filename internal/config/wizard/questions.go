package wizard

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

// runProvisionerGroup prompts for the provisioner URL and token.
func runProvisionerGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Provisioner URL").
				Description("Base URL of the Mr. Provisioner web service").
				Placeholder("http://192.168.0.3:5000").
				Value(&result.URL).
				Validate(validateURL),
			huh.NewConfirm().
				Title("Store the API token in the config file?").
				Description("Choose No to supply it through MRP_TOKEN instead").
				Value(&result.StoreToken),
		).Title("Provisioner"),
	).RunWithContext(ctx)
	if err != nil || !result.StoreToken {
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API Token").
				EchoMode(huh.EchoModePassword).
				Value(&result.Token).
				Validate(validateToken),
		),
	).RunWithContext(ctx)
}

// runObjectStorageGroup prompts for optional S3 settings used by s3:// artifacts.
func runObjectStorageGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Fetch images or preseeds from S3?").
				Description("Enables s3://bucket/key as upload source").
				Value(&result.UseS3),
		).Title("Object Storage"),
	).RunWithContext(ctx)
	if err != nil || !result.UseS3 {
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Endpoint (Optional)").
				Description("Leave empty for AWS; set for MinIO, Ceph or other S3-compatible storage").
				Placeholder("https://objects.example.com").
				Value(&result.S3Endpoint),
			huh.NewInput().
				Title("Region").
				Placeholder("us-east-1").
				Value(&result.S3Region),
			huh.NewInput().
				Title("Access Key (Optional)").
				Description("Leave empty to use the AWS default credential chain").
				Value(&result.S3AccessKey),
			huh.NewInput().
				Title("Secret Key").
				EchoMode(huh.EchoModePassword).
				Value(&result.S3SecretKey),
			huh.NewConfirm().
				Title("Use path-style addressing?").
				Description("Usually required for self-hosted S3-compatible storage").
				Value(&result.S3PathStyle),
		),
	).RunWithContext(ctx)
}

// runLoggingGroup prompts for the default log level.
func runLoggingGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log Level").
				Options(LogLevelOptions...).
				Value(&result.LogLevel),
		).Title("Logging"),
	).RunWithContext(ctx)
}

// LogLevelOptions are the selectable log levels.
var LogLevelOptions = []huh.Option[string]{
	huh.NewOption("Info", "info"),
	huh.NewOption("Debug (log every API call)", "debug"),
	huh.NewOption("Warn", "warn"),
	huh.NewOption("Error", "error"),
}

// validateURL validates the provisioner base URL.
func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errURLRequired
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errURLInvalid
	}
	return nil
}

// validateToken requires a non-empty token.
func validateToken(s string) error {
	if strings.TrimSpace(s) == "" {
		return errTokenRequired
	}
	return nil
}
