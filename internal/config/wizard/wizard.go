package wizard

import (
	"context"
	"fmt"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	URL   string
	Token string

	// StoreToken writes the token into the file. Otherwise MRP_TOKEN
	// must be exported before running mrpctl.
	StoreToken bool

	// Object storage (optional)
	UseS3       bool
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool

	LogLevel string
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{LogLevel: "info", StoreToken: true}

	if err := runProvisionerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("provisioner: %w", err)
	}

	if err := runObjectStorageGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}

	if err := runLoggingGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	return result, nil
}
