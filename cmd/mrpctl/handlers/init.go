package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/mrpctl/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, force bool) error {
	if !force && wizardFileExists(outputPath) {
		ok, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted, existing configuration kept.")
			return nil
		}
	}

	printWelcome()

	result, err := wizardRunWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizardBuildConfig(result)
	if err := wizardWriteConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg.Token == "")
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "mrpctl - Mr. Provisioner client")
	fmt.Fprintln(stdout, "===============================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a configuration file with the provisioner")
	fmt.Fprintln(stdout, "endpoint, credentials and optional S3 access for artifacts.")
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message and next steps.
func printInitSuccess(outputPath string, tokenFromEnv bool) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next steps:")
	if tokenFromEnv {
		fmt.Fprintln(stdout, "  export MRP_TOKEN=<your-token>")
	}
	fmt.Fprintf(stdout, "  mrpctl --config %s machine ip <machine>\n", outputPath)
}
