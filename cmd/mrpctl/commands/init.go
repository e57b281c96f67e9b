package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
	"github.com/imamik/mrpctl/internal/config"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--file, -f: Path to output file (default "mrpctl.yaml")
//	--force: Overwrite an existing file without asking
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create an mrpctl configuration file.

The wizard asks for the provisioner URL and API token, optional
S3-compatible storage used for s3:// artifact references, and the
log settings. The token can be left out of the file and supplied
through MRP_TOKEN instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "file", "f", config.DefaultPath, "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file without asking")

	return cmd
}
