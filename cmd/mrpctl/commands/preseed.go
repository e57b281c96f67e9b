package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
	"github.com/imamik/mrpctl/internal/provisioning"
)

// uploadPreseedHandler can be replaced in tests.
var uploadPreseedHandler = handlers.UploadPreseed

// Preseed returns the parent command for preseeds.
func Preseed(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preseed",
		Short: "Manage preseeds",
	}

	cmd.AddCommand(PreseedUpload(flags))

	return cmd
}

// PreseedUpload returns the command that uploads a preseed unless one with
// the same name exists.
func PreseedUpload(flags *globalFlags) *cobra.Command {
	var spec provisioning.PreseedSpec

	cmd := &cobra.Command{
		Use:   "upload <path|s3://bucket/key>",
		Short: "Upload a preseed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Source = args[0]
			return uploadPreseedHandler(cmd.Context(), flags.options(cmd), spec)
		},
	}

	cmd.Flags().StringVar(&spec.Name, "name", "", "Preseed name")
	cmd.Flags().StringVar(&spec.Description, "description", "", "Preseed description")
	cmd.Flags().StringVar(&spec.Type, "type", "preseed", "Preseed type: preseed or kickstart")
	cmd.Flags().BoolVar(&spec.KnownGood, "known-good", false, "Mark the preseed as known good")
	cmd.Flags().BoolVar(&spec.Public, "public", false, "Make the preseed visible to all users")

	_ = cmd.MarkFlagRequired("name")

	return cmd
}
