package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
	"github.com/imamik/mrpctl/internal/platform/mrp"
	"github.com/imamik/mrpctl/internal/provisioning"
)

// uploadImageHandler can be replaced in tests.
var uploadImageHandler = handlers.UploadImage

// Image returns the parent command for kernel and initrd images.
func Image(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage kernel and initrd images",
	}

	cmd.AddCommand(ImageUpload(flags))

	return cmd
}

// ImageUpload returns the command that uploads an image unless one with the
// same description, type and arch exists.
//
// The source is a local path or an s3://bucket/key reference.
func ImageUpload(flags *globalFlags) *cobra.Command {
	var spec provisioning.ImageSpec

	cmd := &cobra.Command{
		Use:   "upload <path|s3://bucket/key>",
		Short: "Upload a kernel or initrd image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Source = args[0]
			return uploadImageHandler(cmd.Context(), flags.options(cmd), spec)
		},
	}

	cmd.Flags().StringVar(&spec.Description, "description", "", "Image description")
	cmd.Flags().StringVar(&spec.Type, "type", "", "Image type: "+mrp.ImageTypeKernel+" or "+mrp.ImageTypeInitrd)
	cmd.Flags().StringVar(&spec.Arch, "arch", "", "Image architecture (e.g. arm64)")
	cmd.Flags().BoolVar(&spec.KnownGood, "known-good", false, "Mark the image as known good")
	cmd.Flags().BoolVar(&spec.Public, "public", false, "Make the image visible to all users")

	for _, name := range []string{"description", "type", "arch"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
