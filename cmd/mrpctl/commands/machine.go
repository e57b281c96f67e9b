package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
	"github.com/imamik/mrpctl/internal/provisioning"
)

// Factory function variables - can be replaced in tests.
var (
	provisionHandler = handlers.Provision
	machineIPHandler = handlers.MachineIP
)

// Machine returns the parent command for machine operations.
func Machine(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Provision machines and query their addresses",
	}

	cmd.AddCommand(Provision(flags))
	cmd.AddCommand(IP(flags))

	return cmd
}

// Provision returns the command that assigns kernel, initrd and preseed to
// a machine and requests provisioning.
//
// Flags:
//
//	--kernel: Kernel image description (required)
//	--initrd: Initrd image description (required)
//	--arch: Image architecture (required)
//	--subarch: Machine boot subarchitecture, e.g. efi (required)
//	--preseed: Preseed name (required)
//	--kernel-opts: Kernel command line options
func Provision(flags *globalFlags) *cobra.Command {
	var req provisioning.ProvisionRequest

	cmd := &cobra.Command{
		Use:   "provision <machine>",
		Short: "Assign images and a preseed to a machine and provision it",
		Long: `Look up the machine, the kernel and initrd images and the preseed,
assign them to the machine with netboot enabled and request the
provision state.

The command returns once the provisioner accepted the request; it does
not wait for the installation. Use "mrpctl machine ip --wait" to wait
for the machine's address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Machine = args[0]
			return provisionHandler(cmd.Context(), flags.options(cmd), req)
		},
	}

	cmd.Flags().StringVar(&req.KernelDescription, "kernel", "", "Kernel image description")
	cmd.Flags().StringVar(&req.InitrdDescription, "initrd", "", "Initrd image description")
	cmd.Flags().StringVar(&req.Arch, "arch", "", "Image architecture (e.g. arm64)")
	cmd.Flags().StringVar(&req.Subarch, "subarch", "", "Machine subarchitecture (e.g. efi)")
	cmd.Flags().StringVar(&req.Preseed, "preseed", "", "Preseed name")
	cmd.Flags().StringVar(&req.KernelOpts, "kernel-opts", "", "Kernel command line options")

	for _, name := range []string{"kernel", "initrd", "arch", "subarch", "preseed"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// IP returns the command that prints a machine interface's IPv4 address.
//
// Flags:
//
//	--interface: Interface identifier (default "eth1")
//	--wait: Poll until an address is assigned
//	--wait-timeout: Maximum time to wait (default: MRP_TIMEOUT_IP_WAIT or 10m)
func IP(flags *globalFlags) *cobra.Command {
	var ipOpts handlers.IPOptions

	cmd := &cobra.Command{
		Use:   "ip <machine>",
		Short: "Print the IPv4 address of a machine interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return machineIPHandler(cmd.Context(), flags.options(cmd), args[0], ipOpts)
		},
	}

	cmd.Flags().StringVar(&ipOpts.Interface, "interface", provisioning.DefaultInterface, "Interface identifier")
	cmd.Flags().BoolVar(&ipOpts.Wait, "wait", false, "Wait until the interface has an address")
	cmd.Flags().DurationVar(&ipOpts.WaitTimeout, "wait-timeout", time.Duration(0), "Maximum time to wait for an address")

	return cmd
}
