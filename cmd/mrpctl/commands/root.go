// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
)

// globalFlags holds the persistent flags shared by all subcommands.
type globalFlags struct {
	configPath  string
	url         string
	token       string
	output      string
	logLevel    string
	logJSON     bool
	metricsFile string
	dryRun      bool
}

// options converts the flags to handler options. --log-json only
// overrides the configuration when it was given explicitly.
func (g *globalFlags) options(cmd *cobra.Command) handlers.Options {
	opts := handlers.Options{
		ConfigPath:  g.configPath,
		URL:         g.url,
		Token:       g.token,
		Output:      g.output,
		LogLevel:    g.logLevel,
		MetricsFile: g.metricsFile,
		DryRun:      g.dryRun,
	}
	if f := cmd.Flags().Lookup("log-json"); f != nil && f.Changed {
		v := g.logJSON
		opts.LogJSON = &v
	}
	return opts
}

// Root returns the root command for the mrpctl CLI.
//
// The root command carries the connection and output flags; every
// provisioner command reads them through globalFlags.options.
func Root() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "mrpctl",
		Short: "Provision bare-metal machines through Mr. Provisioner",
		Long: `mrpctl drives a Mr. Provisioner server.

It uploads kernels, initrds and preseeds, assigns them to a machine,
requests provisioning and reports the machine's IPv4 address. Upload
and provision commands are idempotent: existing records are reused.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default: ./mrpctl.yaml if present)")
	pf.StringVar(&flags.url, "url", "", "Provisioner URL (overrides config and MRP_URL)")
	pf.StringVar(&flags.token, "token", "", "Provisioner API token (overrides config and MRP_TOKEN)")
	pf.StringVarP(&flags.output, "output", "o", handlers.OutputText, "Output format: text or json")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.logJSON, "log-json", false, "Emit logs as JSON")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "Write API call metrics in Prometheus text format to this file")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Resolve everything but skip uploads and machine changes")

	cmd.AddCommand(Init())
	cmd.AddCommand(Machine(flags))
	cmd.AddCommand(Image(flags))
	cmd.AddCommand(Preseed(flags))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
