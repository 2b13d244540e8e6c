package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lopn/routing"
	"github.com/lopn/routing/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type options struct {
	configPath  string
	secretsPath string
	envPrefix   string
	dsn         string
}

func (o *options) config() (config.Config, error) {
	return routing.LoadConfigProfile(routing.ConfigProfile{
		BasePath:    o.configPath,
		SecretsPath: o.secretsPath,
		EnvPrefix:   o.envPrefix,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "routing",
		Short:         "Inspect and serve the demo route table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (.json, .yaml or .toml)")
	root.PersistentFlags().StringVar(&opts.secretsPath, "secrets", "", "config file layered over --config")
	root.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", "ROUTING_", "prefix for environment overrides")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Postgres DSN backing the photos model binder")

	root.AddCommand(routesCmd(opts), serveCmd(opts), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "routing %s (%s)\n", version, commit)
		},
	}
}
