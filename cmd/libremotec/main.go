package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viraptor/libremotec/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "libremotec",
	Short: "Run file calls on a remote host",
	Long: `libremotec routes file operations either to this host or to a
dispatch server on another host, based on a list of local path prefixes.

Start "libremotec serve" on the remote host, then use "cat" or "stat"
here to read through the router.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/libremotec/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads configuration and applies its logging section.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ConfigureLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
