package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viraptor/libremotec/pkg/config"
)

var (
	initForce bool
	initPath  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initPath != "" {
			if err := config.InitConfigToPath(initPath, initForce); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", initPath)
			return nil
		}

		path, err := config.InitConfig(initForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema [output]",
	Short: "Print the JSON schema of the configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.GenerateSchema()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			_, err = cmd.OutOrStdout().Write(append(schema, '\n'))
			return err
		}
		if err := os.WriteFile(args[0], schema, 0644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", args[0])
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().StringVarP(&initPath, "path", "p", "", "write to this path instead of the default location")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSchemaCmd)
}
