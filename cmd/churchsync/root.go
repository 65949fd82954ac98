// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ManuGH/churchsync/internal/version"
)

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "churchsync",
		Short:        "Keep Airtable, YouTube and WordPress in step with the ChurchSuite calendar",
		Version:      version.String(),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnvFile(opts.envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the environment; missing is fine")

	cmd.AddCommand(
		newImportCmd(opts),
		newReportCmd(opts),
		newYouTubeCmd(opts),
		newWordPressCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadEnvFile exports the variables of a dotenv file. Variables already set
// in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "churchsync "+version.String())
			return err
		},
	}
}
