// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/category"
	"github.com/ManuGH/churchsync/internal/config"
	"github.com/ManuGH/churchsync/internal/jobs"
	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/version"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts jobs.Options
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import upcoming ChurchSuite events into Airtable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, root, config.SectionChurchSuite, config.SectionAirtable)
			if err != nil {
				return err
			}
			deps, err := s.deps()
			if err != nil {
				return err
			}
			if deps.Store, err = s.store(); err != nil {
				return err
			}
			deps.Events = s.events()
			return s.run("import", func(ctx context.Context) (*jobs.Status, error) {
				return jobs.Import(ctx, deps, s.jobConfig(), opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "log the changes instead of writing them")
	return cmd
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var opts jobs.ReportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print or mail the upcoming services report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sections := []string{config.SectionAirtable}
			if opts.SendEmail && !opts.DryRun {
				sections = append(sections, config.SectionMail)
			}
			s, err := newSession(cmd, root, sections...)
			if err != nil {
				return err
			}
			deps, err := s.deps()
			if err != nil {
				return err
			}
			if deps.Store, err = s.store(); err != nil {
				return err
			}
			if opts.SendEmail {
				deps.Mailer = s.mailer()
			}
			opts.Out = cmd.OutOrStdout()
			return s.run("report", func(ctx context.Context) (*jobs.Status, error) {
				return jobs.Report(ctx, deps, opts)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.SendEmail, "send-email", false, "mail the report instead of printing it")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "build the mail but do not send it")
	return cmd
}

func newYouTubeCmd(root *rootOptions) *cobra.Command {
	var opts jobs.Options
	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "Schedule live broadcasts for upcoming streamed services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, root, config.SectionAirtable, config.SectionYouTube, config.SectionStorage)
			if err != nil {
				return err
			}
			deps, err := s.deps()
			if err != nil {
				return err
			}
			if deps.Store, err = s.store(); err != nil {
				return err
			}
			deps.Events = s.events()
			video, err := s.video()
			if err != nil {
				return err
			}
			deps.Video = video
			return s.run("youtube", func(ctx context.Context) (*jobs.Status, error) {
				return jobs.SyncYouTube(ctx, deps, s.jobConfig(), opts)
			})
		},
	}
	addSyncFlags(cmd, &opts)
	return cmd
}

func newWordPressCmd(root *rootOptions) *cobra.Command {
	var opts jobs.Options
	cmd := &cobra.Command{
		Use:   "wordpress",
		Short: "Publish order-of-service and podcast posts for upcoming services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, root, config.SectionAirtable, config.SectionWordPress)
			if err != nil {
				return err
			}
			deps, err := s.deps()
			if err != nil {
				return err
			}
			if deps.Store, err = s.store(); err != nil {
				return err
			}
			deps.Events = s.events()
			deps.CMS = s.cms()
			return s.run("wordpress", func(ctx context.Context) (*jobs.Status, error) {
				return jobs.SyncWordPress(ctx, deps, s.jobConfig(), opts)
			})
		},
	}
	addSyncFlags(cmd, &opts)
	return cmd
}

func addSyncFlags(cmd *cobra.Command, opts *jobs.Options) {
	cmd.Flags().BoolVar(&opts.Update, "update", false, "also update records that were published before")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "log the changes instead of writing them")
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	var file string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file, the column mapping and the category table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := file
			if path == "" {
				path = root.configPath
			}
			name := path
			if name == "" {
				name = "environment"
			}

			cfg, err := config.NewLoader(path, version.Version).Load()
			if err != nil {
				return fmt.Errorf("configuration error in %s: %w", name, err)
			}
			if _, err := airtable.NewFieldMap(service.DefaultColumns(cfg.Airtable.Fields), service.RequiredFields()); err != nil {
				return fmt.Errorf("configuration error in %s: %w", name, err)
			}
			if _, err := category.Load(cfg.CategoriesFile); err != nil {
				return fmt.Errorf("configuration error in %s: %w", name, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", name)
			return err
		},
	}
	validate.Flags().StringVarP(&file, "file", "f", "", "path to YAML configuration file (defaults to --config)")

	cmd.AddCommand(validate)
	return cmd
}
