package main

import (
	"fmt"

	"github.com/fekuna/penstore/internal/app"
	"github.com/fekuna/penstore/internal/migrations"
	"github.com/fekuna/penstore/internal/seed"
	"github.com/fekuna/penstore/pkg/database/migrate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errBackfillFailed = errors.New("some media could not be backfilled")

func (c *cli) cmdMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := app.OpenDB(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := migrate.NewMigrator(db, c.log).Version(cmd.Context())
			if err != nil {
				return err
			}
			files, _ := migrations.All.ReadDir(".")
			fmt.Fprintf(cmd.OutOrStdout(), "database at version %d (%d scripts embedded)\n", version, len(files))
			return nil
		},
	}
}

func (c *cli) cmdSeed() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with the demo collections and products",
		Args:  cobra.NoArgs,
		Long: `Replace the catalog with the demo collections and products.

Existing products, collections and media are deleted first. Orders are never
deleted, so seeding fails with a conflict once any order exists; use a fresh
database to reseed a store that has taken orders.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := seed.NewSeeder(a.Collections, a.Products, a.Media, nil, c.log).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d collections and %d products (%d images, %d fallbacks)\n",
				report.Collections, report.Products, report.Media, report.Fallbacks)
			return nil
		},
	}
}

func (c *cli) cmdBackfillBlur() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-blur",
		Short: "Compute missing image placeholders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Media.BackfillBlur(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total: %d  success: %d  skipped: %d  failed: %d\n",
				report.Total, report.Success, report.Skipped, report.Failed)
			for _, f := range report.Failures {
				fmt.Fprintf(out, "  %s (%s): %s\n", f.Name, f.ID, f.Reason)
			}
			if report.Failed > 0 {
				return errBackfillFailed
			}
			return nil
		},
	}
}
