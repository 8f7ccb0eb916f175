package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the relational store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Store.Backend != config.StoreSQLite && cfg.Store.Backend != config.StorePostgres {
				return fmt.Errorf("migrate needs a sqlite or postgres store, got %q", cfg.Store.Backend)
			}
			ctx := cmd.Context()
			gdb, dialect, err := db.Open(ctx, cfg.Store, log)
			if err != nil {
				return err
			}
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			log.Info("migrations_applied", "dialect", dialect)
			if !seed {
				return nil
			}
			seeded, err := db.Seed(ctx, gdb, time.Now().In(cfg.Location()))
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s (seeded: %t)\n", dialect, seeded)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert sample hotels when the store is empty")
	return cmd
}
