package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/config"
	"github.com/fentz26/elhem/internal/migrate"
	"github.com/fentz26/elhem/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy collections into another store",
	Long: `Copies the tasks, team and performance collections from the configured
store into the store described by --to. Each destination collection is
replaced.`,
	Example: `  elhem migrate --to ~/.elhem/postgres.yaml
  elhem migrate --to-driver sqlite --audit`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo       string
	migrateToDriver string
	migrateAudit    bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Config file describing the destination store")
	migrateCmd.Flags().StringVar(&migrateToDriver, "to-driver", "", "Destination driver, using the current config for its settings")
	migrateCmd.Flags().BoolVar(&migrateAudit, "audit", false, "Also copy recorded decisions")
	migrateCmd.MarkFlagsOneRequired("to", "to-driver")
	migrateCmd.MarkFlagsMutuallyExclusive("to", "to-driver")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dstCfg := *cfg
	if migrateTo != "" {
		loaded, err := config.Load(migrateTo)
		if err != nil {
			return fmt.Errorf("destination config: %w", err)
		}
		dstCfg = *loaded
	} else {
		dstCfg.Store.Driver = migrateToDriver
		if err := dstCfg.Validate(); err != nil {
			return fmt.Errorf("destination config: %w", err)
		}
	}
	if dstCfg.StoreOptions() == cfg.StoreOptions() {
		return fmt.Errorf("destination is the configured store")
	}

	dst, err := store.Open(ctx, dstCfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dst.Close()

	collections := append([]store.Collection(nil), store.Collections...)
	if migrateAudit {
		collections = append(collections, store.Decisions)
	}

	counts, err := migrate.Copy(ctx, app.store, dst, logger.Named("migrate"), collections...)
	if err != nil {
		return err
	}
	for _, c := range counts {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d records\n", c.Collection, c.Records)
	}
	logger.Info("migration complete", zap.String("to", string(dst.Driver())))
	return nil
}
