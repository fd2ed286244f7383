package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/assistant"
	"github.com/fentz26/elhem/internal/audit"
	"github.com/fentz26/elhem/internal/config"
	"github.com/fentz26/elhem/internal/logging"
	"github.com/fentz26/elhem/internal/metrics"
	"github.com/fentz26/elhem/internal/store"
	"github.com/fentz26/elhem/internal/tasks"
	"github.com/fentz26/elhem/internal/team"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	app    *components
)

// components are built once per invocation from the loaded config.
type components struct {
	store     store.Store
	metrics   *metrics.Collector
	team      *team.Resolver
	audit     *audit.Recorder
	tasks     *tasks.Repository
	assistant *assistant.Assistant
}

var rootCmd = &cobra.Command{
	Use:   "elhem",
	Short: "Elhem - task assistant for employees and managers",
	Long: `Elhem keeps tasks, team membership and performance records in a record
store and answers short text requests from employees and managers.

Data lives in the configured store (JSON files in ./data by default).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return err
		}

		s, err := store.Open(cmd.Context(), cfg.StoreOptions())
		if err != nil {
			return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
		}
		app = build(s, logger)
		logger.Debug("store opened", zap.String("driver", string(s.Driver())))
		return nil
	},
	// No RunE - defaults to showing help when no subcommand is provided
}

func build(s store.Store, log *zap.Logger) *components {
	m := metrics.New()
	resolver := team.NewResolver(s)
	rec := audit.NewRecorder(s)
	repo := tasks.NewRepository(s, resolver,
		tasks.WithAuditor(rec),
		tasks.WithMetrics(m),
		tasks.WithLogger(log.Named("tasks")))
	return &components{
		store:     s,
		metrics:   m,
		team:      resolver,
		audit:     rec,
		tasks:     repo,
		assistant: assistant.New(repo, s, assistant.WithMetrics(m), assistant.WithLogger(log.Named("assistant"))),
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(migrateCmd)
}

// execute runs the root command and releases the store and logger whether
// or not the command succeeded.
func execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

func shutdown() {
	if app != nil {
		if err := app.store.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
