// Package cli implements the chronosctl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	dbfs "github.com/garnizeh/chronosflow/db"
	"github.com/garnizeh/chronosflow/internal/advice"
	"github.com/garnizeh/chronosflow/internal/config"
	"github.com/garnizeh/chronosflow/internal/db"
	"github.com/garnizeh/chronosflow/internal/repository/sqlite"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/garnizeh/chronosflow/internal/state"
	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/ollama"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "chronosctl",
	Short: "Operate a ChronosFlow installation",
	Long: `chronosctl manages the ChronosFlow database and inspects tracked time
from the terminal: migrations, backups, study plans and hour summaries.`,
	SilenceUsage: true,
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(adviceCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chronosctl %s (commit %s, built %s)\n", version, commit, date)
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// env is an opened database plus the services built on it.
type env struct {
	cfg     *config.Config
	conn    *db.DB
	repo    *sqlite.SQLiteRepo
	tracker *service.Tracker
	client  *ollama.Client
}

func (e *env) Close() {
	if e.client != nil {
		e.client.Close()
	}
	e.conn.Close()
}

// openEnv opens and migrates the configured database. withAdvice also
// connects the Ollama client used by the advisor.
func openEnv(ctx context.Context, withAdvice bool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		conn.Close()
		return nil, err
	}

	repo := sqlite.New(conn, logger)
	loader, err := state.NewLoader(ctx, repo)
	if err != nil {
		conn.Close()
		return nil, err
	}

	e := &env{cfg: cfg, conn: conn, repo: repo}
	var gen advice.Generator
	if withAdvice {
		client, err := ollama.NewDefaultClient(cfg.Ollama)
		if err != nil {
			conn.Close()
			return nil, err
		}
		e.client = client
		gen = advice.NewOllamaGenerator(client, cfg.Advice.Model)
	}
	e.tracker = service.NewTracker(repo, repo, state.NewCodec(loader, logger), advice.New(gen, cfg.Advice), logger)
	return e, nil
}

func (e *env) accountByEmail(ctx context.Context, email string) (*models.Account, error) {
	acc, err := e.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("no account registered for %s", email)
	}
	return acc, nil
}
