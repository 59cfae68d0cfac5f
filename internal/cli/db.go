package cli

import (
	"fmt"
	"io"
	"os"

	dbfs "github.com/garnizeh/chronosflow/db"
	"github.com/garnizeh/chronosflow/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed state schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := db.New(cmd.Context(), cfg.DatabasePath, nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(cmd.Context(), conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date.\n", cfg.DatabasePath)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup [destination]",
	Short: "Write a consistent copy of the database",
	Long: `Write a consistent copy of the database while it may be in use.
The destination defaults to <database_path>.bak and must not exist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dst := cfg.DatabasePath + ".bak"
		if len(args) == 1 {
			dst = args[0]
		}

		conn, err := db.New(cmd.Context(), cfg.DatabasePath, nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := conn.BackupTo(cmd.Context(), dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database backup written to %s.\n", dst)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [source]",
	Short: "Replace the database with a backup",
	Long: `Replace the database file with a backup. Stop the server first.
The source defaults to <database_path>.bak.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src := cfg.DatabasePath + ".bak"
		if len(args) == 1 {
			src = args[0]
		}

		if err := copyFile(src, cfg.DatabasePath); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s.\n", src)
		return nil
	},
}

// copyFile replaces dst with the contents of src via a temporary file in the same directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".restore"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
