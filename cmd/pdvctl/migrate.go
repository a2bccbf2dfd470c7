package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/pdv/backend/internal/infrastructure/migration"
	"github.com/pdv/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type migrateOptions struct {
	root *rootOptions
	// Path reads migrations from disk instead of the embedded set
	Path string
}

func (o *migrateOptions) source() fs.FS {
	if o.Path != "" {
		return os.DirFS(o.Path)
	}
	return migrations.FS
}

// withMigrator opens a plain database/sql connection, runs fn and closes both
func (o *migrateOptions) withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := o.root.config()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, o.source(), o.root.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			o.root.log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return fn(m)
}

func newMigrateCommand(root *rootOptions) *cobra.Command {
	opts := &migrateOptions{root: root}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "", "read migrations from this directory instead of the embedded set")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withMigrator((*migration.Migrator).Up)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withMigrator((*migration.Migrator).Down)
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations, or roll back when n is negative",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n == 0 {
					return fmt.Errorf("steps must be a non-zero integer, got %q", args[0])
				}
				return opts.withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return opts.withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(version)) })
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations, clearing the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return opts.withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withMigrator(func(m *migration.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List available migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := migration.ListMigrations(opts.source())
				if err != nil {
					return err
				}
				for _, m := range found {
					fmt.Fprintln(cmd.OutOrStdout(), m)
				}
				return nil
			},
		},
		newMigrateCreateCommand(root),
	)

	return cmd
}

func newMigrateCreateCommand(root *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create an empty up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			root.log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory the new files are written to")

	return cmd
}
