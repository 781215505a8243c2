// Package commands implements the docchunk command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docchunk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by every subcommand once the root pre-run has
// resolved configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     *slog.Logger
}

// NewRootCommand builds the docchunk command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "docchunk",
		Short:         "docchunk splits a documentation tree into bounded, stably identified chunks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags > env > config file > defaults.
			if err := config.ReadFile(a.v, a.cfgFile); err != nil {
				return err
			}
			a.cfg = config.Load(a.v)
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.log = newLogger(a.cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "json", "log format: json or text")
	pf.String("docs-dir", "docs", "documentation root to scan")
	pf.String("output", "data/chunks.json", "path of the chunk collection file")
	pf.String("dsn", "sqlite:data/chunks.db", "metadata store DSN (sqlite:<path> or postgres://...)")

	// Bind flags to viper keys (flags override config).
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = a.v.BindPFlag("docs_dir", pf.Lookup("docs-dir"))
	_ = a.v.BindPFlag("output", pf.Lookup("output"))
	_ = a.v.BindPFlag("store.dsn", pf.Lookup("dsn"))

	root.AddCommand(
		newIngestCmd(a),
		newStoreCmd(a),
		newCountCmd(a),
		newLookupCmd(a),
		newSourceCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the command line and exits 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), errorColor("Error:"), err)
		stop()
		os.Exit(1)
	}
}

// newLogger builds the process logger. Logs go to w, normally stderr, so
// stdout stays free for command output.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
