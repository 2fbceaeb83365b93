package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/harrison/ctxgen/internal/config"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/logger"
	"github.com/harrison/ctxgen/internal/store"
	"github.com/spf13/cobra"
)

// app bundles what every subcommand needs once flags and config are merged.
type app struct {
	cfg          *config.Config
	log          logger.Logger
	rules        *store.RulesStore
	instructions *store.InstructionsStore
	stdout       io.Writer
	stderr       io.Writer
}

// loadApp resolves configuration in order of precedence: defaults, config
// file, .env and CTXGEN_* environment, then persistent flags.
func loadApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ApplyEnv(".env"); err != nil {
		return nil, err
	}

	var logLevel, dataDir *string
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevel = &v
	}
	if flags.Changed("data-dir") {
		v, _ := flags.GetString("data-dir")
		dataDir = &v
	}
	var addr *string
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		v := f.Value.String()
		addr = &v
	}
	cfg.MergeWithFlags(logLevel, dataDir, addr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	return &app{
		cfg:          cfg,
		log:          logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel),
		rules:        store.NewRulesStore(cfg.DataDir),
		instructions: store.NewInstructionsStore(cfg.DataDir),
		stdout:       cmd.OutOrStdout(),
		stderr:       cmd.ErrOrStderr(),
	}, nil
}

// openHistory opens the history database, or returns nil when history is
// disabled or the database cannot be opened. Callers treat nil as "do not
// record".
func (a *app) openHistory() *history.Store {
	if !a.cfg.History.Enabled {
		return nil
	}
	hs, err := history.NewStore(a.cfg.History.DBPath)
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("History disabled: %v", err))
		return nil
	}
	a.log.LogDebug(fmt.Sprintf("History database: %s", hs.Path()))
	return hs
}

// resolveArg interprets a file argument relative to dir unless it is
// already absolute.
func resolveArg(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
