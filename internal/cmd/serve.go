package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harrison/ctxgen/internal/logger"
	"github.com/harrison/ctxgen/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the 'ctxgen serve' command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API on a local address",
		Long: `Start the local HTTP API used by browser front ends. It exposes directory
browsing, file reads, guarded line counts, context assembly, a rendered
preview, history and the saved settings.

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config: 127.0.0.1:5000)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	log := a.log
	if a.cfg.LogDir != "" {
		fileLog, err := logger.NewFileLogger(a.cfg.LogDir, a.cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		log = logger.NewMultiLogger(a.log, fileLog)
		log.LogInfo("run log: " + fileLog.RunFile())
	}

	srv := &server.Server{
		Rules:        a.rules,
		Instructions: a.instructions,
		HistoryKeep:  a.cfg.History.Keep,
		Log:          log,
	}
	if hs := a.openHistory(); hs != nil {
		defer hs.Close()
		srv.History = hs
	}

	log.LogInfo("data dir: " + a.cfg.DataDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, a.cfg.Server.Addr, a.cfg.Server.ReadTimeout)
}
