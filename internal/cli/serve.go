package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/logging"
	"github.com/wesleyorama2/picarx-dash/internal/server"
	"github.com/wesleyorama2/picarx-dash/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	Long: `Run the dashboard HTTP server until interrupted.

Configuration comes from the --config file, the --env file and the environment
(PG_DSN, DB_DRIVER, AIO_USERNAME, AIO_KEY, AIO_*_FEED, LISTEN_ADDR, LOG_LEVEL, DEBUG).

Examples:
  picarx-dash serve
  picarx-dash serve --addr :8080 --config dashboard.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides the configuration)")
	serveCmd.Flags().Bool("dev", false, "Development logging")
	serveCmd.Flags().Bool("debug", false, "Serve runtime graphs on /debug/graphs/ (overrides the configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
	}

	dev, _ := cmd.Flags().GetBool("dev")
	l, err := logging.New(cfg.Log.Level, dev)
	if err != nil {
		return err
	}
	defer l.Sync()

	if _, err := maxprocs.Set(maxprocs.Logger(l.Sugar().Debugf)); err != nil {
		l.Sugar().Warnf("Failed to set GOMAXPROCS: %s.", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, l.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	srv, err := server.New(&server.Opts{
		Config:   cfg,
		Readings: db,
		Feeds:    newAIOClient(cfg, l.Named("aio")),
		Logger:   l.Named("server"),
	})
	if err != nil {
		return err
	}

	l.Info("Starting dashboard", zap.String("version", version), zap.String("driver", cfg.Database.Driver))

	return srv.Run(ctx)
}
