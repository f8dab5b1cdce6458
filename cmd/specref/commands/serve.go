package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fujidana/specref/am"
	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/registry"
	"github.com/fujidana/specref/server"
	"github.com/fujidana/specref/sym"
)

// ServeCmd starts the language server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Serve the reference language server",
	Long: `Serve completion, hover, workspace symbols and the reference manual
over the Language Server Protocol.

Without --ws the server speaks LSP on stdin/stdout, which is what editors
launch. With --ws (or server.websocket_addr) it listens for WebSocket
clients on /lsp instead and reports status on /health.

The built-in database loads in the background; commands that need it wait
up to reference.wait_attempts x reference.wait_interval_ms.`,
	RunE: runServe,
}

var (
	serveWSAddr string
	serveWatch  bool
	serveTrace  bool
)

func init() {
	ServeCmd.Flags().StringVar(&serveWSAddr, "ws", "", "Listen for WebSocket LSP clients on this address (e.g. :7461)")
	ServeCmd.Flags().BoolVar(&serveWatch, "watch", true, "Reload configuration files when they change")
	ServeCmd.Flags().BoolVar(&serveTrace, "trace", false, "Log every LSP message (also on with -vvv)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.Logger.Named("server")
	reg := registry.New(logger.Logger.Named("registry"))

	// Off the request path: queries report the built-in source absent
	// until this finishes.
	go func() {
		if err := reg.ApplyConfig(cfg); err != nil {
			log.Errorw("Initial configuration failed", logger.FieldError, err)
		}
	}()

	if serveWatch {
		stop, err := watchConfig(reg)
		if err != nil {
			log.Warnw("Configuration hot reload disabled", logger.FieldError, err)
		} else {
			defer stop()
		}
	}

	v := verbosity(cmd)
	srv := server.New(reg, cfg, log)
	defer srv.Close()
	srv.SetDebug(serveTrace || logger.ShouldOutput(v, logger.OutputProtocol))

	addr := serveWSAddr
	if addr == "" {
		addr = cfg.Server.WebSocketAddr
	}
	if addr == "" {
		return srv.RunStdio()
	}

	pterm.Info.Printf("%s specref listening on ws://%s/lsp (verbosity: %s)\n",
		sym.Registry, addr, logger.LevelName(v))
	pterm.Info.Println("Press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return srv.ListenAndServe(ctx, addr)
}

// watchConfig reapplies the configuration whenever a cascade file changes.
// Only the sections that changed are rebuilt.
func watchConfig(reg *registry.Registry) (func(), error) {
	files := am.ConfigFiles()
	if len(files) == 0 {
		return func() {}, nil
	}

	watcher, err := am.NewConfigWatcher(files...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to watch config files")
	}
	watcher.OnReload(func(cfg *am.Config) error {
		logger.ConfigInfow("Configuration reloaded", logger.FieldFile, files)
		return reg.ApplyConfig(cfg)
	})
	watcher.Start()

	return func() {
		if err := watcher.Stop(); err != nil {
			logger.Warnw("Failed to stop config watcher", logger.FieldError, err)
		}
	}, nil
}
