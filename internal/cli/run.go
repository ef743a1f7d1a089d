package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"debugdeck/internal/config"
	"debugdeck/internal/console"
	"debugdeck/internal/kvstore"
	"debugdeck/internal/panel"
	"debugdeck/internal/telemetry"
	"debugdeck/internal/ui"
)

// dbPollInterval is how often the TUI checks for writes by other processes,
// such as the db subcommands.
const dbPollInterval = 500 * time.Millisecond

type runFlags struct {
	ingestPort   int
	otlpEndpoint string
	open         []string
}

func addRunFlags(root *cobra.Command, g *globalFlags) {
	f := &runFlags{}
	root.Flags().IntVar(&f.ingestPort, "ingest-port", -1, "port for POST /log into the console (0 disables)")
	root.Flags().StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP trace endpoint, e.g. localhost:4318")
	root.Flags().StringSliceVar(&f.open, "open", []string{ui.ToolToolbox}, "tools opened at start")
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := g.loadConfig()
		if err != nil {
			return err
		}
		if f.ingestPort >= 0 {
			cfg.Console.IngestPort = f.ingestPort
		}
		if f.otlpEndpoint != "" {
			cfg.Telemetry.Endpoint = f.otlpEndpoint
		}
		return runDeck(cmd.Context(), cfg, f.open)
	}
}

// newLogger builds the program logger: records go to the console sink and,
// when a log file is configured, to that file as well.
func newLogger(cfg config.LogConfig, sink *console.Sink) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.File == "" {
		return slog.New(console.NewHandler(sink, level, nil)), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	next := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(console.NewHandler(sink, level, next)), f, nil
}

func runDeck(ctx context.Context, cfg *config.Config, open []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sink := console.NewSink(cfg.Console.Capacity)
	logger, logFile, err := newLogger(cfg.Log, sink)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	tp, err := telemetry.New(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	tp.Install()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry shutdown: %v\n", err)
		}
	}()

	deps := ui.Deps{
		Sink:         sink,
		DatabaseRoot: cfg.Database.Root,
		Tracer:       tp.Tracer(),
		Logger:       logger,
		Shell:        os.Getenv("SHELL"),
	}

	store, err := kvstore.Open(ctx, cfg.Database.Path, kvstore.Options{
		Tracer:       tp.Tracer(),
		Logger:       logger,
		PollInterval: dbPollInterval,
	})
	if err != nil {
		// the deck still runs; the database panel shows the failure
		logger.Error("open database", "path", cfg.Database.Path, "err", err)
	} else {
		defer store.Close()
		deps.Store = store
	}

	if cfg.Console.IngestPort > 0 {
		srv := console.NewServer(sink, cfg.Console.IngestPort, logger)
		if err := srv.Start(); err != nil {
			logger.Error("console ingest", "err", err)
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Stop(sctx)
			}()
		}
	}

	anchor, err := panel.ParseAnchor(cfg.Panel.Anchor)
	if err != nil {
		return err
	}
	model := ui.NewAppModel(ui.Options{
		Deps:        deps,
		Theme:       ui.ThemeFromConfig(cfg.Theme),
		DefaultSize: panel.Size{W: cfg.Panel.Width, H: cfg.Panel.Height},
		Anchor:      anchor,
		DoubleClick: cfg.Panel.DoubleClick(),
		Startup:     open,
		Logger:      logger,
	})
	logger.Info("debugdeck started", "version", version, "db", cfg.Database.Path, "tracing", tp.Enabled())

	p := tea.NewProgram(model.AsTeaModel(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
