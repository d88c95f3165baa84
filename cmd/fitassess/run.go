package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/fitassess/internal/app"
	"github.com/ayusman/fitassess/internal/capture"
	"github.com/ayusman/fitassess/internal/config"
	"github.com/ayusman/fitassess/internal/server"
	"github.com/ayusman/fitassess/internal/store"
	"github.com/ayusman/fitassess/internal/tray"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	var (
		recordPath string
		saveOnExit bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a live assessment from the camera",
		Long: `run reads the camera, scores the selected exercises and serves the
assessment controls and live status over HTTP on --addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd.Context(), cfg, recordPath, saveOnExit)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "camera device id")
	f.IntVar(&cfg.Width, "width", cfg.Width, "capture width in pixels")
	f.IntVar(&cfg.Height, "height", cfg.Height, "capture height in pixels")
	f.IntVar(&cfg.FPS, "fps", cfg.FPS, "capture frames per second")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	f.BoolVar(&cfg.Tray, "tray", cfg.Tray, "show the system tray menu")
	f.StringVar(&recordPath, "record", "", "write every processed frame to this JSON lines file")
	f.BoolVar(&saveOnExit, "save-on-exit", false, "save results when the command exits")
	return cmd
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath := cfg.Database()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return store.New(dbPath)
}

func newApp(cfg *config.Config, st *store.Store, record io.Writer) (*app.App, error) {
	steps, err := parseSteps(cfg)
	if err != nil {
		return nil, err
	}

	a, err := app.New(app.Config{
		Camera: capture.Options{
			DeviceID: cfg.CameraID,
			Width:    cfg.Width,
			Height:   cfg.Height,
			FPS:      cfg.FPS,
		},
		UserHeightCm: cfg.UserHeightCm,
		Steps:        steps,
		ResultsCSV:   cfg.ResultsCSV,
		Store:        st,
		PluginDir:    cfg.PluginDir,
		Record:       record,
	})
	if err != nil {
		return nil, err
	}

	if err := a.DiscoverPlugins(); err != nil {
		slog.Warn("plugin discovery failed", "dir", cfg.PluginDir, "error", err)
	}
	return a, nil
}

func runLive(ctx context.Context, cfg *config.Config, recordPath string, saveOnExit bool) error {
	ctx, cancel := signalContext(ctx)
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var record io.Writer
	if recordPath != "" {
		f, err := os.Create(recordPath)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer f.Close()
		record = f
	}

	a, err := newApp(cfg, st, record)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}
	// Stop flushes the recording, so it runs before the file closes.
	defer a.Stop()

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		slog.Info("serving static files", "dir", webDir)
	}
	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Controller: a,
	})

	if cfg.Tray {
		err = runWithTray(ctx, cancel, srv, a, cfg.Addr)
	} else {
		err = srv.Run(ctx, cfg.Addr)
	}

	if saveOnExit {
		a.Stop()
		report(os.Stdout, a.Status(), a.Save(context.Background()))
	}
	return err
}

// runWithTray keeps the tray on the calling goroutine, which macOS requires,
// and serves HTTP in the background until either side quits.
func runWithTray(ctx context.Context, cancel context.CancelFunc, srv *server.Server, a *app.App, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx, addr)
		cancel()
	}()

	t := tray.New(a)
	t.OnQuit(cancel)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()

	cancel()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// findWebDir searches for a web UI directory in common locations.
// It checks "web", "../web", "../../web" and then <dataDir>/web.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
