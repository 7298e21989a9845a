package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/robertgvds/vision-games/internal/app"
	"github.com/robertgvds/vision-games/internal/capture"
	"github.com/robertgvds/vision-games/internal/config"
	"github.com/robertgvds/vision-games/internal/detector"
	"github.com/robertgvds/vision-games/internal/logging"
	"github.com/robertgvds/vision-games/internal/plugin"
	"github.com/robertgvds/vision-games/internal/server"
	"github.com/robertgvds/vision-games/internal/store"
	"github.com/robertgvds/vision-games/internal/tray"
)

func main() {
	env, err := config.Load()
	if err != nil {
		config.Exitf("Failed to load config: %v", err)
	}

	log, err := logging.New(logging.Config{Level: env.LogLevel, Dir: env.LogDir})
	if err != nil {
		config.Exitf("Failed to create logger: %v", err)
	}
	log.Info("Vision Games - hand and face controlled minigames")

	tuning, err := config.LoadTuning(env.TuningFile)
	if err != nil {
		config.Exitf("Failed to load tuning: %v", err)
	}

	if err := os.MkdirAll(env.DataDir, 0755); err != nil {
		config.Exitf("Failed to create data directory: %v", err)
	}
	st, err := store.New(env.DatabasePath())
	if err != nil {
		config.Exitf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	source := capture.NewSource(
		capture.NewCamera(capture.CameraConfig{
			DeviceID: env.CameraID,
			Width:    env.CameraWidth,
			Height:   env.CameraHeight,
			FPS:      env.CameraFPS,
			Mirror:   env.Mirror,
		}),
		newDetector(env, log),
	)

	plugins := plugin.NewManager(env.PluginDir, log)
	if err := plugins.Discover(); err != nil {
		log.WithError(err).Warn("discover plugins")
	}

	// The tray needs the app, so it is bound after the app exists.
	var menu atomic.Pointer[tray.Tray]
	sinks := []app.ResultSink{
		app.NewStoreSink(st),
		plugin.NewSink(plugins, plugin.NewExecutor(env.PluginTimeout)),
		app.SinkFunc(func(ctx context.Context, o app.Outcome) error {
			if t := menu.Load(); t != nil {
				return t.Report(ctx, o)
			}
			return nil
		}),
	}

	games := app.New(app.Config{
		Tuning:     tuning,
		Source:     source,
		HighScores: st.HighScores(),
		Sinks:      sinks,
		Log:        log,
	})
	if err := games.Start(); err != nil {
		config.Exitf("Failed to start capture: %v", err)
	}
	defer games.Stop()

	webDir := env.StaticDir
	if webDir == "" {
		webDir = findWebDir(env.DataDir)
	}
	if webDir != "" {
		log.WithField("dir", webDir).Info("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Games:     games,
		Views:     games.Views(),
		Frames:    games.Frames(),
		Log:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(env.HTTPAddr)
	}()

	if env.Game != "" {
		game, err := app.ParseGame(env.Game)
		if err == nil {
			_, err = games.StartGame(game, env.Players)
		}
		if err != nil {
			log.WithError(err).Error("start game")
		}
	}

	if env.NoTray {
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil {
				log.WithError(err).Error("server failed")
			}
		}
	} else {
		t := tray.New(games, log)
		menu.Store(t)
		t.OnOpen(func() { openBrowser(log, "http://"+env.HTTPAddr) })
		t.OnQuit(stop)
		go func() {
			select {
			case <-ctx.Done():
			case err := <-serveErr:
				if err != nil {
					log.WithError(err).Error("server failed")
				}
			}
			t.Quit()
		}()
		t.Run()
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
}

// newDetector starts the MediaPipe landmark service, falling back to a
// detector that never sees anyone when the service is not installed.
func newDetector(env *config.Env, log logrus.FieldLogger) detector.Detector {
	cfg := detector.DefaultConfig()
	cfg.ScriptPath = env.MediaPipeScript

	det, err := detector.NewMediaPipeDetector(cfg, log)
	if err != nil {
		if errors.Is(err, detector.ErrServiceNotFound) {
			log.Warn("mediapipe service not found, games will see no players")
			return detector.NewMockDetector()
		}
		config.Exitf("Failed to create detector: %v", err)
	}
	return det
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and web inside the data dir.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func openBrowser(log logrus.FieldLogger, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.WithError(err).WithField("url", url).Warn("open browser")
	}
}
