package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"gioui.org/layout"
	"gioui.org/unit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipstash/internal/app"
	"go.klb.dev/clipstash/internal/autostart"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/control"
	"go.klb.dev/clipstash/internal/ipc"
	"go.klb.dev/clipstash/internal/monitor"
	"go.klb.dev/clipstash/internal/paths"
	"go.klb.dev/clipstash/internal/scheduler"
	"go.klb.dev/clipstash/internal/tray"
	"go.klb.dev/clipstash/internal/ui"
	"go.klb.dev/clipstash/internal/window"
)

func newRunCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runApp(v) },
	}

	pd := monitor.DefaultConfig()
	sd := scheduler.DefaultConfig()

	f := cmd.Flags()
	f.Duration("poll-interval", pd.Interval, "clipboard poll interval")
	f.Duration("poll-backoff", pd.Backoff, "sleep after a failed clipboard read")
	f.Bool("fatal-save-errors", false, "exit when the history cannot be written")
	f.Duration("frame-active", sd.Budgets.Active, "frame budget while the window is active")
	f.Duration("frame-drag", sd.Budgets.Drag, "frame budget while the window is dragged")
	f.Duration("frame-minimized", sd.Budgets.Minimized, "frame budget while the window is minimized")
	f.Duration("drag-timeout", sd.DragTimeout, "time after the last move before dragging ends")
	f.Duration("hidden-sleep", sd.HiddenSleep, "sleep per event while minimized")
	f.Int("trim-length", ui.TrimLength, "characters shown per entry when trimming is on")
	f.Float64("width", 800, "initial window width (dp)")
	f.Float64("height", 600, "initial window height (dp)")
	f.String("icon", "", "tray icon file (.ico, .png or .jpg; default built in)")
	f.Bool("no-tray", false, "do not create a tray icon")
	f.Bool("headless", false, "run without a window (implies --no-tray)")
	f.Bool("no-control", false, "do not listen on the control socket")
	f.String("data-dir", "", "directory for history.json (default per-OS data dir)")
	f.String("config-dir", "", "directory for preferences.json (default per-OS config dir)")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func schedulerConfig(v *viper.Viper) scheduler.Config {
	return scheduler.Config{
		Budgets: scheduler.Budgets{
			Drag:      v.GetDuration("frame-drag"),
			Active:    v.GetDuration("frame-active"),
			Minimized: v.GetDuration("frame-minimized"),
		},
		DragTimeout: v.GetDuration("drag-timeout"),
		HiddenSleep: v.GetDuration("hidden-sleep"),
	}
}

// launcher describes this executable to the autostart backend.
func launcher() autostart.Launcher {
	exe, err := os.Executable()
	if err != nil {
		slog.Warn("executable path unknown, autostart disabled", "err", err)
		return nil
	}
	return autostart.New(autostart.App{
		Name:        paths.AppName,
		Label:       "dev.klb.clipstash",
		DisplayName: app.Name,
		Exec:        exe,
	})
}

func runApp(v *viper.Viper) error {
	setupLogging(v)

	headless := v.GetBool("headless")
	useControl := !v.GetBool("no-control")
	sock := ipc.SocketPath()

	// Single instance: a second launch just shows the first one's window.
	if useControl && ipc.IsRunning(sock) {
		slog.Info("clipstash already running, showing it", "socket", sock)
		return withClient(sock, func(ctx context.Context, c *control.Client) error {
			return c.Show(ctx)
		})
	}

	backend := clip.New()
	mb := tray.NewMailbox()
	actx, err := app.New(app.Options{
		Dirs:      paths.Resolve(v.GetString("data-dir"), v.GetString("config-dir")),
		Clipboard: backend,
		Autostart: launcher(),
		Mailbox:   mb,
	})
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	slog.Info("clipstash starting",
		"version", app.Version,
		"clipboard", backend.Name(),
		"headless", headless,
		"entries", len(actx.Snapshot()),
	)

	mon := monitor.New(backend, actx.History, actx.Prefs, monitor.Config{
		Interval:        v.GetDuration("poll-interval"),
		Backoff:         v.GetDuration("poll-backoff"),
		FatalSaveErrors: v.GetBool("fatal-save-errors"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	fatal := make(chan error, 1)
	stop := func() {
		cancel()
		backend.Close()
	}

	startWorkers := func() {
		go func() {
			if err := mon.Run(ctx); err != nil {
				fatal <- fmt.Errorf("clipboard monitor: %w", err)
				mb.Send(tray.Quit)
			}
		}()

		if useControl {
			ln, err := ipc.Listen(sock)
			if err != nil {
				slog.Warn("control socket unavailable", "path", sock, "err", err)
			} else {
				go func() {
					if err := control.Serve(ctx, ln, control.New(actx)); err != nil {
						slog.Error("control server stopped", "err", err)
					}
				}()
			}
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case s := <-sig:
				slog.Info("signal received, quitting", "signal", s.String())
				mb.Send(tray.Quit)
			case <-ctx.Done():
			}
			signal.Stop(sig)
		}()
	}

	result := func(err error) error {
		stop()
		select {
		case ferr := <-fatal:
			return errors.Join(err, ferr)
		default:
		}
		if err == nil {
			slog.Info("clipstash stopped")
		}
		return err
	}

	cfg := schedulerConfig(v)

	if headless {
		hb := window.NewHeadless(time.Second)
		mb.SetWaker(hb.Wake)
		mon.OnCapture = func(string) { hb.Wake() }
		startWorkers()
		s := scheduler.New[struct{}](hb, mb, scheduler.SystemClock, cfg)
		return result(s.Run(func(struct{}, *scheduler.Control) {}))
	}

	var bridge *tray.Bridge
	if !v.GetBool("no-tray") {
		bridge = tray.New(mb, trayIcon(v.GetString("icon")))
		bridge.Start()
	}

	win := window.New(window.Options{
		Title:     app.Name,
		Width:     unit.Dp(v.GetFloat64("width")),
		Height:    unit.Dp(v.GetFloat64("height")),
		OnRestore: actx.Show,
	})
	mb.SetWaker(win.Wake)
	mon.OnCapture = func(string) { win.Invalidate() }
	view := ui.NewView(actx, ui.NewTheme(), v.GetInt("trim-length"))

	window.Main(func() error {
		startWorkers()
		s := scheduler.New[layout.Context](win, mb, scheduler.SystemClock, cfg)
		err := s.Run(view.Draw)
		if bridge != nil {
			bridge.Stop()
		}
		return result(err)
	})
	return nil
}

// trayIcon loads path, or the icon shipped in resources/ next to the
// executable, falling back to the built-in icon.
func trayIcon(path string) []byte {
	if path == "" {
		if icon, err := tray.LoadIcon(bundledIcon()); err == nil {
			return icon
		}
		return tray.DefaultIcon()
	}
	icon, err := tray.LoadIcon(path)
	if err != nil {
		slog.Warn("tray icon not loaded, using default", "path", path, "err", err)
		return tray.DefaultIcon()
	}
	return icon
}

func bundledIcon() string {
	name := "icon.png"
	if runtime.GOOS == "windows" {
		name = "window.ico"
	}
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), "resources", name)
}
