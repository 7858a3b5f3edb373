package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start gesture detection",
	Long: `Open the camera and turn stable hand gestures into actions.

Flags override values from the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	registerRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func registerRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("camera", 0, "camera device index")
	f.Int("width", 0, "capture width in pixels")
	f.Int("height", 0, "capture height in pixels")
	f.Bool("mirror", true, "flip frames horizontally before detection")
	f.Float64("detection-confidence", 0, "minimum hand detection confidence (0-1)")
	f.Float64("tracking-confidence", 0, "minimum hand tracking confidence (0-1)")
	f.Int("buffer-size", 0, "number of frames in the smoothing window")
	f.Int("threshold", 0, "votes a gesture needs within the window")
	f.Float64("cooldown", 0, "seconds between dispatched gestures")
	f.String("dispatch", "", `"plugin" to run actions or "log" for a dry run`)
	f.String("plugin-dir", "", "directory containing action plugins")
	f.String("data-dir", "", "directory for the bindings database")
	f.String("listen", "", `HTTP API address, "" keeps the configured value, "off" disables it`)
	f.Bool("tray", false, "show the system tray menu")
	f.Bool("debug", false, "log every frame's classification")
}

// applyFlags copies explicitly set flags over cfg and validates the result.
func applyFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	f := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && f.Changed(name) {
			err = apply()
		}
	}

	set("camera", func() (e error) { cfg.CameraIndex, e = f.GetInt("camera"); return })
	set("width", func() (e error) { cfg.FrameWidth, e = f.GetInt("width"); return })
	set("height", func() (e error) { cfg.FrameHeight, e = f.GetInt("height"); return })
	set("mirror", func() (e error) { cfg.Mirror, e = f.GetBool("mirror"); return })
	set("detection-confidence", func() (e error) { cfg.DetectionConfidence, e = f.GetFloat64("detection-confidence"); return })
	set("tracking-confidence", func() (e error) { cfg.TrackingConfidence, e = f.GetFloat64("tracking-confidence"); return })
	set("buffer-size", func() (e error) { cfg.BufferSize, e = f.GetInt("buffer-size"); return })
	set("threshold", func() (e error) { cfg.Threshold, e = f.GetInt("threshold"); return })
	set("cooldown", func() (e error) { cfg.CooldownSeconds, e = f.GetFloat64("cooldown"); return })
	set("dispatch", func() (e error) { cfg.Dispatch, e = f.GetString("dispatch"); return })
	set("plugin-dir", func() (e error) { cfg.PluginDir, e = f.GetString("plugin-dir"); return })
	set("data-dir", func() (e error) { cfg.DataDir, e = f.GetString("data-dir"); return })
	set("listen", func() (e error) {
		cfg.Listen, e = f.GetString("listen")
		if cfg.Listen == "off" {
			cfg.Listen = ""
		}
		return
	})
	set("tray", func() (e error) { cfg.Tray, e = f.GetBool("tray"); return })
	set("debug", func() (e error) { cfg.Debug, e = f.GetBool("debug"); return })
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err = applyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if n, err := action.SeedDefaults(st.Bindings()); err != nil {
		return err
	} else if n > 0 {
		log.Printf("Seeded %d default bindings", n)
	}

	table, err := action.LoadTable(st.Bindings())
	if err != nil {
		return err
	}
	log.Printf("Loaded %d bindings", len(table))

	dispatcher, err := newDispatcher(cfg, table)
	if err != nil {
		return err
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        1,
		MinConfidence:   cfg.DetectionConfidence,
		MinTrackingConf: cfg.TrackingConfidence,
	})
	if err != nil {
		return fmt.Errorf("hand detector unavailable: %w", err)
	}

	cam := capture.NewCamera(cfg.CameraIndex, cfg.FrameWidth, cfg.FrameHeight)
	a := app.New(cfg, cam, det, dispatcher)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Listen != "" {
		hub := server.NewEventHub()
		a.OnDispatch(hub.Publish)
		srv := server.New(server.Config{Store: st, App: a, Hub: hub})
		go func() {
			if err := srv.Run(ctx, cfg.Listen); err != nil {
				log.Printf("HTTP API stopped: %v", err)
			}
		}()
	}

	if !cfg.Tray {
		return a.Run(ctx)
	}

	t := tray.New(a)
	t.OnQuit(stop)
	t.OnSettings(func() {
		if cfg.Listen != "" {
			log.Printf("Status: http://%s/api/status", cfg.Listen)
		}
	})
	a.OnDispatch(func(ev app.Event) { t.SetLastGesture(string(ev.Gesture)) })

	// The tray must own the main goroutine.
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()
	t.Run()
	stop()

	return <-errCh
}

func newDispatcher(cfg config.Config, table action.Table) (action.Dispatcher, error) {
	if cfg.Dispatch == config.DispatchLog {
		log.Println("Dry run: actions are logged, not executed")
		return action.NewLogDispatcher(table), nil
	}

	plugins := plugin.NewManager(cfg.PluginDir)
	if err := plugins.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins: %w", err)
	}
	log.Printf("Discovered %d plugins in %s", len(plugins.List()), cfg.PluginDir)

	d := action.NewPluginDispatcher(table, plugins, plugin.NewExecutor(plugin.DefaultTimeout))
	for _, err := range d.Validate() {
		log.Printf("Warning: %v", err)
	}
	return d, nil
}
