package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"windowbox/assets/icon"
	"windowbox/internal/app"
	"windowbox/internal/backdrop"
	"windowbox/internal/config"
	"windowbox/internal/constants"
	"windowbox/internal/dialog"
	"windowbox/internal/logging"
	"windowbox/internal/window"
)

var (
	windowTitle  string
	windowHandle uint64
	width        int
	height       int

	bgColor      string
	bgGradient   string
	bgImage      string
	bgScreenshot bool
	bgFit        string

	pollInterval time.Duration
	wait         time.Duration
	noKill       bool

	configPath  string
	initConfig  bool
	logFile     string
	debug       bool
	showVersion bool
)

var flags *flag.FlagSet

// parseFlags builds a fresh flag set over the package flag vars. Parse
// errors come back to the caller instead of exiting: even a malformed
// command line has to end in the dialog-log-and-exit-0 path.
func parseFlags(args []string) error {
	flags = flag.NewFlagSet(constants.AppName, flag.ContinueOnError)
	flags.StringVar(&windowTitle, "window-title", "", "Title of the window to embed (exact match, then substring)")
	flags.Uint64Var(&windowHandle, "window-handle", 0, "Native handle of the window to embed")
	flags.IntVar(&width, "width", -1, "Target width in pixels (-1 keep current, 0 fill host)")
	flags.IntVar(&height, "height", -1, "Target height in pixels (-1 keep current, 0 fill host)")
	flags.StringVar(&bgColor, "background-color", "", "Solid backdrop color as six hex digits, e.g. 1A2B3C")
	flags.StringVar(&bgGradient, "background-gradient", "", "Vertical gradient as two hex colors, e.g. 000000;335577")
	flags.StringVar(&bgImage, "background-image", "", "Path to a png, jpeg or bmp backdrop image")
	flags.BoolVar(&bgScreenshot, "background-screenshot", false, "Capture the desktop as the backdrop before embedding")
	flags.StringVar(&bgFit, "background-fit", backdrop.FitFill, "Image fit mode: stretch, fit, fill or center")
	flags.DurationVar(&pollInterval, "poll-interval", 500*time.Millisecond, "Interval between window drift checks, e.g. 250ms")
	flags.DurationVar(&wait, "wait", 0, "How long to keep retrying the title lookup, e.g. 10s")
	flags.BoolVar(&noKill, "no-kill", false, "Release the window on close instead of terminating its process")
	flags.StringVar(&configPath, "config", "", "Config file path (default per-user config dir)")
	flags.BoolVar(&initConfig, "init-config", false, "Write a default config file and exit")
	flags.StringVar(&logFile, "log-file", "", "Log file path (default per-user cache dir)")
	flags.BoolVar(&debug, "debug", false, "Debug logging and start with the status overlay visible")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	return flags.Parse(args)
}

// applyFlags overlays explicitly set flags onto the file config.
func applyFlags(cfg *config.Config) {
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "background-color":
			cfg.Background.Color = bgColor
		case "background-gradient":
			cfg.Background.Gradient = bgGradient
		case "background-image":
			cfg.Background.Image = bgImage
		case "background-screenshot":
			cfg.Background.Screenshot = bgScreenshot
		case "background-fit":
			cfg.Background.Fit = bgFit
		case "poll-interval":
			cfg.Window.PollIntervalMS = int(pollInterval.Milliseconds())
		case "wait":
			cfg.Window.WaitMS = int(wait.Milliseconds())
		case "no-kill":
			cfg.Window.KillOnClose = !noKill
		case "log-file":
			cfg.Log.File = logFile
		case "debug":
			cfg.Log.Debug = debug
		}
	})
}

func main() {
	if err := parseFlags(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log, closeLog := logging.New(logFile, debug)
		defer closeLog()
		fatal(log, err)
		return
	}

	if showVersion {
		fmt.Println(constants.AppName + " " + constants.Version)
		return
	}

	if initConfig {
		path, err := config.DefaultConfig().Save(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: write config: %v\n", constants.AppName, err)
			return
		}
		fmt.Println("wrote", path)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
		applyFlags(cfg)
		log, closeLog := logging.New(cfg.Log.File, cfg.Log.Debug)
		defer closeLog()
		fatal(log, fmt.Errorf("load config: %w", err))
		return
	}
	applyFlags(cfg)

	log, closeLog := logging.New(cfg.Log.File, cfg.Log.Debug)
	defer closeLog()

	// The program never exits non-zero: the launcher watching us must
	// not mistake our own failures for the game's.
	defer func() {
		if r := recover(); r != nil {
			fatal(log, fmt.Errorf("panic: %v", r))
		}
	}()

	log.Infow("starting", "version", constants.Version, "pid", os.Getpid())

	if err := run(cfg, log); err != nil {
		fatal(log, err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.ValidateTarget(windowTitle, windowHandle); err != nil {
		return err
	}
	if err := config.ValidateSize(width, height); err != nil {
		return err
	}

	// Screenshot backdrops must be grabbed before our window appears.
	spec, err := buildBackdrop(cfg, log)
	if err != nil {
		return err
	}

	mgr := window.New()

	target, err := locateTarget(mgr, cfg.Wait(), log)
	if err != nil {
		return err
	}

	pid, err := mgr.OwnerPID(target)
	if err != nil {
		return fmt.Errorf("owner pid: %w", err)
	}
	log.Infow("target found",
		"handle", fmt.Sprintf("%#x", uintptr(target)),
		"title", mgr.Title(target),
		"pid", pid)

	exit, err := window.WatchExit(pid)
	if err != nil {
		// Without a process handle the window poll still detects the exit.
		log.Warnw("cannot watch target process", "pid", pid, "error", err)
		exit = make(chan struct{})
	}

	a := app.New(app.Options{
		Manager:     mgr,
		Target:      target,
		Exit:        exit,
		Backdrop:    backdrop.New(spec),
		Width:       width,
		Height:      height,
		PollTicks:   app.TicksFor(cfg.PollInterval()),
		HostPID:     os.Getpid(),
		ShowOverlay: cfg.Log.Debug,
		Log:         log,
	})

	// Configure the host window
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle(constants.AppName)
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetFullscreen(true)

	runErr := ebiten.RunGame(a)

	// The host window dies with us; an embedded child would die too, so
	// every path below either kills the process deliberately or detaches
	// the window first.
	if a.Embedded() {
		if runErr == nil && cfg.Window.KillOnClose {
			if window.Alive(pid) {
				log.Infow("terminating target process", "pid", pid)
				if err := window.Terminate(pid); err != nil {
					log.Warnw("terminate target process", "pid", pid, "error", err)
				}
			}
		} else if mgr.IsAlive(target) {
			log.Infow("releasing target window", "handle", fmt.Sprintf("%#x", uintptr(target)))
			if err := mgr.Release(target); err != nil {
				log.Warnw("release target window", "error", err)
			}
		}
	}
	return runErr
}

// locateTarget resolves the target by handle, or by title with retries
// until the wait deadline passes. At least one attempt is always made.
func locateTarget(mgr window.Manager, wait time.Duration, log *zap.SugaredLogger) (window.Handle, error) {
	if windowHandle != 0 {
		return mgr.FromHandle(windowHandle)
	}

	deadline := time.Now().Add(wait)
	for {
		h, err := mgr.FindByTitle(windowTitle)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, window.ErrNotFound) {
			return 0, err
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("no window titled %q", windowTitle)
		}
		log.Debugw("target not found yet, retrying", "title", windowTitle)
		time.Sleep(250 * time.Millisecond)
	}
}

// buildBackdrop turns the winning backdrop source into a paintable spec.
func buildBackdrop(cfg *config.Config, log *zap.SugaredLogger) (backdrop.Spec, error) {
	bg := cfg.Background
	switch backdrop.PickSource(bg.Image, bg.Screenshot, bg.Gradient, bg.Color) {
	case backdrop.SourceImage:
		return backdrop.LoadFile(bg.Image, bg.Fit)
	case backdrop.SourceScreenshot:
		spec, err := backdrop.CaptureScreen(bg.Fit)
		if err != nil {
			// Cosmetic, so fall back rather than abort.
			log.Warnw("screen capture failed, using black backdrop", "error", err)
			return backdrop.Spec{}, nil
		}
		return spec, nil
	case backdrop.SourceGradient:
		top, bottom, err := backdrop.ParseGradient(bg.Gradient)
		if err != nil {
			return backdrop.Spec{}, err
		}
		return backdrop.Gradient(top, bottom), nil
	case backdrop.SourceColor:
		c, err := backdrop.ParseHexColor(bg.Color)
		if err != nil {
			return backdrop.Spec{}, err
		}
		return backdrop.Solid(c), nil
	}
	return backdrop.Spec{}, nil
}

// fatal reports an unrecoverable error and returns. The process still
// exits 0; the dialog and the log entry are the only signals.
func fatal(log *zap.SugaredLogger, err error) {
	log.Errorw("fatal", "error", err)
	dialog.Fatal(constants.AppName, err.Error())
}
