package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"windowbox/internal/backdrop"
)

type Config struct {
	Window     WindowConfig     `toml:"window"`
	Background BackgroundConfig `toml:"background"`
	Log        LogConfig        `toml:"log"`
}

type WindowConfig struct {
	PollIntervalMS int  `toml:"poll_interval_ms"`
	WaitMS         int  `toml:"wait_ms"`
	KillOnClose    bool `toml:"kill_on_close"`
}

type BackgroundConfig struct {
	Color      string `toml:"color"`
	Gradient   string `toml:"gradient"`
	Image      string `toml:"image"`
	Screenshot bool   `toml:"screenshot"`
	Fit        string `toml:"fit"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			PollIntervalMS: 500,
			WaitMS:         0,
			KillOnClose:    true,
		},
		Background: BackgroundConfig{
			Fit: backdrop.FitFill,
		},
		Log: LogConfig{},
	}
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "windowbox"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path, or at the default location when path is
// empty. A missing file at the default location yields the defaults; an
// explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config and returns the path it was written to.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Window.PollIntervalMS) * time.Millisecond
}

func (c *Config) Wait() time.Duration {
	return time.Duration(c.Window.WaitMS) * time.Millisecond
}

// Validate checks everything that can be checked before any window
// exists. Failures here are fatal at startup.
func (c *Config) Validate() error {
	if c.Window.PollIntervalMS <= 0 {
		return fmt.Errorf("poll interval must be positive, got %dms", c.Window.PollIntervalMS)
	}
	if c.Window.WaitMS < 0 {
		return fmt.Errorf("wait must not be negative, got %dms", c.Window.WaitMS)
	}
	if c.Background.Color != "" {
		if _, err := backdrop.ParseHexColor(c.Background.Color); err != nil {
			return err
		}
	}
	if c.Background.Gradient != "" {
		if _, _, err := backdrop.ParseGradient(c.Background.Gradient); err != nil {
			return err
		}
	}
	if !backdrop.ValidFit(c.Background.Fit) {
		return fmt.Errorf("unknown fit mode %q (want stretch, fit, fill or center)", c.Background.Fit)
	}
	return nil
}

// ValidateTarget enforces the one-of contract between the window-title
// and window-handle flags.
func ValidateTarget(title string, handle uint64) error {
	if title == "" && handle == 0 {
		return errors.New("one of -window-title or -window-handle is required")
	}
	if title != "" && handle != 0 {
		return errors.New("-window-title and -window-handle are mutually exclusive")
	}
	return nil
}

// ValidateSize rejects sizes below the -1 keep-current sentinel.
func ValidateSize(width, height int) error {
	if width < -1 || height < -1 {
		return fmt.Errorf("width and height must be -1, 0 or positive, got %d and %d", width, height)
	}
	return nil
}
