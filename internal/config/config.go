package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/junsooki/framepace/internal/presenter"
)

// Config holds all runtime configuration. The input video path is not part of
// it; it is the single positional argument.
type Config struct {
	Quality     int            `mapstructure:"quality"`
	Window      WindowConfig   `mapstructure:"window"`
	Overlay     OverlayConfig  `mapstructure:"overlay"`
	Snapshot    SnapshotConfig `mapstructure:"snapshot"`
	MetricsFile string         `mapstructure:"metrics_file"`
	LogLevel    string         `mapstructure:"log_level"`
	LogPretty   bool           `mapstructure:"log_pretty"`
}

// WindowConfig sizes the playback window.
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// OverlayConfig is the annotation rectangle. Colors are #RRGGBB or #RRGGBBAA.
type OverlayConfig struct {
	X           float32 `mapstructure:"x"`
	Y           float32 `mapstructure:"y"`
	Width       float32 `mapstructure:"width"`
	Height      float32 `mapstructure:"height"`
	StrokeWidth float32 `mapstructure:"stroke_width"`
	Stroke      string  `mapstructure:"stroke"`
	Fill        string  `mapstructure:"fill"`
}

// SnapshotConfig locates the most-recent-frame files. Empty disables a format.
type SnapshotConfig struct {
	JPEGPath string `mapstructure:"jpeg_path"`
	BMPPath  string `mapstructure:"bmp_path"`
}

// EnvPrefix prefixes every environment override, e.g. FRAMEPACE_QUALITY.
const EnvPrefix = "FRAMEPACE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("quality", 10)
	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 1036)
	v.SetDefault("window.title", "framepace")
	v.SetDefault("overlay.x", 0)
	v.SetDefault("overlay.y", 0)
	v.SetDefault("overlay.width", 100)
	v.SetDefault("overlay.height", 100)
	v.SetDefault("overlay.stroke_width", 2)
	v.SetDefault("overlay.stroke", "#000000ff")
	v.SetDefault("overlay.fill", "#00000000")
	v.SetDefault("snapshot.jpeg_path", "output.jpg")
	v.SetDefault("snapshot.bmp_path", "output.bmp")
	v.SetDefault("metrics_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
}

// DefaultSearchPaths are the directories searched for framepace.{yaml,toml}.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "framepace"))
	}
	return paths
}

// Load reads defaults, an optional framepace config file from the given
// directories, and FRAMEPACE_* environment overrides, in increasing priority.
func Load(searchPaths ...string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("framepace")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be 0-100, got %d", c.Quality)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Overlay.StrokeWidth < 0 || c.Overlay.Width < 0 || c.Overlay.Height < 0 {
		return fmt.Errorf("overlay geometry must not be negative")
	}
	if _, err := c.PresenterOverlay(); err != nil {
		return err
	}
	return nil
}

// PresenterOverlay converts the overlay settings for the presenter.
func (c *Config) PresenterOverlay() (presenter.Overlay, error) {
	stroke, err := parseColor(c.Overlay.Stroke)
	if err != nil {
		return presenter.Overlay{}, fmt.Errorf("overlay stroke: %w", err)
	}
	fill, err := parseColor(c.Overlay.Fill)
	if err != nil {
		return presenter.Overlay{}, fmt.Errorf("overlay fill: %w", err)
	}
	return presenter.Overlay{
		X:           c.Overlay.X,
		Y:           c.Overlay.Y,
		Width:       c.Overlay.Width,
		Height:      c.Overlay.Height,
		StrokeWidth: c.Overlay.StrokeWidth,
		Stroke:      stroke,
		Fill:        fill,
	}, nil
}

func parseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}
