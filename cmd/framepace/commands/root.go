package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/junsooki/framepace/internal/config"
	"github.com/junsooki/framepace/internal/display"
	"github.com/junsooki/framepace/internal/encoder"
	"github.com/junsooki/framepace/internal/logger"
	"github.com/junsooki/framepace/internal/metrics"
	"github.com/junsooki/framepace/internal/pipeline"
	"github.com/junsooki/framepace/internal/presenter"
	"github.com/junsooki/framepace/internal/snapshot"
	"github.com/junsooki/framepace/internal/source"
)

var rootCmd = &cobra.Command{
	Use:   "framepace <video>",
	Short: "Play a video file at its native frame rate",
	Long: `framepace decodes a local video file, shows it in a window paced to the
source frame rate and re-encodes every displayed frame as a JPEG for
inspection. The most recent frame is kept as output.jpg and output.bmp.

Settings are read from framepace.yaml (or .toml) in the working directory or
~/.config/framepace, and from FRAMEPACE_* environment variables.`,
	Example: `  # Play a clip
  framepace ./assets/video.mp4

  # Play with a higher diagnostic JPEG quality and debug timings
  FRAMEPACE_QUALITY=80 FRAMEPACE_LOG_LEVEL=debug framepace ./assets/video.mp4`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runPlay,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, cfgFile, err := config.Load(config.DefaultSearchPaths()...)
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	log := logger.Logger.With().Str("session", uuid.NewString()).Logger()
	if cfgFile != "" {
		log.Info().Str("file", cfgFile).Msg("configuration loaded")
	}

	overlay, err := cfg.PresenterOverlay()
	if err != nil {
		return err
	}

	src, err := source.Open(args[0])
	if err != nil {
		return err
	}
	stream := src.Stream()
	log.Info().
		Str("path", stream.Path).
		Dur("duration", stream.Duration).
		Int("frames", stream.FrameCount).
		Dur("interval", stream.FrameInterval()).
		Int("width", stream.Width).
		Int("height", stream.Height).
		Int("quality", cfg.Quality).
		Msg("stream opened")

	disp := display.NewEbitenDisplay(display.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
	})
	m := metrics.New()

	pcfg := pipeline.Config{
		Interval:  stream.FrameInterval(),
		Quality:   cfg.Quality,
		Source:    src,
		Encoder:   encoder.NewJPEGEncoder(),
		Presenter: presenter.New(disp, overlay),
		Metrics:   m,
		Logger:    &log,
	}
	if cfg.Snapshot.JPEGPath != "" || cfg.Snapshot.BMPPath != "" {
		pcfg.Sink = snapshot.NewWriter(cfg.Snapshot.JPEGPath, cfg.Snapshot.BMPPath)
	}
	driver, err := pipeline.New(pcfg)
	if err != nil {
		src.Close()
		return err
	}

	// Ebitengine RunGame must be on the main goroutine.
	runErr := disp.Run(driver)
	driver.Close()

	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		log.Warn().Err(err).Str("file", cfg.MetricsFile).Msg("metrics not written")
	}
	log.Info().
		Uint64("frames", driver.FrameIndex()).
		Int("decoded", src.Decoded()).
		Stringer("state", driver.State()).
		Msg("playback finished")
	return runErr
}
