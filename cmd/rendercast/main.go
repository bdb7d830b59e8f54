// Package main provides the CLI entry point for rendercast.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/rendercast/pkg/adapters/chromescene"
	"github.com/user/rendercast/pkg/adapters/ffmpegencoder"
	"github.com/user/rendercast/pkg/adapters/ggscene"
	"github.com/user/rendercast/pkg/adapters/logger"
	"github.com/user/rendercast/pkg/adapters/mp4probe"
	"github.com/user/rendercast/pkg/adapters/osfilesystem"
	"github.com/user/rendercast/pkg/capture"
	"github.com/user/rendercast/pkg/config"
	"github.com/user/rendercast/pkg/orchestrator"
	"github.com/user/rendercast/pkg/ports"
	"github.com/user/rendercast/pkg/timeline"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Render  RenderCmd  `cmd:"" help:"Render a composition to an MP4 file."`
	Probe   ProbeCmd   `cmd:"" help:"Summarize a rendered MP4 file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// RenderCmd defines the render subcommand.
type RenderCmd struct {
	// Required unless supplied by the config file
	Composition string `arg:"" optional:"" help:"Composition description file (YAML)."`
	Output      string `short:"o" help:"Output MP4 file path."`

	// Run configuration file; flags override its values.
	Config string `short:"c" help:"Run configuration file (YAML)."`

	// Scene evaluation
	Scene      string `default:"demo" enum:"demo,html" help:"Scene evaluator (demo or html)."`
	SceneURL   string `help:"Composition page URL for the html evaluator (file:// or http(s)://)."`
	ChromePath string `help:"Path to Chrome executable (falls back to CHROME_PATH env, then system default)."`
	NoHeadless bool   `help:"Run the html evaluator's browser in non-headless mode."`

	// Pipeline
	BufferSize      int `help:"Frame pipeline capacity (default 5)."`
	NotifierTimeout int `help:"Side-channel wait timeout per frame in milliseconds (default 5000)."`

	// Encoding overrides
	Quality string `short:"q" help:"Quality preset (low, medium, high, lossless), overrides the composition."`
	CRF     *int   `help:"Explicit CRF value (0-51), overrides the quality preset."`

	// Encoder binary
	FFmpegPath string `help:"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)."`

	// Logging
	LogLevel string `short:"l" help:"Log level (debug, info, warn, error; default info)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	File string `arg:"" help:"Rendered MP4 file path."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("rendercast"),
		kong.Description("Render frame-indexed compositions into media files."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the render command.
func (cmd *RenderCmd) Run() error {
	runCfg, err := cmd.loadRunConfig()
	if err != nil {
		return err
	}

	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(runCfg.LogLevel))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()

	compositionPath := cmd.Composition
	if compositionPath == "" {
		compositionPath = runCfg.CompositionPath
	}
	if compositionPath == "" {
		return fmt.Errorf("no composition given: pass it as an argument or set it in the config file")
	}
	outputPath := cmd.Output
	if outputPath == "" {
		outputPath = runCfg.OutputPath
	}
	if outputPath == "" {
		return fmt.Errorf("no output path given: pass --output or set it in the config file")
	}

	comp, err := config.LoadComposition(compositionPath)
	if err != nil {
		return err
	}
	applyEncodingOverrides(comp, cmd)

	resolver := timeline.NewResolver()
	res, err := resolver.Resolve(comp)
	if err != nil {
		return err
	}
	for id, anchor := range res.Anchors {
		log.Debug("Anchor %q spans %s", id, timeline.AnchorSpan(anchor))
	}
	for _, anchorID := range res.UnresolvedAnchors {
		log.Warn("Sync anchor %q not found, track timing left unchanged", anchorID)
	}
	log.Info("Resolved %d audio track(s) against %d anchor(s)",
		len(res.Config.AudioTracks), len(res.Anchors))

	fs := osfilesystem.New()
	if err := fs.EnsureParent(outputPath); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	evaluator, err := cmd.buildEvaluator(ctx, res.Config)
	if err != nil {
		return err
	}
	defer evaluator.Close()

	orch := orchestrator.New(
		evaluator,
		capture.New(log),
		ffmpegencoder.New(runCfg.FFmpegPath, log),
		log,
		orchestrator.Options{
			MaxBufferSize:   runCfg.MaxBufferSize,
			NotifierTimeout: time.Duration(runCfg.NotifierTimeoutMs) * time.Millisecond,
		},
	)

	finalPath, err := orch.Execute(ctx, res.Config, outputPath, nil)
	if err != nil {
		return err
	}

	if info, err := mp4probe.Probe(finalPath); err == nil {
		log.Info("%s", info.Summary())
	}
	log.Info("Output saved to %s", finalPath)
	return nil
}

// loadRunConfig layers defaults, the optional config file, and CLI flags,
// in that order of precedence (flags win).
func (cmd *RenderCmd) loadRunConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.BufferSize > 0 {
		cfg.MaxBufferSize = cmd.BufferSize
	}
	if cmd.NotifierTimeout > 0 {
		cfg.NotifierTimeoutMs = cmd.NotifierTimeout
	}
	if cmd.FFmpegPath != "" {
		cfg.FFmpegPath = cmd.FFmpegPath
	}
	if cmd.LogLevel != "" {
		cfg.LogLevel = cmd.LogLevel
	}
	return cfg, nil
}

// buildEvaluator selects and launches the configured scene evaluator.
func (cmd *RenderCmd) buildEvaluator(ctx context.Context, cfg timeline.RenderConfig) (ports.SceneEvaluator, error) {
	switch cmd.Scene {
	case "html":
		if cmd.SceneURL == "" {
			return nil, fmt.Errorf("--scene-url is required with the html evaluator")
		}
		scene := chromescene.New(chromescene.Options{
			URL:        cmd.SceneURL,
			Width:      cfg.Timeline.Width,
			Height:     cfg.Timeline.Height,
			ChromePath: cmd.ChromePath,
			Headless:   !cmd.NoHeadless,
		})
		if err := scene.Launch(ctx); err != nil {
			return nil, err
		}
		return scene, nil
	default:
		return ggscene.New(cfg.Timeline.Width, cfg.Timeline.Height, cfg.Timeline.FPS), nil
	}
}

// applyEncodingOverrides folds CLI encoding flags into the composition.
func applyEncodingOverrides(comp *timeline.Composition, cmd *RenderCmd) {
	if cmd.Quality != "" {
		comp.Encoding.Quality = timeline.Quality(cmd.Quality)
	}
	if cmd.CRF != nil {
		comp.Encoding.CRFOverride = cmd.CRF
	}
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	info, err := mp4probe.Probe(cmd.File)
	if err != nil {
		return err
	}
	fmt.Println(info.Summary())
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("rendercast version %s", version))
	return nil
}
