package ffmpegencoder

import (
	"fmt"
	"strings"

	"github.com/user/rendercast/pkg/timeline"
)

// encodingParams maps a quality preset to libx264 CRF and preset values,
// honoring explicit overrides.
func encodingParams(cfg timeline.EncodingConfig) (crf int, preset string) {
	switch cfg.Quality {
	case timeline.QualityLow:
		crf, preset = 30, "veryfast"
	case timeline.QualityHigh:
		crf, preset = 18, "medium"
	case timeline.QualityLossless:
		crf, preset = 0, "medium"
	default: // medium
		crf, preset = 23, "fast"
	}
	if cfg.CRFOverride != nil {
		crf = *cfg.CRFOverride
		if crf < 0 {
			crf = 0
		}
		if crf > 51 {
			crf = 51
		}
	}
	if cfg.PresetOverride != "" {
		preset = cfg.PresetOverride
	}
	return crf, preset
}

// BuildArgs constructs the full ffmpeg argument list for one render: raw
// frames on stdin, audio tracks and embedded videos as extra inputs with a
// per-track filter chain, libx264 output at outputPath.
func BuildArgs(cfg timeline.RenderConfig, outputPath string) []string {
	t := cfg.Timeline

	args := []string{"-y"}
	switch cfg.Encoding.EffectiveFrameFormat() {
	case timeline.FormatPNG:
		args = append(args,
			"-f", "image2pipe",
			"-vcodec", "png",
			"-r", fmt.Sprintf("%d", t.FPS),
			"-i", "pipe:0",
		)
	default:
		args = append(args,
			"-f", "rawvideo",
			"-pix_fmt", "rgba",
			"-s", fmt.Sprintf("%dx%d", t.Width, t.Height),
			"-r", fmt.Sprintf("%d", t.FPS),
			"-i", "pipe:0",
		)
	}

	for _, track := range cfg.AudioTracks {
		args = append(args, "-i", track.Source.URI)
	}
	for _, video := range cfg.EmbeddedVideos {
		args = append(args, "-i", video.Source.URI)
	}

	// With extra inputs the video stream must be mapped explicitly, or
	// ffmpeg's automatic selection can pick an embedded clip's streams
	// over the rendered pipe.
	filter, audioOut := buildAudioFilter(cfg)
	switch {
	case filter != "":
		args = append(args, "-filter_complex", filter, "-map", "0:v", "-map", audioOut)
	case len(cfg.AudioTracks)+len(cfg.EmbeddedVideos) > 0:
		args = append(args, "-map", "0:v", "-an")
	}

	crf, preset := encodingParams(cfg.Encoding)
	args = append(args,
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", fmt.Sprintf("%d", crf),
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
	)
	if filter != "" {
		args = append(args, "-c:a", "aac")
	}
	args = append(args, outputPath)
	return args
}

// buildAudioFilter assembles the filter_complex graph for all audio inputs.
// Returns the filter string and the label of the mixed output, or empty
// strings when the render has no audio.
func buildAudioFilter(cfg timeline.RenderConfig) (string, string) {
	fps := float64(cfg.Timeline.FPS)
	seconds := func(frames int) float64 { return float64(frames) / fps }

	var chains []string
	var mixInputs []string

	inputIndex := 1 // input 0 is the video pipe
	for _, track := range cfg.AudioTracks {
		label := fmt.Sprintf("a%d", len(mixInputs))
		var steps []string

		trim := fmt.Sprintf("atrim=start=%.3f", seconds(track.TrimStartFrame))
		if track.TrimEndFrame != nil {
			trim += fmt.Sprintf(":end=%.3f", seconds(*track.TrimEndFrame))
		}
		steps = append(steps, trim, "asetpts=PTS-STARTPTS")

		if track.Loop {
			steps = append(steps, "aloop=loop=-1:size=2e9")
		}
		if track.DurationInFrames > 0 {
			steps = append(steps, fmt.Sprintf("atrim=duration=%.3f", seconds(track.DurationInFrames)))
		}
		// Volume defaults to 1 at decode time; zero is an explicit mute.
		if track.Volume != 1 {
			steps = append(steps, fmt.Sprintf("volume=%.3f", track.Volume))
		}
		if track.FadeInFrames > 0 {
			steps = append(steps, fmt.Sprintf("afade=t=in:st=0:d=%.3f", seconds(track.FadeInFrames)))
		}
		if track.FadeOutFrames > 0 && track.DurationInFrames > track.FadeOutFrames {
			start := seconds(track.DurationInFrames - track.FadeOutFrames)
			steps = append(steps, fmt.Sprintf("afade=t=out:st=%.3f:d=%.3f", start, seconds(track.FadeOutFrames)))
		}
		if track.StartFrame > 0 {
			delayMs := int(seconds(track.StartFrame) * 1000)
			steps = append(steps, fmt.Sprintf("adelay=%d:all=1", delayMs))
		}

		chains = append(chains, fmt.Sprintf("[%d:a]%s[%s]", inputIndex, strings.Join(steps, ","), label))
		mixInputs = append(mixInputs, "["+label+"]")
		inputIndex++
	}

	for _, video := range cfg.EmbeddedVideos {
		if video.Muted {
			inputIndex++
			continue
		}
		label := fmt.Sprintf("a%d", len(mixInputs))
		var steps []string
		steps = append(steps, "asetpts=PTS-STARTPTS")
		if video.Volume != 1 {
			steps = append(steps, fmt.Sprintf("volume=%.3f", video.Volume))
		}
		if video.StartFrame > 0 {
			delayMs := int(seconds(video.StartFrame) * 1000)
			steps = append(steps, fmt.Sprintf("adelay=%d:all=1", delayMs))
		}
		chains = append(chains, fmt.Sprintf("[%d:a]%s[%s]", inputIndex, strings.Join(steps, ","), label))
		mixInputs = append(mixInputs, "["+label+"]")
		inputIndex++
	}

	if len(mixInputs) == 0 {
		return "", ""
	}
	if len(mixInputs) == 1 {
		return strings.Join(chains, ";"), mixInputs[0]
	}

	mix := fmt.Sprintf("%samix=inputs=%d:normalize=0[aout]", strings.Join(mixInputs, ""), len(mixInputs))
	return strings.Join(append(chains, mix), ";"), "[aout]"
}
