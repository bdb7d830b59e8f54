// Package timeline defines the render configuration model and resolves it
// from a composition description, including audio sync anchor resolution.
package timeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Quality is a named encoding quality preset.
type Quality string

const (
	QualityLow      Quality = "low"
	QualityMedium   Quality = "medium"
	QualityHigh     Quality = "high"
	QualityLossless Quality = "lossless"
)

// FrameFormat is the pixel format frames are captured in.
type FrameFormat string

const (
	// FormatRawRGBA is raw interleaved RGBA, row-major, top-to-bottom,
	// exactly width*height*4 bytes per frame, no padding.
	FormatRawRGBA FrameFormat = "raw_rgba"
	// FormatPNG is one PNG image per frame.
	FormatPNG FrameFormat = "png"
)

// SyncBehavior controls how a track behaves when its resolved duration
// differs from the source duration.
type SyncBehavior string

const (
	// SyncStopWhenEnds stops the track at its resolved end.
	SyncStopWhenEnds SyncBehavior = "stop_when_ends"
	// SyncLoopToMatch loops the track to fill the resolved duration.
	SyncLoopToMatch SyncBehavior = "loop_to_match"
)

// AudioSourceType identifies where an audio or video source comes from.
type AudioSourceType string

const (
	SourceAsset AudioSourceType = "asset"
	SourceFile  AudioSourceType = "file"
	SourceURL   AudioSourceType = "url"
)

// AudioSource locates the media backing a track.
type AudioSource struct {
	Type AudioSourceType `yaml:"type"`
	URI  string          `yaml:"uri"`
}

// TimelineConfig defines the valid frame index range [0, DurationInFrames)
// and the exact output pixel dimensions.
type TimelineConfig struct {
	FPS              int `yaml:"fps"`
	DurationInFrames int `yaml:"duration_in_frames"`
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
}

// AudioSyncConfig aligns a track's start and/or end with named anchors.
type AudioSyncConfig struct {
	SyncStartWithAnchor string       `yaml:"sync_start_with_anchor,omitempty"`
	SyncEndWithAnchor   string       `yaml:"sync_end_with_anchor,omitempty"`
	StartOffset         int          `yaml:"start_offset"`
	EndOffset           int          `yaml:"end_offset"`
	Behavior            SyncBehavior `yaml:"behavior"`
}

// AudioTrackConfig describes one audio track on the timeline.
type AudioTrackConfig struct {
	Source           AudioSource      `yaml:"source"`
	StartFrame       int              `yaml:"start_frame"`
	DurationInFrames int              `yaml:"duration_in_frames"`
	TrimStartFrame   int              `yaml:"trim_start_frame"`
	TrimEndFrame     *int             `yaml:"trim_end_frame,omitempty"`
	Volume           float64          `yaml:"volume"`
	FadeInFrames     int              `yaml:"fade_in_frames"`
	FadeOutFrames    int              `yaml:"fade_out_frames"`
	Loop             bool             `yaml:"loop"`
	Sync             *AudioSyncConfig `yaml:"sync,omitempty"`
}

// UnmarshalYAML decodes the track with Volume defaulting to 1, so an
// explicit `volume: 0` stays distinguishable from an omitted field.
func (a *AudioTrackConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain AudioTrackConfig
	track := plain{Volume: 1}
	if err := value.Decode(&track); err != nil {
		return err
	}
	*a = AudioTrackConfig(track)
	return nil
}

// EmbeddedVideoConfig describes a video embedded in the composition whose
// audio is muxed into the output.
type EmbeddedVideoConfig struct {
	Source           AudioSource `yaml:"source"`
	StartFrame       int         `yaml:"start_frame"`
	DurationInFrames int         `yaml:"duration_in_frames"`
	Volume           float64     `yaml:"volume"`
	Muted            bool        `yaml:"muted"`
	Loop             bool        `yaml:"loop"`
}

// UnmarshalYAML decodes the embedded video with Volume defaulting to 1.
func (v *EmbeddedVideoConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain EmbeddedVideoConfig
	video := plain{Volume: 1}
	if err := value.Decode(&video); err != nil {
		return err
	}
	*v = EmbeddedVideoConfig(video)
	return nil
}

// SequenceConfig is a named span on the timeline.
type SequenceConfig struct {
	Name             string `yaml:"name"`
	FromFrame        int    `yaml:"from_frame"`
	DurationInFrames int    `yaml:"duration_in_frames"`
}

// SyncAnchorInfo is a named timing reference point. Anchors are collected
// once from the composition and are write-once per render.
type SyncAnchorInfo struct {
	AnchorID   string `yaml:"anchor_id"`
	StartFrame int    `yaml:"start_frame"`
	EndFrame   *int   `yaml:"end_frame,omitempty"`
}

// EncodingConfig selects quality and the frame capture format.
type EncodingConfig struct {
	Quality        Quality     `yaml:"quality"`
	CRFOverride    *int        `yaml:"crf_override,omitempty"`
	PresetOverride string      `yaml:"preset_override,omitempty"`
	FrameFormat    FrameFormat `yaml:"frame_format"`
}

// RenderConfig is the immutable snapshot built once per render invocation.
type RenderConfig struct {
	Timeline       TimelineConfig        `yaml:"timeline"`
	Sequences      []SequenceConfig      `yaml:"sequences,omitempty"`
	AudioTracks    []AudioTrackConfig    `yaml:"audio_tracks,omitempty"`
	EmbeddedVideos []EmbeddedVideoConfig `yaml:"embedded_videos,omitempty"`
	Encoding       EncodingConfig        `yaml:"encoding"`
}

// Validate checks the configuration invariants before a render starts.
func (c RenderConfig) Validate() error {
	t := c.Timeline
	if t.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfiguration, t.FPS)
	}
	if t.DurationInFrames < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %d frames", ErrInvalidConfiguration, t.DurationInFrames)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: output size must be positive, got %dx%d", ErrInvalidConfiguration, t.Width, t.Height)
	}
	for i, tr := range c.AudioTracks {
		if tr.StartFrame < 0 {
			return fmt.Errorf("%w: audio track %d starts at frame %d", ErrInvalidConfiguration, i, tr.StartFrame)
		}
		if t.DurationInFrames > 0 && tr.StartFrame >= t.DurationInFrames {
			return fmt.Errorf("%w: audio track %d starts at frame %d past the timeline end %d",
				ErrInvalidConfiguration, i, tr.StartFrame, t.DurationInFrames)
		}
		if tr.Volume < 0 {
			return fmt.Errorf("%w: audio track %d has negative volume", ErrInvalidConfiguration, i)
		}
	}
	for i, seq := range c.Sequences {
		if seq.FromFrame < 0 || seq.DurationInFrames < 0 {
			return fmt.Errorf("%w: sequence %d has a negative frame range", ErrInvalidConfiguration, i)
		}
		if seq.FromFrame >= t.DurationInFrames && t.DurationInFrames > 0 {
			return fmt.Errorf("%w: sequence %d starts at frame %d past the timeline end %d",
				ErrInvalidConfiguration, i, seq.FromFrame, t.DurationInFrames)
		}
	}
	switch c.Encoding.FrameFormat {
	case FormatRawRGBA, FormatPNG, "":
	default:
		return fmt.Errorf("%w: unknown frame format %q", ErrInvalidConfiguration, c.Encoding.FrameFormat)
	}
	return nil
}

// EffectiveFrameFormat returns the configured frame format, defaulting to
// raw RGBA.
func (c EncodingConfig) EffectiveFrameFormat() FrameFormat {
	if c.FrameFormat == "" {
		return FormatRawRGBA
	}
	return c.FrameFormat
}
