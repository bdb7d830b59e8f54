package timeline

import (
	"errors"
	"testing"
)

func testComposition() *Composition {
	return &Composition{
		Timeline: TimelineConfig{FPS: 30, DurationInFrames: 300, Width: 1280, Height: 720},
		Encoding: EncodingConfig{Quality: QualityMedium, FrameFormat: FormatRawRGBA},
		Root: &Element{
			Kind: KindScene,
			Name: "root",
			Children: []*Element{
				{Kind: KindAnchor, Anchor: &SyncAnchorInfo{AnchorID: "intro", StartFrame: 0, EndFrame: intPtr(90)}},
				{Kind: KindSequence, Sequence: &SequenceConfig{Name: "intro", FromFrame: 0, DurationInFrames: 90}},
				{
					Kind: KindScene,
					Name: "outro",
					// Gated scene: not materialized until frame 200, but its
					// declarations must still be collected.
					Gate: &FrameGate{FromFrame: 200, ToFrame: 300},
					Children: []*Element{
						{Kind: KindVideo, Video: &EmbeddedVideoConfig{
							Source:     AudioSource{Type: SourceFile, URI: "clip.mp4"},
							StartFrame: 200,
						}},
						{Kind: KindAudio, Audio: &AudioTrackConfig{
							Source: AudioSource{Type: SourceFile, URI: "sting.wav"},
							Volume: 1,
							Sync: &AudioSyncConfig{
								SyncStartWithAnchor: "intro",
								SyncEndWithAnchor:   "intro",
								StartOffset:         5,
								EndOffset:           -5,
								Behavior:            SyncStopWhenEnds,
							},
						}},
					},
				},
			},
		},
	}
}

func TestResolver_CollectsGatedDeclarations(t *testing.T) {
	res, err := NewResolver().Resolve(testComposition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Config.EmbeddedVideos) != 1 {
		t.Errorf("expected 1 embedded video from the gated scene, got %d", len(res.Config.EmbeddedVideos))
	}
	if len(res.Config.AudioTracks) != 1 {
		t.Fatalf("expected 1 audio track, got %d", len(res.Config.AudioTracks))
	}
	if len(res.Config.Sequences) != 1 {
		t.Errorf("expected 1 sequence, got %d", len(res.Config.Sequences))
	}
	if len(res.Anchors) != 1 {
		t.Errorf("expected 1 anchor, got %d", len(res.Anchors))
	}
}

func TestResolver_ResolvesAudioSyncOnce(t *testing.T) {
	res, err := NewResolver().Resolve(testComposition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	track := res.Config.AudioTracks[0]
	if track.Sync != nil {
		t.Error("resolved track must have sync cleared")
	}
	if track.StartFrame != 5 {
		t.Errorf("expected start 5 (anchor 0 + offset 5), got %d", track.StartFrame)
	}
	if track.DurationInFrames != 80 {
		t.Errorf("expected duration 80 (85 - 5), got %d", track.DurationInFrames)
	}
	if len(res.UnresolvedAnchors) != 0 {
		t.Errorf("unexpected unresolved anchors: %v", res.UnresolvedAnchors)
	}
}

func TestResolver_AnchorsAreWriteOnce(t *testing.T) {
	comp := testComposition()
	comp.Root.Children = append(comp.Root.Children, &Element{
		Kind:   KindAnchor,
		Anchor: &SyncAnchorInfo{AnchorID: "intro", StartFrame: 999},
	})

	res, err := NewResolver().Resolve(comp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Anchors["intro"].StartFrame != 0 {
		t.Errorf("duplicate anchor must not overwrite the first declaration, got start %d",
			res.Anchors["intro"].StartFrame)
	}
}

func TestResolver_NoRoot(t *testing.T) {
	_, err := NewResolver().Resolve(&Composition{})
	if !errors.Is(err, ErrNoRootComposition) {
		t.Errorf("expected ErrNoRootComposition, got %v", err)
	}

	_, err = NewResolver().Resolve(nil)
	if !errors.Is(err, ErrNoRootComposition) {
		t.Errorf("expected ErrNoRootComposition for nil composition, got %v", err)
	}
}

func TestResolver_InvalidTimeline(t *testing.T) {
	comp := testComposition()
	comp.Timeline.FPS = 0
	_, err := NewResolver().Resolve(comp)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestResolver_TrackStartPastTimelineEnd(t *testing.T) {
	comp := testComposition()
	comp.Root.Children = append(comp.Root.Children, &Element{
		Kind: KindAudio,
		Audio: &AudioTrackConfig{
			Source:     AudioSource{Type: SourceFile, URI: "late.mp3"},
			StartFrame: 300,
			Volume:     1,
		},
	})

	_, err := NewResolver().Resolve(comp)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for start past timeline end, got %v", err)
	}
}

func TestResolver_SequencePastTimelineEnd(t *testing.T) {
	comp := testComposition()
	comp.Root.Children = append(comp.Root.Children, &Element{
		Kind:     KindSequence,
		Sequence: &SequenceConfig{Name: "late", FromFrame: 300, DurationInFrames: 30},
	})

	_, err := NewResolver().Resolve(comp)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for sequence past timeline end, got %v", err)
	}
}
