package timeline

import "testing"

func intPtr(v int) *int { return &v }

func testAnchors() map[string]SyncAnchorInfo {
	return map[string]SyncAnchorInfo{
		"A": {AnchorID: "A", StartFrame: 100, EndFrame: intPtr(220)},
	}
}

func TestResolveSync_StartAndEnd(t *testing.T) {
	track := AudioTrackConfig{
		Source:           AudioSource{Type: SourceFile, URI: "music.mp3"},
		StartFrame:       10,
		DurationInFrames: 50,
		Sync: &AudioSyncConfig{
			SyncStartWithAnchor: "A",
			SyncEndWithAnchor:   "A",
			StartOffset:         5,
			EndOffset:           -5,
			Behavior:            SyncStopWhenEnds,
		},
	}

	resolved, unresolved := ResolveSync(track, testAnchors())

	if len(unresolved) != 0 {
		t.Errorf("unexpected unresolved anchors: %v", unresolved)
	}
	if resolved.StartFrame != 105 {
		t.Errorf("expected start 105, got %d", resolved.StartFrame)
	}
	if resolved.DurationInFrames != 110 {
		t.Errorf("expected duration 110, got %d", resolved.DurationInFrames)
	}
	if resolved.Loop {
		t.Error("loop must stay false with stop_when_ends")
	}
	if resolved.Sync != nil {
		t.Error("sync must be cleared after resolution")
	}
}

func TestResolveSync_LoopToMatch(t *testing.T) {
	track := AudioTrackConfig{
		StartFrame: 10,
		Sync: &AudioSyncConfig{
			SyncStartWithAnchor: "A",
			SyncEndWithAnchor:   "A",
			StartOffset:         5,
			EndOffset:           -5,
			Behavior:            SyncLoopToMatch,
		},
	}

	resolved, _ := ResolveSync(track, testAnchors())

	if resolved.DurationInFrames != 110 {
		t.Errorf("expected duration 110, got %d", resolved.DurationInFrames)
	}
	if !resolved.Loop {
		t.Error("expected loop forced true by loop_to_match")
	}
}

func TestResolveSync_UnknownAnchorIsSoftFailure(t *testing.T) {
	track := AudioTrackConfig{
		StartFrame:       30,
		DurationInFrames: 60,
		Sync: &AudioSyncConfig{
			SyncStartWithAnchor: "missing",
			SyncEndWithAnchor:   "missing",
			StartOffset:         5,
			Behavior:            SyncStopWhenEnds,
		},
	}

	resolved, unresolved := ResolveSync(track, testAnchors())

	if resolved.StartFrame != 30 {
		t.Errorf("start must stay 30, got %d", resolved.StartFrame)
	}
	if resolved.DurationInFrames != 60 {
		t.Errorf("duration must stay 60, got %d", resolved.DurationInFrames)
	}
	if resolved.Sync != nil {
		t.Error("sync must be cleared even when anchors are unknown")
	}
	if len(unresolved) != 2 {
		t.Errorf("expected 2 unresolved references, got %v", unresolved)
	}
}

func TestResolveSync_AnchorWithoutEnd(t *testing.T) {
	anchors := map[string]SyncAnchorInfo{
		"open": {AnchorID: "open", StartFrame: 40},
	}
	track := AudioTrackConfig{
		StartFrame:       0,
		DurationInFrames: 90,
		Sync: &AudioSyncConfig{
			SyncStartWithAnchor: "open",
			SyncEndWithAnchor:   "open",
			Behavior:            SyncLoopToMatch,
		},
	}

	resolved, unresolved := ResolveSync(track, anchors)

	if resolved.StartFrame != 40 {
		t.Errorf("expected start 40, got %d", resolved.StartFrame)
	}
	if resolved.DurationInFrames != 90 {
		t.Errorf("duration must stay 90 when the anchor has no end, got %d", resolved.DurationInFrames)
	}
	if resolved.Loop {
		t.Error("loop must not be forced without a resolved end")
	}
	if len(unresolved) != 1 {
		t.Errorf("expected 1 unresolved reference, got %v", unresolved)
	}
}

func TestResolveSync_NoSyncPassthrough(t *testing.T) {
	track := AudioTrackConfig{StartFrame: 7, DurationInFrames: 13}
	resolved, unresolved := ResolveSync(track, testAnchors())
	if resolved != track {
		t.Errorf("expected passthrough, got %+v", resolved)
	}
	if unresolved != nil {
		t.Errorf("unexpected unresolved anchors: %v", unresolved)
	}
}
