package timeline

// ResolveSync resolves a track's start and duration against named anchors.
//
// A referenced anchor that is unknown, or known but without a defined end
// when the end is referenced, leaves the corresponding field at its original
// value; the anchor id is reported in unresolved instead of failing the
// render. The returned track always has Sync cleared, so resolution happens
// exactly once per render.
func ResolveSync(track AudioTrackConfig, anchors map[string]SyncAnchorInfo) (resolved AudioTrackConfig, unresolved []string) {
	if track.Sync == nil {
		return track, nil
	}

	sync := *track.Sync
	resolved = track
	resolved.Sync = nil

	startFrame := track.StartFrame
	if sync.SyncStartWithAnchor != "" {
		if anchor, ok := anchors[sync.SyncStartWithAnchor]; ok {
			startFrame = anchor.StartFrame + sync.StartOffset
			resolved.StartFrame = startFrame
		} else {
			unresolved = append(unresolved, sync.SyncStartWithAnchor)
		}
	}

	if sync.SyncEndWithAnchor != "" {
		anchor, ok := anchors[sync.SyncEndWithAnchor]
		if ok && anchor.EndFrame != nil {
			endFrame := *anchor.EndFrame + sync.EndOffset
			resolved.DurationInFrames = endFrame - startFrame
			if sync.Behavior == SyncLoopToMatch && resolved.DurationInFrames > 0 {
				resolved.Loop = true
			}
		} else {
			unresolved = append(unresolved, sync.SyncEndWithAnchor)
		}
	}

	return resolved, unresolved
}
