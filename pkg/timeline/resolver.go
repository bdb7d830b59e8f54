package timeline

import "fmt"

// Resolution is the output of resolving a composition: the immutable render
// configuration plus the anchor map it was resolved against.
type Resolution struct {
	Config  RenderConfig
	Anchors map[string]SyncAnchorInfo

	// UnresolvedAnchors lists anchor ids referenced by track sync configs
	// that could not be resolved. Unresolved references are soft failures;
	// they are reported here so the caller can log them.
	UnresolvedAnchors []string
}

// Resolver extracts a RenderConfig from a composition description.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve walks the composition's declaration tree, collects sequences,
// audio tracks, embedded videos and sync anchors, and resolves every audio
// track's sync config against the collected anchors. Declarations nested in
// gated elements are collected like any other: extraction reads the static
// description, never materialized render state.
func (r *Resolver) Resolve(comp *Composition) (*Resolution, error) {
	if comp == nil || comp.Root == nil {
		return nil, ErrNoRootComposition
	}

	cfg := RenderConfig{
		Timeline: comp.Timeline,
		Encoding: comp.Encoding,
	}

	anchors := make(map[string]SyncAnchorInfo)
	collect(comp.Root, &cfg, anchors)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Resolution{Anchors: anchors}
	for i, track := range cfg.AudioTracks {
		resolved, unresolved := ResolveSync(track, anchors)
		cfg.AudioTracks[i] = resolved
		res.UnresolvedAnchors = append(res.UnresolvedAnchors, unresolved...)
	}

	res.Config = cfg
	return res, nil
}

// collect gathers declarations depth-first. Anchors are write-once: a
// duplicate anchor id keeps the first declaration.
func collect(el *Element, cfg *RenderConfig, anchors map[string]SyncAnchorInfo) {
	if el == nil {
		return
	}

	switch {
	case el.Audio != nil:
		cfg.AudioTracks = append(cfg.AudioTracks, *el.Audio)
	case el.Video != nil:
		cfg.EmbeddedVideos = append(cfg.EmbeddedVideos, *el.Video)
	case el.Sequence != nil:
		cfg.Sequences = append(cfg.Sequences, *el.Sequence)
	case el.Anchor != nil:
		if _, exists := anchors[el.Anchor.AnchorID]; !exists {
			anchors[el.Anchor.AnchorID] = *el.Anchor
		}
	}

	for _, child := range el.Children {
		collect(child, cfg, anchors)
	}
}

// AnchorSpan formats an anchor's frame span for logging.
func AnchorSpan(a SyncAnchorInfo) string {
	if a.EndFrame != nil {
		return fmt.Sprintf("[%d, %d]", a.StartFrame, *a.EndFrame)
	}
	return fmt.Sprintf("[%d, ...)", a.StartFrame)
}
