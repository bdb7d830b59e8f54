package timeline

// ElementKind identifies what a composition element declares.
type ElementKind string

const (
	KindScene    ElementKind = "scene"
	KindSequence ElementKind = "sequence"
	KindAudio    ElementKind = "audio"
	KindVideo    ElementKind = "video"
	KindAnchor   ElementKind = "anchor"
)

// Composition is the static description a render invocation starts from.
// It exposes typed declarations directly rather than a rendered element
// tree, so resolution never depends on what is currently materialized.
type Composition struct {
	Timeline TimelineConfig `yaml:"timeline"`
	Encoding EncodingConfig `yaml:"encoding"`
	Root     *Element       `yaml:"root"`
}

// Element is one node of the composition's declaration tree. Exactly one of
// the declaration fields matching Kind is set.
type Element struct {
	Kind ElementKind `yaml:"kind"`
	Name string      `yaml:"name,omitempty"`

	// Gate restricts when children are materialized during playback.
	// Declarations inside a gated element are still collected at resolve
	// time; gating affects rendering only.
	Gate *FrameGate `yaml:"gate,omitempty"`

	Audio    *AudioTrackConfig    `yaml:"audio,omitempty"`
	Video    *EmbeddedVideoConfig `yaml:"video,omitempty"`
	Anchor   *SyncAnchorInfo      `yaml:"anchor,omitempty"`
	Sequence *SequenceConfig      `yaml:"sequence,omitempty"`

	Children []*Element `yaml:"children,omitempty"`
}

// FrameGate limits an element's materialization to [FromFrame, ToFrame).
type FrameGate struct {
	FromFrame int `yaml:"from_frame"`
	ToFrame   int `yaml:"to_frame"`
}
