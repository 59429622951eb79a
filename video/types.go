package video

import "shortsmith/config"

// Kind tells audio clips from visual ones.
type Kind int

const (
	KindAudio Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindAudio {
		return "audio"
	}
	return "image"
}

// Margin is transparent padding around a visual, in pixels.
type Margin struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// IsZero reports whether no padding is requested.
func (m Margin) IsZero() bool {
	return m == Margin{}
}

// ResizeMode selects which edge a visual is fitted to.
type ResizeMode int

const (
	ResizeNone ResizeMode = iota
	ResizeFitWidth
	ResizeFitHeight
)

// ResizeRule scales a visual to a target width or height, keeping its aspect.
type ResizeRule struct {
	Mode ResizeMode
	Size int
}

// FitWidth scales to width w.
func FitWidth(w int) ResizeRule { return ResizeRule{Mode: ResizeFitWidth, Size: w} }

// FitHeight scales to height h.
func FitHeight(h int) ResizeRule { return ResizeRule{Mode: ResizeFitHeight, Size: h} }

// TimedClip is an asset annotated with the time it occupies on the timeline.
// Opacity, fades, resize and margin only apply to image clips.
type TimedClip struct {
	Kind     Kind
	Index    int
	Path     string
	Duration float64

	Opacity float64
	FadeIn  float64
	FadeOut float64
	Resize  ResizeRule
	Margin  Margin
}

// Anchor positions an overlay horizontally centered against an edge.
type Anchor string

const (
	AnchorTopCenter    Anchor = "top-center"
	AnchorBottomCenter Anchor = "bottom-center"
)

// OverlaySpec is a visual placed over the timeline in a bounded window.
type OverlaySpec struct {
	Name     string
	Path     string
	Start    float64
	Duration float64
	Anchor   Anchor
	FadeIn   float64
	Resize   ResizeRule
	Margin   Margin
	// Key is applied before resizing when set.
	Key *ChromaKey
}

// End is the time the overlay disappears.
func (o OverlaySpec) End() float64 {
	return o.Start + o.Duration
}

// FrameSpec is the output canvas size.
type FrameSpec struct {
	Width  int
	Height int
}

// Canvas is the vertical frame every video is rendered to.
var Canvas = FrameSpec{Width: config.VideoWidth, Height: config.VideoHeight}

// FrameDuration is the length of one output frame in seconds; it is the
// tolerance used when comparing track totals.
const FrameDuration = 1.0 / config.FrameRate
