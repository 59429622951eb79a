package video

import (
	"fmt"
	"strings"

	"shortsmith/config"
)

// Placement selects where the animation sits on the timeline.
type Placement string

const (
	PlaceStart Placement = "start"
	PlaceEnd   Placement = "end"
	// PlaceMiddle is accepted but currently resolves to PlaceEnd.
	PlaceMiddle Placement = "middle"
)

// ParsePlacement resolves a configured placement. Only "start" is honored
// as such; "middle" and anything unrecognized fall back to "end".
func ParsePlacement(s string) Placement {
	if Placement(strings.ToLower(strings.TrimSpace(s))) == PlaceStart {
		return PlaceStart
	}
	return PlaceEnd
}

// LogoOptions configures the persistent logo overlay.
type LogoOptions struct {
	FadeIn *float64
}

// AnimationAsset is a probed animation clip.
type AnimationAsset struct {
	Path     string
	Duration float64
	Width    int
}

// LoadAnimation probes the animation clip at path.
func LoadAnimation(p Prober, path string) (AnimationAsset, error) {
	d, err := p.Duration(path)
	if err != nil {
		return AnimationAsset{}, fmt.Errorf("failed to load animation: %w", err)
	}
	w, err := p.Width(path)
	if err != nil {
		return AnimationAsset{}, fmt.Errorf("failed to load animation: %w", err)
	}
	return AnimationAsset{Path: path, Duration: d, Width: w}, nil
}

// AnimationOptions configures the time-boxed animation overlay.
type AnimationOptions struct {
	// Width overrides the native width when positive.
	Width       int
	RightMargin int
	Placement   string
	Key         ChromaKey
}

// PlaceLogo spans the logo over the whole timeline, anchored top-center.
func PlaceLogo(path string, total float64, opts LogoOptions) OverlaySpec {
	return OverlaySpec{
		Name:     "logo",
		Path:     path,
		Start:    0,
		Duration: total,
		Anchor:   AnchorTopCenter,
		FadeIn:   ClampFade(opts.FadeIn),
		Resize:   FitHeight(config.LogoHeight),
		Margin:   Margin{Top: config.LogoTopMargin},
	}
}

// PlaceAnimation computes the animation window: it starts at zero for
// PlaceStart and ends with the timeline otherwise.
func PlaceAnimation(anim AnimationAsset, total float64, opts AnimationOptions) (OverlaySpec, error) {
	if anim.Duration > total || anim.Duration < 0 {
		return OverlaySpec{}, &OverlayOverflowError{Overlay: "animation", Duration: anim.Duration, Timeline: total}
	}

	start := 0.0
	if ParsePlacement(opts.Placement) == PlaceEnd {
		start = total - anim.Duration
	}

	resize := ResizeRule{}
	if opts.Width > 0 {
		resize = FitWidth(opts.Width)
	}
	key := opts.Key

	return OverlaySpec{
		Name:     "animation",
		Path:     anim.Path,
		Start:    start,
		Duration: anim.Duration,
		Anchor:   AnchorBottomCenter,
		Resize:   resize,
		Margin:   Margin{Bottom: config.AnimationBottomMargin, Right: max(opts.RightMargin, 0)},
		Key:      &key,
	}, nil
}
