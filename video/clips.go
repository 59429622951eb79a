package video

import (
	"fmt"

	"shortsmith/config"
)

// ClipStyle carries the raw, unclamped visual options of an image clip.
// Nil pointers mean "not configured".
type ClipStyle struct {
	Opacity *float64
	FadeIn  *float64
	FadeOut *float64
	Resize  ResizeRule
	Margin  Margin
}

// Segment pairs one spoken audio file with the image shown while it plays.
type Segment struct {
	Audio string
	Image string
	Style ClipStyle
}

// ClampOpacity maps a configured opacity into [0,1]. Unset or >= 1 is
// fully opaque.
func ClampOpacity(v *float64) float64 {
	if v == nil || *v >= 1 {
		return 1
	}
	if *v < 0 {
		return 0
	}
	return *v
}

// ClampFade maps a configured fade length into [0,2] seconds. Unset, negative
// or longer than two seconds disables the fade.
func ClampFade(v *float64) float64 {
	if v == nil || *v > config.MaxTransition || *v < 0 {
		return 0
	}
	return *v
}

// BuildAudioClip probes path and wraps it as the index-th audio clip.
func BuildAudioClip(p Prober, path string, index int) (TimedClip, error) {
	d, err := p.Duration(path)
	if err != nil {
		return TimedClip{}, fmt.Errorf("failed to load audio clip %d: %w", index, err)
	}
	return TimedClip{
		Kind:     KindAudio,
		Index:    index,
		Path:     path,
		Duration: d,
		Opacity:  1,
	}, nil
}

// BuildImageClip wraps an image as the index-th visual clip. Its duration is
// taken from audio[index] so the image is on screen exactly as long as its
// narration plays.
func BuildImageClip(path string, index int, audio []TimedClip, style ClipStyle) (TimedClip, error) {
	if index < 0 || index >= len(audio) {
		return TimedClip{}, &AssetAlignmentError{
			What:     fmt.Sprintf("no audio segment for image %d (%s)", index, path),
			Expected: index + 1,
			Got:      len(audio),
		}
	}
	if style.Resize.Mode != ResizeNone && style.Resize.Size <= 0 {
		return TimedClip{}, fmt.Errorf("image clip %d: resize target must be positive, got %d", index, style.Resize.Size)
	}

	return TimedClip{
		Kind:     KindImage,
		Index:    index,
		Path:     path,
		Duration: audio[index].Duration,
		Opacity:  ClampOpacity(style.Opacity),
		FadeIn:   ClampFade(style.FadeIn),
		FadeOut:  ClampFade(style.FadeOut),
		Resize:   style.Resize,
		Margin:   nonNegative(style.Margin),
	}, nil
}

// CheckCaptions verifies that every body audio segment has a caption line.
func CheckCaptions(captions, bodyAudio int) error {
	if captions != bodyAudio {
		return &AssetAlignmentError{What: "caption lines vs body audio segments", Expected: bodyAudio, Got: captions}
	}
	return nil
}

// BuildTracks builds the paired audio and visual clips for segments, in
// order. All audio is loaded before any image clip is built.
func BuildTracks(p Prober, segments []Segment) (visual, audio []TimedClip, err error) {
	audio = make([]TimedClip, 0, len(segments))
	for i, s := range segments {
		clip, err := BuildAudioClip(p, s.Audio, i)
		if err != nil {
			return nil, nil, err
		}
		audio = append(audio, clip)
	}

	visual = make([]TimedClip, 0, len(segments))
	for i, s := range segments {
		clip, err := BuildImageClip(s.Image, i, audio, s.Style)
		if err != nil {
			return nil, nil, err
		}
		visual = append(visual, clip)
	}
	return visual, audio, nil
}

func nonNegative(m Margin) Margin {
	return Margin{
		Top:    max(m.Top, 0),
		Bottom: max(m.Bottom, 0),
		Left:   max(m.Left, 0),
		Right:  max(m.Right, 0),
	}
}
