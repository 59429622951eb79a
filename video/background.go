package video

import (
	"fmt"
	"strconv"

	"shortsmith/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Rect is a crop window in the scaled background's pixel space.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Width of the window.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height of the window.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// CropWindow scales a catalogued background to the canvas height and returns
// the centered canvas-wide window. The background's timebase is untouched.
func CropWindow(bg config.Background) (Rect, error) {
	if bg.NativeWidth <= 0 || bg.NativeHeight <= 0 {
		return Rect{}, fmt.Errorf("background %q has no native resolution", bg.Name)
	}
	scaledWidth := float64(bg.NativeWidth) * float64(Canvas.Height) / float64(bg.NativeHeight)
	if scaledWidth < float64(Canvas.Width) {
		return Rect{}, fmt.Errorf("background %q is too narrow for a %dx%d canvas", bg.Name, Canvas.Width, Canvas.Height)
	}
	x1 := (scaledWidth - float64(Canvas.Width)) / 2
	return Rect{X1: x1, Y1: 0, X2: x1 + float64(Canvas.Width), Y2: float64(Canvas.Height)}, nil
}

// Layer records one entry of the composite's z-order, bottom first.
type Layer struct {
	Name  string
	Path  string
	Start float64
	End   float64
}

// Scene is everything the compositor flattens into one frame sequence.
type Scene struct {
	Background     config.Background
	BackgroundPath string
	Timeline       *Timeline
	Logo           *OverlaySpec
	Animation      *OverlaySpec
}

// Composite is the flattened video graph plus the timeline's audio track,
// ready for the encoder.
type Composite struct {
	Video    *ffmpeg.Stream
	Audio    *ffmpeg.Stream
	Duration float64
	Layers   []Layer
}

// Compose layers background, timeline clips, logo and animation, in that
// order, over a canvas-sized muted background loop.
func Compose(scene Scene) (*Composite, error) {
	tl := scene.Timeline
	if tl == nil || tl.Len() == 0 {
		return nil, fmt.Errorf("cannot compose an empty timeline")
	}
	total := tl.TotalDuration()

	crop, err := CropWindow(scene.Background)
	if err != nil {
		return nil, err
	}

	comp := &Composite{Duration: total}

	// Only the video stream is selected, which drops the background's audio.
	base := ffmpeg.Input(scene.BackgroundPath, ffmpeg.KwArgs{"stream_loop": -1}).
		Video().
		Filter("scale", ffmpeg.Args{"-2", strconv.Itoa(Canvas.Height)}).
		Filter("crop", ffmpeg.Args{
			strconv.Itoa(Canvas.Width),
			strconv.Itoa(Canvas.Height),
			formatFloat(crop.X1, 2),
			formatFloat(crop.Y1, 2),
		}).
		Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": secs(total)}).
		Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"})
	comp.Layers = append(comp.Layers, Layer{Name: "background", Path: scene.BackgroundPath, Start: 0, End: total})

	clipY := clipPositionY(scene.Background.Position)
	for i, clip := range tl.Visual() {
		start, end := tl.Start(i), tl.End(i)
		stream := imageClipStream(clip, start)
		base = base.Overlay(stream, "pass", ffmpeg.KwArgs{
			"x":      "(W-w)/2",
			"y":      clipY,
			"enable": between(start, end),
		})
		comp.Layers = append(comp.Layers, Layer{Name: fmt.Sprintf("clip-%d", i), Path: clip.Path, Start: start, End: end})
	}

	for _, ov := range []*OverlaySpec{scene.Logo, scene.Animation} {
		if ov == nil {
			continue
		}
		if ov.Start < 0 || ov.End() > total+FrameDuration {
			return nil, &OverlayOverflowError{Overlay: ov.Name, Duration: ov.Duration, Timeline: total}
		}
		base = base.Overlay(overlayStream(*ov), "pass", ffmpeg.KwArgs{
			"x":      "(W-w)/2",
			"y":      anchorY(ov.Anchor),
			"enable": between(ov.Start, ov.End()),
		})
		comp.Layers = append(comp.Layers, Layer{Name: ov.Name, Path: ov.Path, Start: ov.Start, End: ov.End()})
	}
	comp.Video = base

	audio := make([]*ffmpeg.Stream, 0, tl.Len())
	for _, clip := range tl.Audio() {
		audio = append(audio, ffmpeg.Input(clip.Path).Audio())
	}
	comp.Audio = ffmpeg.Concat(audio, ffmpeg.KwArgs{"v": 0, "a": 1})

	return comp, nil
}

// imageClipStream loops a still image for the clip's duration, styles it and
// shifts it to its timeline offset.
func imageClipStream(clip TimedClip, start float64) *ffmpeg.Stream {
	s := ffmpeg.Input(clip.Path, ffmpeg.KwArgs{"loop": 1, "t": secs(clip.Duration)}).
		Filter("format", ffmpeg.Args{"rgba"})
	s = resizeAndPad(s, clip.Resize, clip.Margin)

	if clip.Opacity < 1 {
		s = s.Filter("colorchannelmixer", ffmpeg.Args{}, ffmpeg.KwArgs{"aa": formatFloat(clip.Opacity, 3)})
	}
	if clip.FadeIn > 0 {
		s = s.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "in", "st": "0", "d": secs(clip.FadeIn), "alpha": 1})
	}
	if clip.FadeOut > 0 {
		st := max(clip.Duration-clip.FadeOut, 0)
		s = s.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "out", "st": secs(st), "d": secs(clip.FadeOut), "alpha": 1})
	}
	return shift(s, start)
}

// overlayStream prepares a logo or animation. The chroma key runs before any
// scaling so resized edges are sampled from already-keyed pixels.
func overlayStream(ov OverlaySpec) *ffmpeg.Stream {
	var s *ffmpeg.Stream
	if ov.Key != nil {
		s = ffmpeg.Input(ov.Path).Video().
			Filter("format", ffmpeg.Args{"rgba"}).
			Filter("colorkey", ffmpeg.Args{}, ov.Key.FilterArgs())
	} else {
		s = ffmpeg.Input(ov.Path, ffmpeg.KwArgs{"loop": 1, "t": secs(ov.Duration)}).
			Filter("format", ffmpeg.Args{"rgba"})
	}
	s = resizeAndPad(s, ov.Resize, ov.Margin)
	if ov.FadeIn > 0 {
		s = s.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "in", "st": "0", "d": secs(ov.FadeIn), "alpha": 1})
	}
	return shift(s, ov.Start)
}

func resizeAndPad(s *ffmpeg.Stream, r ResizeRule, m Margin) *ffmpeg.Stream {
	switch r.Mode {
	case ResizeFitWidth:
		s = s.Filter("scale", ffmpeg.Args{strconv.Itoa(r.Size), "-1"})
	case ResizeFitHeight:
		s = s.Filter("scale", ffmpeg.Args{"-1", strconv.Itoa(r.Size)})
	}
	if !m.IsZero() {
		s = s.Filter("pad", ffmpeg.Args{}, ffmpeg.KwArgs{
			"w":     fmt.Sprintf("iw+%d", m.Left+m.Right),
			"h":     fmt.Sprintf("ih+%d", m.Top+m.Bottom),
			"x":     strconv.Itoa(m.Left),
			"y":     strconv.Itoa(m.Top),
			"color": "black@0",
		})
	}
	return s
}

func shift(s *ffmpeg.Stream, start float64) *ffmpeg.Stream {
	return s.Filter("setpts", ffmpeg.Args{fmt.Sprintf("PTS-STARTPTS+%s/TB", secs(start))})
}

func clipPositionY(p config.ClipPosition) string {
	switch {
	case p.Centered:
		return "(H-h)/2"
	case p.Drift:
		return fmt.Sprintf("%d+t", p.Top)
	default:
		return strconv.Itoa(p.Top)
	}
}

func anchorY(a Anchor) string {
	if a == AnchorBottomCenter {
		return "H-h"
	}
	return "0"
}

func between(start, end float64) string {
	return fmt.Sprintf("between(t,%s,%s)", secs(start), secs(end))
}

func secs(f float64) string {
	return formatFloat(f, 3)
}

func formatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}
