package video

import (
	"fmt"
	"math"
)

// Timeline is the ordered visual track paired 1:1 with the audio track.
// It is read-only once Assemble returns it.
type Timeline struct {
	visual []TimedClip
	audio  []TimedClip
	starts []float64
	total  float64
}

// Assemble places clips back to back in input order. Clip i starts at the
// sum of the durations of clips 0..i-1. The audio track becomes the only
// audio of the result.
func Assemble(visual, audio []TimedClip) (*Timeline, error) {
	if len(visual) != len(audio) {
		return nil, &AssetAlignmentError{What: "visual clips vs audio clips", Expected: len(audio), Got: len(visual)}
	}
	if err := checkContiguous("visual", visual); err != nil {
		return nil, err
	}
	if err := checkContiguous("audio", audio); err != nil {
		return nil, err
	}

	tl := &Timeline{
		visual: make([]TimedClip, 0, len(visual)),
		audio:  make([]TimedClip, 0, len(audio)),
		starts: make([]float64, 0, len(visual)),
	}

	var visualTotal, audioTotal float64
	for i := range visual {
		tl.starts = append(tl.starts, visualTotal)
		tl.visual = append(tl.visual, visual[i])
		tl.audio = append(tl.audio, audio[i])
		visualTotal += visual[i].Duration
		audioTotal += audio[i].Duration
	}

	if math.Abs(visualTotal-audioTotal) > FrameDuration {
		return nil, &TimelineDesyncError{Visual: visualTotal, Audio: audioTotal}
	}
	tl.total = visualTotal
	return tl, nil
}

func checkContiguous(track string, clips []TimedClip) error {
	for i, c := range clips {
		if c.Index != i {
			return &AssetAlignmentError{What: fmt.Sprintf("%s clip index at position %d", track, i), Expected: i, Got: c.Index}
		}
	}
	return nil
}

// Len is the number of clip pairs.
func (t *Timeline) Len() int { return len(t.visual) }

// TotalDuration is the sum of all clip durations.
func (t *Timeline) TotalDuration() float64 { return t.total }

// Start is the offset of the i-th clip pair.
func (t *Timeline) Start(i int) float64 { return t.starts[i] }

// End is the offset at which the i-th clip pair finishes.
func (t *Timeline) End(i int) float64 { return t.starts[i] + t.visual[i].Duration }

// Visual returns a copy of the visual track.
func (t *Timeline) Visual() []TimedClip { return append([]TimedClip(nil), t.visual...) }

// Audio returns a copy of the audio track.
func (t *Timeline) Audio() []TimedClip { return append([]TimedClip(nil), t.audio...) }

// Starts returns a copy of the per-clip start offsets.
func (t *Timeline) Starts() []float64 { return append([]float64(nil), t.starts...) }
