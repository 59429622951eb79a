package video

import "fmt"

// fakeProber serves durations and widths from maps keyed by path.
type fakeProber struct {
	durations map[string]float64
	widths    map[string]int
}

func (f fakeProber) Duration(path string) (float64, error) {
	d, ok := f.durations[path]
	if !ok {
		return 0, fmt.Errorf("no such file: %s", path)
	}
	return d, nil
}

func (f fakeProber) Width(path string) (int, error) {
	w, ok := f.widths[path]
	if !ok {
		return 0, fmt.Errorf("no such file: %s", path)
	}
	return w, nil
}

func ptr(f float64) *float64 { return &f }

func audioClips(durations ...float64) []TimedClip {
	out := make([]TimedClip, len(durations))
	for i, d := range durations {
		out[i] = TimedClip{Kind: KindAudio, Index: i, Path: fmt.Sprintf("a%d.mp3", i), Duration: d, Opacity: 1}
	}
	return out
}

func imageClips(audio []TimedClip) []TimedClip {
	out := make([]TimedClip, len(audio))
	for i := range audio {
		c, err := BuildImageClip(fmt.Sprintf("i%d.png", i), i, audio, ClipStyle{Resize: FitWidth(980)})
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
