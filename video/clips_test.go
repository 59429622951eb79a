package video

import (
	"errors"
	"testing"
)

func TestClampOpacity(t *testing.T) {
	cases := []struct {
		name string
		in   *float64
		want float64
	}{
		{"unset", nil, 1},
		{"above one", ptr(1.5), 1},
		{"exactly one", ptr(1), 1},
		{"partial", ptr(0.3), 0.3},
		{"negative", ptr(-0.2), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClampOpacity(c.in); got != c.want {
				t.Fatalf("ClampOpacity = %v; want %v", got, c.want)
			}
		})
	}
}

func TestClampFade(t *testing.T) {
	cases := []struct {
		name string
		in   *float64
		want float64
	}{
		{"unset", nil, 0},
		{"too long", ptr(3.0), 0},
		{"limit", ptr(2.0), 2},
		{"normal", ptr(1.2), 1.2},
		{"negative", ptr(-1), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClampFade(c.in); got != c.want {
				t.Fatalf("ClampFade = %v; want %v", got, c.want)
			}
		})
	}
}

func TestBuildAudioClip(t *testing.T) {
	p := fakeProber{durations: map[string]float64{"title.mp3": 4.25}}
	c, err := BuildAudioClip(p, "title.mp3", 0)
	if err != nil {
		t.Fatalf("BuildAudioClip: %v", err)
	}
	if c.Kind != KindAudio || c.Duration != 4.25 || c.Index != 0 {
		t.Fatalf("unexpected clip: %+v", c)
	}

	if _, err := BuildAudioClip(p, "missing.mp3", 1); err == nil {
		t.Fatalf("expected error for unreadable audio")
	}
}

func TestBuildImageClipTakesPairedDuration(t *testing.T) {
	audio := audioClips(3.5, 7.125)
	style := ClipStyle{
		Opacity: ptr(1.5),
		FadeIn:  ptr(1.2),
		FadeOut: ptr(3.0),
		Resize:  FitWidth(980),
		Margin:  Margin{Right: 40, Left: -3},
	}
	c, err := BuildImageClip("post.part0.png", 1, audio, style)
	if err != nil {
		t.Fatalf("BuildImageClip: %v", err)
	}
	if c.Duration != 7.125 {
		t.Fatalf("Duration = %v; want 7.125", c.Duration)
	}
	if c.Opacity != 1 || c.FadeIn != 1.2 || c.FadeOut != 0 {
		t.Fatalf("unexpected clamping: %+v", c)
	}
	if c.Margin != (Margin{Right: 40}) {
		t.Fatalf("Margin = %+v", c.Margin)
	}
}

func TestBuildImageClipOutOfRange(t *testing.T) {
	audio := audioClips(1, 2)
	for _, idx := range []int{-1, 2, 10} {
		_, err := BuildImageClip("x.png", idx, audio, ClipStyle{})
		var align *AssetAlignmentError
		if !errors.As(err, &align) {
			t.Fatalf("index %d: expected AssetAlignmentError, got %v", idx, err)
		}
	}
}

func TestBuildImageClipRejectsBadResize(t *testing.T) {
	if _, err := BuildImageClip("x.png", 0, audioClips(1), ClipStyle{Resize: FitHeight(0)}); err == nil {
		t.Fatalf("expected error for zero resize target")
	}
}

func TestCheckCaptions(t *testing.T) {
	err := CheckCaptions(5, 4)
	var align *AssetAlignmentError
	if !errors.As(err, &align) {
		t.Fatalf("expected AssetAlignmentError, got %v", err)
	}
	if align.Expected != 4 || align.Got != 5 {
		t.Fatalf("counts = %d/%d", align.Expected, align.Got)
	}
	if err := CheckCaptions(4, 4); err != nil {
		t.Fatalf("CheckCaptions(4,4): %v", err)
	}
}

func TestBuildTracksKeepsSync(t *testing.T) {
	p := fakeProber{durations: map[string]float64{
		"title.mp3":      2.4,
		"post.part0.mp3": 5.03,
		"post.part1.mp3": 0.97,
	}}
	segments := []Segment{
		{Audio: "title.mp3", Image: "title.png"},
		{Audio: "post.part0.mp3", Image: "post.part0.png", Style: ClipStyle{Opacity: ptr(0.3)}},
		{Audio: "post.part1.mp3", Image: "post.part1.png"},
	}
	visual, audio, err := BuildTracks(p, segments)
	if err != nil {
		t.Fatalf("BuildTracks: %v", err)
	}
	if len(visual) != 3 || len(audio) != 3 {
		t.Fatalf("got %d visual, %d audio", len(visual), len(audio))
	}
	for i := range visual {
		if visual[i].Duration != audio[i].Duration {
			t.Fatalf("clip %d: visual %v != audio %v", i, visual[i].Duration, audio[i].Duration)
		}
		if visual[i].Index != i || audio[i].Index != i {
			t.Fatalf("clip %d has indexes %d/%d", i, visual[i].Index, audio[i].Index)
		}
	}
	if visual[1].Opacity != 0.3 {
		t.Fatalf("opacity = %v", visual[1].Opacity)
	}
}

func TestBuildTracksAudioFailure(t *testing.T) {
	p := fakeProber{durations: map[string]float64{"title.mp3": 1}}
	_, _, err := BuildTracks(p, []Segment{{Audio: "title.mp3"}, {Audio: "gone.mp3"}})
	if err == nil {
		t.Fatalf("expected error")
	}
}
