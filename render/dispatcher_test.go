package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shortsmith/config"
	"shortsmith/video"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type captureRunner struct {
	args [][]string
	err  error
}

func (c *captureRunner) run(_ context.Context, s *ffmpeg.Stream) error {
	c.args = append(c.args, s.GetArgs())
	return c.err
}

func hasPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func testComposite(t *testing.T) *video.Composite {
	t.Helper()
	audio := []video.TimedClip{
		{Kind: video.KindAudio, Index: 0, Path: "title.mp3", Duration: 2},
		{Kind: video.KindAudio, Index: 1, Path: "post.part0.mp3", Duration: 3},
	}
	visual := []video.TimedClip{
		{Kind: video.KindImage, Index: 0, Path: "title.png", Duration: 2, Opacity: 1},
		{Kind: video.KindImage, Index: 1, Path: "post.part0.png", Duration: 3, Opacity: 1},
	}
	tl, err := video.Assemble(visual, audio)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	bg, err := config.LookupBackground("minecraft")
	if err != nil {
		t.Fatalf("LookupBackground: %v", err)
	}
	comp, err := video.Compose(video.Scene{Background: bg, BackgroundPath: "bg.mp4", Timeline: tl})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return comp
}

func TestEncodeOutputParameters(t *testing.T) {
	runner := &captureRunner{}
	d := &Dispatcher{Threads: 6, Run: runner.run}

	if err := d.Encode(context.Background(), testComposite(t), "tmp/temp.mp4"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(runner.args) != 1 {
		t.Fatalf("runner called %d times", len(runner.args))
	}
	args := runner.args[0]
	for _, p := range [][2]string{
		{"-r", "30"},
		{"-c:v", "libx264"},
		{"-c:a", "aac"},
		{"-b:a", "192k"},
		{"-threads", "6"},
		{"-t", "5.000"},
	} {
		if !hasPair(args, p[0], p[1]) {
			t.Fatalf("missing %s %s in %v", p[0], p[1], args)
		}
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "tmp/temp.mp4") || !strings.Contains(joined, "-y") {
		t.Fatalf("expected overwrite of tmp/temp.mp4, got %v", args)
	}
}

func TestEncodeRejectsIncompleteComposite(t *testing.T) {
	runner := &captureRunner{}
	d := &Dispatcher{Threads: 1, Run: runner.run}
	if err := d.Encode(context.Background(), &video.Composite{}, "out.mp4"); err == nil {
		t.Fatalf("expected error")
	}
	if len(runner.args) != 0 {
		t.Fatalf("runner should not be called")
	}
}

func TestTrim(t *testing.T) {
	runner := &captureRunner{}
	d := &Dispatcher{Threads: 1, Run: runner.run}

	if err := d.Trim(context.Background(), "temp.mp4", 12.5, "results/AskReddit/x.mp4"); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	args := runner.args[0]
	if !hasPair(args, "-ss", "0") || !hasPair(args, "-t", "12.500") || !hasPair(args, "-c", "copy") {
		t.Fatalf("unexpected trim args: %v", args)
	}
	if !strings.Contains(strings.Join(args, " "), "results/AskReddit/x.mp4") {
		t.Fatalf("destination missing: %v", args)
	}

	if err := d.Trim(context.Background(), "temp.mp4", 0, "x.mp4"); err == nil {
		t.Fatalf("expected error for zero length")
	}
}

func TestRunnerErrorIsWrapped(t *testing.T) {
	boom := errors.New("exit status 1")
	d := &Dispatcher{Threads: 1, Run: (&captureRunner{err: boom}).run}
	err := d.Trim(context.Background(), "a.mp4", 1, "b.mp4")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
}

func TestNewDispatcherDefaults(t *testing.T) {
	d := NewDispatcher(0)
	if d.Threads != 1 || d.Run == nil {
		t.Fatalf("unexpected dispatcher: %+v", d)
	}
}
