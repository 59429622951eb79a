package render

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"shortsmith/config"
	"shortsmith/video"

	"github.com/sirupsen/logrus"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Runner executes a compiled ffmpeg graph.
type Runner func(ctx context.Context, s *ffmpeg.Stream) error

// Dispatcher hands composites to ffmpeg with fixed output parameters.
type Dispatcher struct {
	Threads int
	Run     Runner
}

// NewDispatcher returns a dispatcher that runs the ffmpeg binary on PATH.
func NewDispatcher(threads int) *Dispatcher {
	if threads <= 0 {
		threads = 1
	}
	return &Dispatcher{Threads: threads, Run: RunFFmpeg}
}

// EncodeStream builds the encode graph for comp without running it.
func (d *Dispatcher) EncodeStream(comp *video.Composite, outPath string) *ffmpeg.Stream {
	return ffmpeg.Output([]*ffmpeg.Stream{comp.Video, comp.Audio}, outPath, ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"c:a":     config.AudioCodec,
		"b:a":     config.AudioBitrate,
		"preset":  config.VideoPreset,
		"r":       strconv.Itoa(config.FrameRate),
		"pix_fmt": "yuv420p",
		"threads": strconv.Itoa(d.Threads),
		"t":       strconv.FormatFloat(comp.Duration, 'f', 3, 64),
	}).OverWriteOutput()
}

// Encode renders comp to outPath.
func (d *Dispatcher) Encode(ctx context.Context, comp *video.Composite, outPath string) error {
	if comp == nil || comp.Video == nil || comp.Audio == nil {
		return fmt.Errorf("encode %s: incomplete composite", outPath)
	}
	config.Log.WithFields(logrus.Fields{
		"output":   outPath,
		"duration": comp.Duration,
		"layers":   len(comp.Layers),
	}).Info("Encoding composite")

	if err := d.Run(ctx, d.EncodeStream(comp, outPath)); err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w", err)
	}
	return nil
}

// TrimStream builds the subclip [0,length) copy graph without running it.
func (d *Dispatcher) TrimStream(srcPath string, length float64, dstPath string) *ffmpeg.Stream {
	return ffmpeg.Input(srcPath, ffmpeg.KwArgs{"ss": "0"}).
		Output(dstPath, ffmpeg.KwArgs{
			"t": strconv.FormatFloat(length, 'f', 3, 64),
			"c": "copy",
		}).OverWriteOutput()
}

// Trim cuts the encoded video at srcPath down to length seconds into dstPath.
func (d *Dispatcher) Trim(ctx context.Context, srcPath string, length float64, dstPath string) error {
	if length <= 0 {
		return fmt.Errorf("trim %s: length must be positive, got %v", srcPath, length)
	}
	config.Log.WithFields(logrus.Fields{
		"source": srcPath,
		"output": dstPath,
		"length": length,
	}).Info("Trimming render")

	if err := d.Run(ctx, d.TrimStream(srcPath, length, dstPath)); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}
	return nil
}

// RunFFmpeg runs s and kills the process if ctx ends first. ffmpeg's stderr
// goes to the debug log.
func RunFFmpeg(ctx context.Context, s *ffmpeg.Stream) error {
	w := config.Log.WriterLevel(logrus.DebugLevel)
	defer w.Close()

	cmd := s.WithErrorOutput(w).Compile()
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		killProcess(cmd)
		<-done
		return ctx.Err()
	}
}

func killProcess(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
