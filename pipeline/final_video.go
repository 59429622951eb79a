package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shortsmith/assets"
	"shortsmith/caption"
	"shortsmith/cleanup"
	"shortsmith/config"
	"shortsmith/datalog"
	"shortsmith/naming"
	"shortsmith/types"
	"shortsmith/video"

	"github.com/sirupsen/logrus"
)

// Job is one composition request.
type Job struct {
	CommentCount  int
	Length        float64
	Content       types.Content
	Background    config.Background
	LogoPath      string
	AnimationPath string
}

// Encoder runs the composite through the external encoder.
type Encoder interface {
	Encode(ctx context.Context, comp *video.Composite, outPath string) error
	Trim(ctx context.Context, srcPath string, length float64, dstPath string) error
}

// Renderer holds the collaborators MakeFinalVideo needs.
type Renderer struct {
	Settings   config.Settings
	Prober     video.Prober
	Rasterizer caption.Rasterizer
	Encoder    Encoder
	Namer      *naming.Namer
	Store      datalog.Store
}

// MakeFinalVideo builds, encodes and trims the video for job and records it.
// Encode and trim both write inside the content's temp directory; the result
// only lands in the results folder once it is complete, and is removed again
// if it cannot be recorded. Temporary assets are kept on failure.
func (r *Renderer) MakeFinalVideo(ctx context.Context, job Job) (*types.RenderResult, error) {
	started := time.Now()
	s := r.Settings
	id := assets.SanitizeID(job.Content.ThreadID)
	log := config.Log.WithFields(logrus.Fields{"id": id, "background": job.Background.Name})

	set, err := assets.Index(s.TempDir, id, job.CommentCount)
	if err != nil {
		return nil, err
	}
	if err := video.CheckCaptions(len(set.Captions), len(set.Body)); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"body": len(set.Body), "comments": len(set.Comments)}).Info("Assets indexed")

	if _, err := caption.RenderAll(ctx, r.Rasterizer, set.Captions, caption.StyleFromSettings(s), pngDir(set)); err != nil {
		return nil, err
	}

	scene, err := r.scene(job, set)
	if err != nil {
		return nil, err
	}
	total := scene.Timeline.TotalDuration()
	log.WithFields(logrus.Fields{"clips": scene.Timeline.Len(), "duration": total}).Info("Timeline assembled")

	comp, err := video.Compose(*scene)
	if err != nil {
		return nil, err
	}

	tempPath := filepath.Join(set.Dir, "temp.mp4")
	if err := r.Encoder.Encode(ctx, comp, tempPath); err != nil {
		return nil, err
	}

	filename, err := r.Namer.Filename(ctx, job.Content.ThreadTitle)
	if err != nil {
		return nil, err
	}
	resultsDir := filepath.Join(s.ResultsDir, s.Subreddit)
	if _, err := os.Stat(resultsDir); os.IsNotExist(err) {
		log.WithField("dir", resultsDir).Info("Results folder did not exist, creating it")
	}
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results folder: %w", err)
	}
	finalPath := filepath.Join(set.Dir, "final.mp4")
	if err := r.Encoder.Trim(ctx, tempPath, job.Length, finalPath); err != nil {
		return nil, err
	}

	outPath := filepath.Join(resultsDir, filename)
	if err := moveFile(finalPath, outPath); err != nil {
		return nil, fmt.Errorf("failed to move render into results: %w", err)
	}

	record := datalog.NewRecord(s.Subreddit, filename, job.Content.ThreadTitle, id, job.Background.Citation)
	if err := r.Store.Save(ctx, record); err != nil {
		if rmErr := os.Remove(outPath); rmErr != nil {
			log.Warnf("Unrecorded render not removed: %v", rmErr)
		}
		return nil, fmt.Errorf("failed to record video: %w", err)
	}

	if _, err := cleanup.Purge(s.TempDir, id); err != nil {
		log.Warnf("Temporary assets not removed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"path":    outPath,
		"elapsed": time.Since(started).Round(time.Millisecond).String(),
	}).Info("Video rendered")

	return &types.RenderResult{
		ContentID: id,
		Path:      outPath,
		Filename:  filename,
		Duration:  min(job.Length, total),
	}, nil
}

// Plan indexes the assets of job and lays out its scene without rendering
// captions or encoding anything.
func (r *Renderer) Plan(job Job) (*video.Scene, error) {
	id := assets.SanitizeID(job.Content.ThreadID)
	set, err := assets.Index(r.Settings.TempDir, id, job.CommentCount)
	if err != nil {
		return nil, err
	}
	if err := video.CheckCaptions(len(set.Captions), len(set.Body)); err != nil {
		return nil, err
	}
	return r.scene(job, set)
}

// scene builds the tracks, the timeline and the overlays for set.
func (r *Renderer) scene(job Job, set *assets.Set) (*video.Scene, error) {
	s := r.Settings

	visual, audio, err := video.BuildTracks(r.Prober, segments(set, clipStyle(s)))
	if err != nil {
		return nil, err
	}
	tl, err := video.Assemble(visual, audio)
	if err != nil {
		return nil, err
	}
	total := tl.TotalDuration()

	logo := video.PlaceLogo(job.LogoPath, total, video.LogoOptions{FadeIn: s.LogoFadeIn})
	anim, err := video.LoadAnimation(r.Prober, job.AnimationPath)
	if err != nil {
		return nil, err
	}
	animation, err := video.PlaceAnimation(anim, total, video.AnimationOptions{
		Width:       s.AnimationWidth,
		RightMargin: s.AnimationRightMargin,
		Placement:   s.AnimationPlacement,
		Key: video.ChromaKey{
			Color:     s.ChromaKeyColor,
			Threshold: s.ChromaKeyThreshold,
			Softness:  s.ChromaKeySoftness,
		},
	})
	if err != nil {
		return nil, err
	}

	return &video.Scene{
		Background:     job.Background,
		BackgroundPath: job.Background.Path(),
		Timeline:       tl,
		Logo:           &logo,
		Animation:      &animation,
	}, nil
}

// moveFile renames src to dst, copying through a hidden temp file in dst's
// directory when the rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".render-*.part")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Remove(src)
}

func pngDir(set *assets.Set) string { return filepath.Join(set.Dir, "png") }

// clipStyle is the look shared by the title, caption and comment clips.
func clipStyle(s config.Settings) video.ClipStyle {
	return video.ClipStyle{
		Opacity: s.Opacity,
		FadeIn:  s.Transition,
		FadeOut: s.Transition,
		Resize:  video.FitWidth(s.CaptionMaxWidth),
		Margin:  video.Margin{Right: s.CaptionRightMargin},
	}
}

// segments orders the title, then body captions, then comments. Each image
// is paired with its own narration.
func segments(set *assets.Set, style video.ClipStyle) []video.Segment {
	out := make([]video.Segment, 0, 1+len(set.Body)+len(set.Comments))
	out = append(out, video.Segment{Audio: set.TitleAudio, Image: set.TitleImage, Style: style})
	for i, part := range set.Body {
		out = append(out, video.Segment{Audio: part.Audio, Image: caption.ImagePath(pngDir(set), i), Style: style})
	}
	for _, c := range set.Comments {
		out = append(out, video.Segment{Audio: c.Audio, Image: c.Image, Style: style})
	}
	return out
}
