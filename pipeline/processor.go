package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shortsmith/assets"
	"shortsmith/config"
	"shortsmith/datalog"
	"shortsmith/publish"
	"shortsmith/types"

	"github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyRendered is returned for content that is already in the video log.
	ErrAlreadyRendered = errors.New("content already rendered")
	// ErrInProgress is returned while another job renders the same content.
	ErrInProgress = errors.New("content is already being rendered")
)

// Processor turns render requests into finished, optionally published videos.
// At most config.MaxConcurrentVideos renders run at once, whichever surface
// submitted them, and a content id renders in one job at a time.
type Processor struct {
	renderer   *Renderer
	publishers []publish.Publisher
	// BatchDelay spaces out job starts in ProcessFromDirectory.
	BatchDelay time.Duration

	slots    chan struct{}
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewProcessor wraps renderer. Publishers run in order after each successful
// render whose request asks for publishing.
func NewProcessor(renderer *Renderer, publishers ...publish.Publisher) *Processor {
	return &Processor{
		renderer:   renderer,
		publishers: publishers,
		BatchDelay: config.VideoBatchDelay,
		slots:      make(chan struct{}, config.MaxConcurrentVideos),
		inFlight:   map[string]struct{}{},
	}
}

// claim marks id as rendering. It reports false if it already is.
func (p *Processor) claim(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[id]; busy {
		return false
	}
	p.inFlight[id] = struct{}{}
	return true
}

func (p *Processor) release(id string) {
	p.mu.Lock()
	delete(p.inFlight, id)
	p.mu.Unlock()
}

// IsSkip reports whether err means the request was dropped as a duplicate.
func IsSkip(err error) bool {
	return errors.Is(err, ErrAlreadyRendered) || errors.Is(err, ErrInProgress)
}

// Process validates req and renders it.
func (p *Processor) Process(ctx context.Context, req types.RenderRequest) (*types.RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render request: %w", err)
	}
	bg, err := config.LookupBackground(req.Background)
	if err != nil {
		return nil, err
	}

	id := assets.SanitizeID(req.Content.ThreadID)
	if !p.claim(id) {
		return nil, fmt.Errorf("%s: %w", req.Content.ThreadID, ErrInProgress)
	}
	defer p.release(id)

	done, err := p.renderer.Store.Done(ctx, id)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, fmt.Errorf("%s: %w", req.Content.ThreadID, ErrAlreadyRendered)
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.slots }()

	result, err := p.renderer.MakeFinalVideo(ctx, Job{
		CommentCount:  req.CommentCount,
		Length:        req.Length,
		Content:       req.Content,
		Background:    bg,
		LogoPath:      req.LogoPath,
		AnimationPath: req.AnimationPath,
	})
	if err != nil {
		return nil, err
	}

	if req.Publish {
		p.publish(ctx, req, result)
	}
	return result, nil
}

// publish runs every publisher. Failures are logged and do not fail the job.
func (p *Processor) publish(ctx context.Context, req types.RenderRequest, result *types.RenderResult) {
	bg, _ := config.LookupBackground(req.Background)
	v := publish.Video{
		Path:             result.Path,
		Filename:         result.Filename,
		Title:            req.Content.ThreadTitle,
		ContentID:        result.ContentID,
		Subreddit:        p.renderer.Settings.Subreddit,
		BackgroundCredit: bg.Citation,
	}
	for _, pub := range p.publishers {
		ref, err := pub.Publish(ctx, v)
		log := config.Log.WithFields(logrus.Fields{"id": result.ContentID, "publisher": pub.Name()})
		if err != nil {
			log.Errorf("Publish failed: %v", err)
			continue
		}
		switch pub.Name() {
		case "youtube":
			result.VideoID = ref
		case "s3":
			result.ObjectKey = ref
		}
		log.WithField("ref", ref).Info("Published")
	}
}

// ProcessFile renders the request stored as JSON at path.
func (p *Processor) ProcessFile(ctx context.Context, path string, current, total int) error {
	config.Log.Infof("[%d/%d] Processing: %s", current, total, filepath.Base(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	var req types.RenderRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}
	_, err = p.Process(ctx, req)
	return err
}

// ProcessFromDirectory renders every *.json request in dir. Process bounds
// how many run at once.
func (p *Processor) ProcessFromDirectory(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}
	if len(files) == 0 {
		config.Log.Infof("No request files found in %s", dir)
		return nil
	}
	config.Log.Infof("Found %d videos to process", len(files))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for i, file := range files {
		if i > 0 && p.BatchDelay > 0 {
			select {
			case <-time.After(p.BatchDelay):
			case <-ctx.Done():
				wg.Wait()
				return ctx.Err()
			}
		}

		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()

			if err := p.ProcessFile(ctx, file, idx+1, len(files)); err != nil {
				if IsSkip(err) {
					config.Log.Infof("Skipping %s: %v", filepath.Base(file), err)
					return
				}
				config.Log.Errorf("Failed to process %s: %v", file, err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}(i, file)
	}

	wg.Wait()
	if failures > 0 {
		return fmt.Errorf("%d of %d videos failed", failures, len(files))
	}
	config.Log.Info("All videos processed")
	return nil
}

// Settings exposes the renderer's settings.
func (p *Processor) Settings() config.Settings { return p.renderer.Settings }

// Store exposes the video log.
func (p *Processor) Store() datalog.Store { return p.renderer.Store }
