package caption

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"shortsmith/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const renderTimeout = 30 * time.Second

// RodRasterizer renders captions in a headless Chromium.
type RodRasterizer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser

	mu  sync.Mutex
	css map[string]string
}

// NewRodRasterizer launches the browser. Close releases it.
func NewRodRasterizer() (*RodRasterizer, error) {
	l := launcher.New().Headless(true)
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching browser: %v", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("error connecting to browser: %v", err)
	}

	return &RodRasterizer{launcher: l, browser: browser, css: map[string]string{}}, nil
}

// Render screenshots the caption body at the style's crop width.
func (r *RodRasterizer) Render(ctx context.Context, text string, style Style, outPath string) error {
	css, err := r.stylesheet(style.CSSPath)
	if err != nil {
		return err
	}
	width := style.CropWidth
	if width <= 0 {
		width = config.DefaultCaptionRenderWidth
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx).Timeout(renderTimeout)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            200,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("failed to size page: %w", err)
	}
	if err := page.SetDocumentContent(Document(text, css, width)); err != nil {
		return fmt.Errorf("failed to load caption: %w", err)
	}

	body, err := page.Element("body")
	if err != nil {
		return fmt.Errorf("caption body not found: %w", err)
	}
	png, err := body.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}

	config.Log.WithField("path", outPath).Debug("Caption rendered")
	return os.WriteFile(outPath, png, 0o644)
}

func (r *RodRasterizer) stylesheet(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if css, ok := r.css[path]; ok {
		return css, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read caption stylesheet: %w", err)
	}
	r.css[path] = string(data)
	return r.css[path], nil
}

// Close shuts the browser down.
func (r *RodRasterizer) Close() {
	if r.browser != nil {
		r.browser.Close()
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
	}
}
