package caption

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"shortsmith/config"
)

// Style selects how caption lines are rasterized.
type Style struct {
	// CSSPath is the stylesheet applied to the caption span.
	CSSPath string
	// CropWidth is the width of the produced image in pixels.
	CropWidth int
}

// StyleFromSettings resolves the theme stylesheet and crop width.
func StyleFromSettings(s config.Settings) Style {
	return Style{CSSPath: s.CaptionCSS(), CropWidth: s.CaptionRenderWidth}
}

// Rasterizer renders one caption line to a PNG file.
type Rasterizer interface {
	Render(ctx context.Context, text string, style Style, outPath string) error
}

// ImagePath is where the i-th caption image of a content item lives.
func ImagePath(pngDir string, i int) string {
	return filepath.Join(pngDir, fmt.Sprintf("post.part%d.png", i))
}

// RenderAll rasterizes captions in order into pngDir and returns the image
// paths. It stops at the first failure.
func RenderAll(ctx context.Context, r Rasterizer, captions []string, style Style, pngDir string) ([]string, error) {
	if err := os.MkdirAll(pngDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", pngDir, err)
	}

	paths := make([]string, 0, len(captions))
	for i, line := range captions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := ImagePath(pngDir, i)
		if err := r.Render(ctx, line, style, out); err != nil {
			return nil, fmt.Errorf("failed to render caption %d: %w", i, err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// Document builds the HTML page for one caption line. The text is escaped.
func Document(text, css string, width int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="utf-8">
<style>html,body{margin:0;padding:0;width:%dpx;background:transparent;}</style>
<style>%s</style>
</head><body><span>%s</span></body></html>`, width, css, html.EscapeString(text))
}
