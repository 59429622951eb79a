package tui

import (
	"fmt"
	"path/filepath"

	"shortsmith/video"

	tea "github.com/charmbracelet/bubbletea"
)

// Row is one line of the inspector table.
type Row struct {
	Layer string
	Start float64
	End   float64
	Path  string
}

// Loader produces the scene to inspect.
type Loader func() (*video.Scene, error)

// Model is the timeline inspector state.
type Model struct {
	load   Loader
	Title  string
	Rows   []Row
	Total  float64
	Cursor int
	Err    error
	Loaded bool
}

// NewModel creates an inspector that calls load on start and on reload.
func NewModel(title string, load Loader) Model {
	return Model{load: load, Title: title}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return loadScene(m.load)
}

// Rows flattens a scene into inspector rows in z-order.
func Rows(scene *video.Scene) []Row {
	tl := scene.Timeline
	rows := make([]Row, 0, tl.Len()+2)
	for i, clip := range tl.Visual() {
		rows = append(rows, Row{
			Layer: fmt.Sprintf("clip-%d", i),
			Start: tl.Start(i),
			End:   tl.End(i),
			Path:  filepath.Base(clip.Path),
		})
	}
	for _, ov := range []*video.OverlaySpec{scene.Logo, scene.Animation} {
		if ov == nil {
			continue
		}
		rows = append(rows, Row{Layer: ov.Name, Start: ov.Start, End: ov.End(), Path: filepath.Base(ov.Path)})
	}
	return rows
}
