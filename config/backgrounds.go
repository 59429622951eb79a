package config

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ClipPosition describes where caption clips sit on a background.
type ClipPosition struct {
	// Top is the distance from the top edge; ignored when Centered
	Top int
	// Drift moves the clips down one pixel per second
	Drift    bool
	Centered bool
}

// Background is one entry of the background catalog.
type Background struct {
	Name     string
	URI      string
	Filename string
	// Citation credits the owner of the footage
	Citation     string
	NativeWidth  int
	NativeHeight int
	Position     ClipPosition
}

// Path returns the location of the background loop on disk.
func (b Background) Path() string {
	return filepath.Join(BackgroundsDir, b.Filename)
}

// Backgrounds is the catalog of supported background loops keyed by the
// name used in configuration.
var Backgrounds = map[string]Background{
	"origminecraft": {
		Name:         "origminecraft",
		URI:          "https://www.youtube.com/watch?v=Pt5_GSKIWQM",
		Filename:     "ItsIpsn.mp4",
		Citation:     "ItsIpsn",
		NativeWidth:  1920,
		NativeHeight: 1080,
		Position:     ClipPosition{Top: 480, Drift: true},
	},
	"motor-gta": {
		Name:         "motor-gta",
		URI:          "https://www.youtube.com/watch?v=vw5L4xCPy9Q",
		Filename:     "bike-parkour-gta.mp4",
		Citation:     "Achy Gaming",
		NativeWidth:  1920,
		NativeHeight: 1080,
		Position:     ClipPosition{Top: 480, Drift: true},
	},
	"rocket-league": {
		Name:         "rocket-league",
		URI:          "https://www.youtube.com/watch?v=2X9QGY__0II",
		Filename:     "rocket_league.mp4",
		Citation:     "Orbital Gameplay",
		NativeWidth:  1920,
		NativeHeight: 1080,
		Position:     ClipPosition{Top: 200, Drift: true},
	},
	"minecraft": {
		Name:         "minecraft",
		URI:          "https://www.youtube.com/watch?v=n_Dv4JMiwK8",
		Filename:     "parkour.mp4",
		Citation:     "bbswitzer",
		NativeWidth:  1920,
		NativeHeight: 1080,
		Position:     ClipPosition{Centered: true},
	},
}

// LookupBackground returns the catalog entry for name.
func LookupBackground(name string) (Background, error) {
	bg, ok := Backgrounds[name]
	if !ok {
		return Background{}, fmt.Errorf("unknown background %q (known: %v)", name, BackgroundNames())
	}
	return bg, nil
}

// BackgroundNames lists the catalog keys in sorted order.
func BackgroundNames() []string {
	names := make([]string, 0, len(Backgrounds))
	for name := range Backgrounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
