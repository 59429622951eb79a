package video

import "fmt"

// AssetAlignmentError reports disagreeing caption, audio or image counts,
// or a clip whose index does not line up with its pair.
type AssetAlignmentError struct {
	What     string
	Expected int
	Got      int
}

func (e *AssetAlignmentError) Error() string {
	return fmt.Sprintf("asset alignment: %s: expected %d, got %d", e.What, e.Expected, e.Got)
}

// TimelineDesyncError reports visual and audio tracks whose totals differ
// by more than one frame.
type TimelineDesyncError struct {
	Visual float64
	Audio  float64
}

func (e *TimelineDesyncError) Error() string {
	return fmt.Sprintf("timeline desync: visual track %.3fs, audio track %.3fs", e.Visual, e.Audio)
}

// OverlayOverflowError reports an overlay longer than the timeline it is
// placed on.
type OverlayOverflowError struct {
	Overlay  string
	Duration float64
	Timeline float64
}

func (e *OverlayOverflowError) Error() string {
	return fmt.Sprintf("overlay %s (%.3fs) does not fit a %.3fs timeline", e.Overlay, e.Duration, e.Timeline)
}
