package video

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Prober reads media metadata.
type Prober interface {
	Duration(path string) (float64, error)
	Width(path string) (int, error)
}

// FFProbe implements Prober with ffprobe.
type FFProbe struct{}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
	} `json:"streams"`
}

func (FFProbe) probe(path string) (*probeOutput, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("error unmarshalling ffprobe output for %s: %w", path, err)
	}
	return &out, nil
}

// Duration returns the container duration in seconds.
func (p FFProbe) Duration(path string) (float64, error) {
	out, err := p.probe(path)
	if err != nil {
		return 0, err
	}
	if out.Format.Duration == "" {
		return 0, fmt.Errorf("could not retrieve duration of %s", path)
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing duration %q of %s: %w", out.Format.Duration, path, err)
	}
	return d, nil
}

// Width returns the width of the first video stream.
func (p FFProbe) Width(path string) (int, error) {
	out, err := p.probe(path)
	if err != nil {
		return 0, err
	}
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			return s.Width, nil
		}
	}
	return 0, fmt.Errorf("no video stream in %s", path)
}
