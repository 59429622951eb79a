package video

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"shortsmith/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// maxRGBDistance is the euclidean distance between black and white.
var maxRGBDistance = 255 * math.Sqrt(3)

// ChromaKey classifies pixels as transparent by their RGB distance d to
// Color: alpha = d^s / (Threshold^s + d^s), s being Softness.
type ChromaKey struct {
	Color     [3]uint8
	Threshold float64
	Softness  float64
}

// DefaultChromaKey keys out the green backdrop of the bundled animation.
func DefaultChromaKey() ChromaKey {
	return ChromaKey{
		Color:     config.DefaultChromaKeyColor,
		Threshold: config.DefaultChromaKeyThreshold,
		Softness:  config.DefaultChromaKeySoftness,
	}
}

func (k ChromaKey) distance(r, g, b uint8) float64 {
	dr := float64(r) - float64(k.Color[0])
	dg := float64(g) - float64(k.Color[1])
	db := float64(b) - float64(k.Color[2])
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Alpha returns the opacity in [0,1] the key assigns to a pixel.
func (k ChromaKey) Alpha(r, g, b uint8) float64 {
	d := k.distance(r, g, b)
	if k.Threshold == 0 {
		if d == 0 {
			return 0
		}
		return 1
	}
	ds := math.Pow(d, k.Softness)
	return ds / (math.Pow(k.Threshold, k.Softness) + ds)
}

// KeyImage returns a copy of img with the key applied to its alpha channel.
func (k ChromaKey) KeyImage(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			a := k.Alpha(c.R, c.G, c.B) * float64(c.A)
			c.A = uint8(math.Round(a))
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// Ramp returns the distances at which the key reaches 10% and 90% opacity.
func (k ChromaKey) Ramp() (low, high float64) {
	if k.Threshold == 0 || k.Softness <= 0 {
		return k.Threshold, k.Threshold
	}
	low = k.Threshold * math.Pow(1.0/9, 1/k.Softness)
	high = k.Threshold * math.Pow(9, 1/k.Softness)
	return low, high
}

// FilterArgs maps the key onto ffmpeg's colorkey filter, whose alpha ramps
// linearly from similarity to similarity+blend in normalized distance. The
// ramp spans the curve's 10% to 90% points, so encoded output approximates
// Alpha; KeyImage applies it exactly.
func (k ChromaKey) FilterArgs() ffmpeg.KwArgs {
	low, high := k.Ramp()
	similarity := math.Max(low/maxRGBDistance, 0.00001)
	blend := math.Min((high-low)/maxRGBDistance, 1)
	return ffmpeg.KwArgs{
		"color":      fmt.Sprintf("0x%02X%02X%02X", k.Color[0], k.Color[1], k.Color[2]),
		"similarity": fmt.Sprintf("%.5f", math.Min(similarity, 1)),
		"blend":      fmt.Sprintf("%.5f", blend),
	}
}
