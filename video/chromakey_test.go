package video

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"testing"
)

func TestChromaKeyAlpha(t *testing.T) {
	k := DefaultChromaKey()

	if a := k.Alpha(64, 222, 0); a != 0 {
		t.Fatalf("key color alpha = %v; want 0", a)
	}
	if a := k.Alpha(255, 255, 255); a < 0.9 {
		t.Fatalf("white alpha = %v; want mostly opaque", a)
	}

	// A pixel exactly Threshold away is half transparent.
	if a := k.Alpha(64+150, 222, 0); math.Abs(a-0.5) > 1e-9 {
		t.Fatalf("alpha at threshold = %v; want 0.5", a)
	}
}

func TestChromaKeyZeroThreshold(t *testing.T) {
	k := ChromaKey{Color: [3]uint8{0, 255, 0}, Threshold: 0, Softness: 5}
	if k.Alpha(0, 255, 0) != 0 || k.Alpha(0, 254, 0) != 1 {
		t.Fatalf("zero threshold must only key the exact color")
	}
}

func TestKeyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{64, 222, 0, 255})
	img.Set(1, 0, color.RGBA{200, 30, 200, 255})

	out := DefaultChromaKey().KeyImage(img)
	if a := out.NRGBAAt(0, 0).A; a != 0 {
		t.Fatalf("keyed pixel alpha = %d; want 0", a)
	}
	if a := out.NRGBAAt(1, 0).A; a < 200 {
		t.Fatalf("foreground pixel alpha = %d; want mostly opaque", a)
	}
	if c := out.NRGBAAt(1, 0); c.R != 200 || c.G != 30 || c.B != 200 {
		t.Fatalf("foreground color changed: %+v", c)
	}
}

func TestChromaKeyFilterArgs(t *testing.T) {
	args := DefaultChromaKey().FilterArgs()
	if args["color"] != "0x40DE00" {
		t.Fatalf("color = %v", args["color"])
	}
	sim, err := strconv.ParseFloat(args["similarity"].(string), 64)
	if err != nil {
		t.Fatalf("similarity: %v", err)
	}
	blend, err := strconv.ParseFloat(args["blend"].(string), 64)
	if err != nil {
		t.Fatalf("blend: %v", err)
	}
	low, high := DefaultChromaKey().Ramp()
	if low >= 150 || high <= 150 {
		t.Fatalf("ramp %v..%v must straddle the threshold", low, high)
	}
	mid := 150 / maxRGBDistance
	if sim >= mid || sim+blend <= mid {
		t.Fatalf("colorkey ramp %v..%v must straddle %v", sim, sim+blend, mid)
	}
}

func TestRampMatchesAlphaCurve(t *testing.T) {
	k := DefaultChromaKey()
	low, high := k.Ramp()
	for _, c := range []struct {
		dist float64
		want float64
	}{{low, 0.1}, {high, 0.9}} {
		// Offset along the blue channel only, so the RGB distance is the offset.
		got := k.Alpha(k.Color[0], k.Color[1], uint8(math.Round(c.dist)))
		if math.Abs(got-c.want) > 0.01 {
			t.Fatalf("Alpha at distance %.1f = %.3f; want about %.1f", c.dist, got, c.want)
		}
	}
}
