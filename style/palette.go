package style

import (
	"image/color"
	"math"
)

// paletteSize is the number of distinct colors handed to unstyled series.
const paletteSize = 20

// palette spaces hues by the golden angle at constant perceived lightness
// and chroma, so that neighboring series stay distinguishable.
var palette = func() []color.NRGBA {
	out := make([]color.NRGBA, 0, paletteSize)
	for i := 0; i < paletteSize; i++ {
		out = append(out, oklch{
			L: .5,
			C: .2,
			H: math.Mod(float64(i+1)*math.Phi*2*math.Pi, 1) * 360,
		}.NRGBA())
	}
	return out
}()

// PaletteColor returns the color of the i-th series when its style has none.
func PaletteColor(i int) color.NRGBA {
	return palette[i%len(palette)]
}

// oklch is an opaque color in the OKLCH space. H is in degrees.
type oklch struct {
	L, C, H float64
}

func (c oklch) NRGBA() color.NRGBA {
	h := c.H * math.Pi / 180
	a, b := c.C*math.Cos(h), c.C*math.Sin(h)

	l := cube(c.L + 0.3963377774*a + 0.2158037573*b)
	m := cube(c.L - 0.1055613458*a - 0.0638541728*b)
	s := cube(c.L - 0.0894841775*a - 1.2914855480*b)

	return color.NRGBA{
		R: srgb(4.0767416621*l - 3.3077115913*m + 0.2309699292*s),
		G: srgb(-1.2684380046*l + 2.6097574011*m - 0.3413193965*s),
		B: srgb(-0.0041960863*l - 0.7034186147*m + 1.7076147010*s),
		A: 0xff,
	}
}

func cube(v float64) float64 { return v * v * v }

// srgb gamma-encodes a linear channel, clamping out of gamut values.
func srgb(v float64) uint8 {
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math.Round(min(max(v, 0), 1) * 255))
}
