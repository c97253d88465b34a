package terminal

import (
	"github.com/lucasb-eyer/go-colorful"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// String returns the flag spelling of the mode
func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// Color is either a 24-bit RGB triple or a 256-color palette index.
// When Indexed is set, R carries the palette index and G/B are ignored.
type Color struct {
	R, G, B uint8
	Indexed bool
}

// Black is the zero value color
var Black = Color{}

// White is full-intensity RGB white
var White = Color{R: 255, G: 255, B: 255}

// RGB builds a color from int channels, clamping each to [0,255]
func RGB(r, g, b int) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

// Palette builds a 256-color palette reference
func Palette(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful converts to go-colorful. Palette colors are expanded to their RGB value.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.Channels()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Channels returns the RGB channels, expanding palette indices
func (c Color) Channels() (r, g, b uint8) {
	if !c.Indexed {
		return c.R, c.G, c.B
	}
	return paletteRGB(c.R)
}

// Index returns the nearest 256-color palette index
func (c Color) Index() uint8 {
	if c.Indexed {
		return c.R
	}
	return RGBTo256(c.R, c.G, c.B)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Color cube levels for the 6x6x6 palette (indices 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// Standard ANSI colors 0-15 (xterm defaults)
var ansi16 = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// cubeIndex maps 0-255 to the nearest cube level index 0-5
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := absInt(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			if d := absInt(i - int(cubeValues[j])); d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 finds the nearest 256-color palette index for an RGB value.
// Near-gray inputs are matched against the grayscale ramp (232-255) as well as the cube.
func RGBTo256(r, g, b uint8) uint8 {
	cr, cg, cb := cubeIndex[r], cubeIndex[g], cubeIndex[b]
	cube := 16 + 36*cr + 6*cg + cb

	gray := (int(r) + int(g) + int(b)) / 3
	spread := max(absInt(int(r)-gray), absInt(int(g)-gray), absInt(int(b)-gray))
	if spread >= 10 {
		return cube
	}
	if gray < 4 {
		return 16
	}
	if gray > 243 {
		return 231
	}

	grayIdx := 232 + (gray-8)/10
	if grayIdx > 255 {
		grayIdx = 255
	}
	level := 8 + (grayIdx-232)*10
	grayDist := absInt(int(r)-level) + absInt(int(g)-level) + absInt(int(b)-level)
	cubeDist := absInt(int(r)-int(cubeValues[cr])) +
		absInt(int(g)-int(cubeValues[cg])) +
		absInt(int(b)-int(cubeValues[cb]))
	if grayDist < cubeDist {
		return uint8(grayIdx)
	}
	return cube
}

// paletteRGB expands a palette index into approximate RGB channels
func paletteRGB(idx uint8) (uint8, uint8, uint8) {
	switch {
	case idx < 16:
		c := ansi16[idx]
		return c[0], c[1], c[2]
	case idx < 232:
		i := idx - 16
		return cubeValues[i/36], cubeValues[(i/6)%6], cubeValues[i%6]
	default:
		v := 8 + (idx-232)*10
		return v, v, v
	}
}
