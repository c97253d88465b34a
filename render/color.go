package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/saver/terminal"
)

// clamp converts float to uint8 efficiently
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Lerp linearly interpolates between two colors in RGB space
// t=0 returns a, t=1 returns b. Palette colors are expanded first
func Lerp(a, b terminal.Color, t float64) terminal.Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ar, ag, ab := a.Channels()
	br, bg, bb := b.Channels()
	return terminal.Color{
		R: clamp(math.Round(float64(ar) + t*float64(int(br)-int(ar)))),
		G: clamp(math.Round(float64(ag) + t*float64(int(bg)-int(ag)))),
		B: clamp(math.Round(float64(ab) + t*float64(int(bb)-int(ab)))),
	}
}

// Scale multiplies all channels by factor, saturating at 255
func Scale(c terminal.Color, factor float64) terminal.Color {
	r, g, b := c.Channels()
	return terminal.Color{
		R: clamp(float64(r) * factor),
		G: clamp(float64(g) * factor),
		B: clamp(float64(b) * factor),
	}
}

// Grayscale converts to gray using Rec. 601 luma coefficients
func Grayscale(c terminal.Color) terminal.Color {
	r, g, b := c.Channels()
	gray := uint8((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
	return terminal.Color{R: gray, G: gray, B: gray}
}

// Hue returns a fully saturated color at the given hue in degrees
func Hue(degrees, value float64) terminal.Color {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	return terminal.FromColorful(colorful.Hsv(degrees, 1, value))
}

// Blend mixes two colors perceptually in CIE L*a*b*
// Endpoints are returned unchanged, like Lerp
func Blend(a, b terminal.Color, t float64) terminal.Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return terminal.FromColorful(a.Colorful().BlendLab(b.Colorful(), t))
}
