package pipemagic

import "image/color"

// RGBA is a color value with components in [0, 1]. It is the representation
// used by executors (outline color, composite blending) that need to reason
// about color algebraically rather than as packed bytes.
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// Hex parses a "#rrggbb" or "#rrggbbaa" (also "#rgb"/"#rgba") color string,
// the wire format for the outline executor's color parameter. Input of any
// other length yields opaque black; a non-hex digit stops parsing of the
// component it appears in, keeping the digits read before it.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		parseHexDigit(hex[0:1], &r)
		parseHexDigit(hex[1:2], &g)
		parseHexDigit(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		parseHexDigit(hex[0:1], &r)
		parseHexDigit(hex[1:2], &g)
		parseHexDigit(hex[2:3], &b)
		parseHexDigit(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		parseHexDigit(hex[0:2], &r)
		parseHexDigit(hex[2:4], &g)
		parseHexDigit(hex[4:6], &b)
	case 8:
		parseHexDigit(hex[0:2], &r)
		parseHexDigit(hex[2:4], &g)
		parseHexDigit(hex[4:6], &b)
		parseHexDigit(hex[6:8], &a)
	default:
		return RGBA{A: 1}
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

func parseHexDigit(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// Premultiply returns a premultiplied-alpha copy of c.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Lerp linearly interpolates between c and other by t (used by the outline
// composite pass: mix(original, outlineColor, outlineAlpha*opacity)).
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// clamp255 restricts a value to [0, 255].
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
