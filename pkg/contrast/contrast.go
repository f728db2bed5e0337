// Package contrast implements the WCAG color contrast math used by
// the visual accessibility rules: a small closed grammar for CSS color
// expressions and the relative-luminance contrast ratio.
package contrast

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGB is a 24-bit color. Alpha channels in the source expression are
// parsed but discarded.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// RatioAA is the WCAG 2.1 AA minimum contrast ratio for normal-size
// text. Large-text (3:1) cases are not distinguished; static markup
// gives no reliable rendered font size.
const RatioAA = 4.5

var namedColors = map[string]RGB{
	"black":     {0x00, 0x00, 0x00},
	"white":     {0xff, 0xff, 0xff},
	"red":       {0xff, 0x00, 0x00},
	"green":     {0x00, 0x80, 0x00},
	"blue":      {0x00, 0x00, 0xff},
	"yellow":    {0xff, 0xff, 0x00},
	"orange":    {0xff, 0xa5, 0x00},
	"purple":    {0x80, 0x00, 0x80},
	"gray":      {0x80, 0x80, 0x80},
	"grey":      {0x80, 0x80, 0x80},
	"silver":    {0xc0, 0xc0, 0xc0},
	"maroon":    {0x80, 0x00, 0x00},
	"navy":      {0x00, 0x00, 0x80},
	"teal":      {0x00, 0x80, 0x80},
	"olive":     {0x80, 0x80, 0x00},
	"lime":      {0x00, 0xff, 0x00},
	"aqua":      {0x00, 0xff, 0xff},
	"cyan":      {0x00, 0xff, 0xff},
	"fuchsia":   {0xff, 0x00, 0xff},
	"magenta":   {0xff, 0x00, 0xff},
	"brown":     {0xa5, 0x2a, 0x2a},
	"pink":      {0xff, 0xc0, 0xcb},
	"gold":      {0xff, 0xd7, 0x00},
	"beige":     {0xf5, 0xf5, 0xdc},
	"ivory":     {0xff, 0xff, 0xf0},
	"khaki":     {0xf0, 0xe6, 0x8c},
	"lavender":  {0xe6, 0xe6, 0xfa},
	"salmon":    {0xfa, 0x80, 0x72},
	"coral":     {0xff, 0x7f, 0x50},
	"tomato":    {0xff, 0x63, 0x47},
	"darkgray":  {0xa9, 0xa9, 0xa9},
	"darkgrey":  {0xa9, 0xa9, 0xa9},
	"lightgray": {0xd3, 0xd3, 0xd3},
	"lightgrey": {0xd3, 0xd3, 0xd3},
	"darkblue":  {0x00, 0x00, 0x8b},
	"darkgreen": {0x00, 0x64, 0x00},
	"darkred":   {0x8b, 0x00, 0x00},
}

var (
	hexPattern = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[0-9.]+\s*)?\)$`)
)

// Parse recognizes named colors, 3/6/8-digit hex, and rgb()/rgba()
// functional notation. Unrecognized or transparent expressions return
// ok=false; callers skip the check rather than guess.
func Parse(expr string) (RGB, bool) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" || s == "transparent" {
		return RGB{}, false
	}

	if c, ok := namedColors[s]; ok {
		return c, true
	}

	if hexPattern.MatchString(s) {
		return parseHex(s)
	}

	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		r, okR := parseChannel(m[1])
		g, okG := parseChannel(m[2])
		b, okB := parseChannel(m[3])
		if okR && okG && okB {
			return RGB{R: r, G: g, B: b}, true
		}
	}

	return RGB{}, false
}

func parseHex(s string) (RGB, bool) {
	digits := s[1:]
	if len(digits) == 3 {
		digits = string([]byte{
			digits[0], digits[0],
			digits[1], digits[1],
			digits[2], digits[2],
		})
	}
	// 8-digit hex carries an alpha suffix.
	if len(digits) == 8 {
		digits = digits[:6]
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, true
}

func parseChannel(s string) (uint8, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return 0, false
	}
	return uint8(v), true
}

// Hex returns the canonical 6-digit hex form of the color.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance computes the WCAG relative luminance of a color: each
// sRGB channel is linearized with the piecewise transform, then
// combined with the 0.2126/0.7152/0.0722 weights.
func Luminance(c RGB) float64 {
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func linearize(channel float64) float64 {
	if channel <= 0.03928 {
		return channel / 12.92
	}
	return math.Pow((channel+0.055)/1.055, 2.4)
}

// Ratio computes the contrast ratio between two colors, in [1, 21].
// The result is symmetric in argument order.
func Ratio(a, b RGB) float64 {
	la := Luminance(a)
	lb := Luminance(b)
	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}
