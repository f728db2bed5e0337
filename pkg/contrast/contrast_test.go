package contrast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want RGB
		ok   bool
	}{
		{"named white", "white", RGB{0xff, 0xff, 0xff}, true},
		{"named mixed case", "Black", RGB{0, 0, 0}, true},
		{"short hex", "#fff", RGB{0xff, 0xff, 0xff}, true},
		{"long hex", "#1a2b3c", RGB{0x1a, 0x2b, 0x3c}, true},
		{"hex with alpha", "#1a2b3cff", RGB{0x1a, 0x2b, 0x3c}, true},
		{"rgb functional", "rgb(16, 32, 48)", RGB{16, 32, 48}, true},
		{"rgba functional", "rgba(16,32,48,0.5)", RGB{16, 32, 48}, true},
		{"surrounding whitespace", "  #777  ", RGB{0x77, 0x77, 0x77}, true},
		{"transparent", "transparent", RGB{}, false},
		{"empty", "", RGB{}, false},
		{"unknown keyword", "chartreuse-ish", RGB{}, false},
		{"channel out of range", "rgb(300,0,0)", RGB{}, false},
		{"malformed hex", "#12345", RGB{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.expr)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseHexRoundTrip(t *testing.T) {
	for _, expr := range []string{"#abc", "#123456", "rgb(1,2,3)", "white", "navy"} {
		c, ok := Parse(expr)
		require.True(t, ok, expr)

		again, ok := Parse(c.Hex())
		require.True(t, ok, expr)
		assert.Equal(t, c, again, expr)
	}
}

func TestRatio(t *testing.T) {
	white := RGB{0xff, 0xff, 0xff}
	black := RGB{0x00, 0x00, 0x00}
	gray := RGB{0x77, 0x77, 0x77}

	t.Run("white on black is 21", func(t *testing.T) {
		assert.InDelta(t, 21.0, Ratio(white, black), 0.01)
	})

	t.Run("identical colors are 1", func(t *testing.T) {
		for _, c := range []RGB{white, black, gray, {12, 200, 99}} {
			assert.InDelta(t, 1.0, Ratio(c, c), 1e-9)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		colors := []RGB{white, black, gray, {200, 10, 30}, {5, 5, 120}}
		for _, a := range colors {
			for _, b := range colors {
				assert.Equal(t, Ratio(a, b), Ratio(b, a))
			}
		}
	})

	t.Run("gray 777 on white just below AA", func(t *testing.T) {
		ratio := Ratio(gray, white)
		assert.InDelta(t, 4.48, ratio, 0.01)
		assert.Less(t, ratio, RatioAA)
	})

	t.Run("range bounds", func(t *testing.T) {
		r := Ratio(RGB{1, 2, 3}, RGB{250, 251, 252})
		assert.GreaterOrEqual(t, r, 1.0)
		assert.LessOrEqual(t, r, 21.0)
	})
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1.0, Luminance(RGB{0xff, 0xff, 0xff}), 1e-9)
	assert.InDelta(t, 0.0, Luminance(RGB{0, 0, 0}), 1e-9)

	// Green dominates the channel weights.
	lg := Luminance(RGB{0, 0xff, 0})
	lr := Luminance(RGB{0xff, 0, 0})
	lb := Luminance(RGB{0, 0, 0xff})
	assert.True(t, lg > lr && lr > lb)
	assert.False(t, math.IsNaN(lg))
}
