package accessibility

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MinContrastRatio is the WCAG AA threshold for normal-size text.
const MinContrastRatio = 4.5

var (
	hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColorPattern = regexp.MustCompile(`(?i)^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*(?:\d*\.?\d+%?)\s*)?\)$`)
)

// RGB is a color with 8-bit channels.
type RGB struct {
	R, G, B int
}

// ParseColor parses #rgb, #rrggbb, rgb(r,g,b) and rgba(r,g,b,a) literals.
// The alpha channel is ignored. Anything else is reported as unparsable.
func ParseColor(value string) (RGB, bool) {
	value = strings.TrimSpace(value)

	if m := hexColorPattern.FindStringSubmatch(value); m != nil {
		hex := m[1]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return RGB{}, false
		}
		return RGB{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, true
	}

	if m := rgbColorPattern.FindStringSubmatch(value); m != nil {
		var channels [3]int
		for i := 0; i < 3; i++ {
			c, err := strconv.Atoi(m[i+1])
			if err != nil || c > 255 {
				return RGB{}, false
			}
			channels[i] = c
		}
		return RGB{R: channels[0], G: channels[1], B: channels[2]}, true
	}

	return RGB{}, false
}

// RelativeLuminance returns the WCAG relative luminance of c in [0,1].
func RelativeLuminance(c RGB) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(channel int) float64 {
	v := float64(channel) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colors, always >= 1.
func ContrastRatio(a, b RGB) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	lighter, darker := math.Max(la, lb), math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}
