package watermark

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB 8 位 RGB 颜色
type RGB struct {
	R, G, B uint8
}

// White 默认水印颜色
var White = RGB{255, 255, 255}

// Hex 返回 #rrggbb 形式
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// Blend 以白色为背景按 alpha 混合：out = c*alpha + 255*(1-alpha)
func (c RGB) Blend(alpha float64) RGB {
	if alpha >= 1 {
		return c
	}
	if alpha <= 0 {
		return White
	}
	mix := func(v uint8) uint8 {
		return uint8(math.Round(float64(v)*alpha + 255*(1-alpha)))
	}
	return RGB{mix(c.R), mix(c.G), mix(c.B)}
}

// ParseColor 解析颜色字符串，支持 "#rrggbb"、"rrggbb"、"#rgb" 和 SVG 颜色名（如 "red"）
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if len(s) == 6 && isHex(s) {
		return parseHex(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB{c.R, c.G, c.B}, nil
	}
	if len(s) == 3 && isHex(s) {
		return parseHex(s)
	}
	return RGB{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(h string) (RGB, error) {
	switch len(h) {
	case 3:
		// #rgb -> #rrggbb
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("invalid hex color length %d", len(h))
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", h, err)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
