package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa 形式的颜色。
func ParseColor(value string) (color.RGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]}) + "ff"
	case 6:
		v += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// MustColor 与 ParseColor 相同，但解析失败时返回 fallback。
func MustColor(value string, fallback color.RGBA) color.RGBA {
	c, err := ParseColor(value)
	if err != nil {
		return fallback
	}
	return c
}

// Hex 将颜色格式化为 #rrggbb（忽略 alpha）。
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
