package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa 是用四段三次贝塞尔曲线逼近圆时的控制点系数。
const kappa = 0.5522847498307936

// FillCircle 以 (cx, cy) 为圆心、r 为半径填充实心圆（抗锯齿）。
func FillCircle(dst draw.Image, cx, cy, r float64, c color.Color) {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return
	}
	rect := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	)
	if rect.Empty() || !rect.Overlaps(dst.Bounds()) {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	z := vector.NewRasterizer(w, h)
	ox := float32(cx - float64(rect.Min.X))
	oy := float32(cy - float64(rect.Min.Y))
	rr := float32(r)
	k := float32(kappa) * rr
	z.MoveTo(ox+rr, oy)
	z.CubeTo(ox+rr, oy+k, ox+k, oy+rr, ox, oy+rr)
	z.CubeTo(ox-k, oy+rr, ox-rr, oy+k, ox-rr, oy)
	z.CubeTo(ox-rr, oy-k, ox-k, oy-rr, ox, oy-rr)
	z.CubeTo(ox+k, oy-rr, ox+rr, oy-k, ox+rr, oy)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, rect, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// FillRect 填充矩形（裁切到 dst 范围内）。
func FillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// DashedRect 沿 r 的边框绘制虚线框，dash 为实段与间隔的长度，width 为线宽（向内）。
func DashedRect(dst draw.Image, r image.Rectangle, c color.Color, dash, width int) {
	if r.Empty() {
		return
	}
	dash = max(dash, 1)
	width = max(width, 1)
	horizontal := func(y int) {
		for x := r.Min.X; x < r.Max.X; x += 2 * dash {
			FillRect(dst, image.Rect(x, y, min(x+dash, r.Max.X), y+width), c)
		}
	}
	vertical := func(x int) {
		for y := r.Min.Y; y < r.Max.Y; y += 2 * dash {
			FillRect(dst, image.Rect(x, y, x+width, min(y+dash, r.Max.Y)), c)
		}
	}
	horizontal(r.Min.Y)
	horizontal(r.Max.Y - width)
	vertical(r.Min.X)
	vertical(r.Max.X - width)
}

// Cross 在 (x, y) 处绘制十字标记，arm 为臂长。
func Cross(dst draw.Image, x, y, arm, width int, c color.Color) {
	half := width / 2
	FillRect(dst, image.Rect(x-arm, y-half, x+arm, y-half+width), c)
	FillRect(dst, image.Rect(x-half, y-arm, x-half+width, y+arm), c)
}
