// Package raster 收集合成流水线使用的 RGBA 位图操作：裁切、缩放、扩展旋转、居中粘贴与圆形笔触。
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ToRGBA 将任意图像复制为原点在 (0,0) 的 *image.RGBA。
func ToRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Clone 深拷贝一张 RGBA 图像。
func Clone(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := &image.RGBA{
		Pix:    append([]uint8(nil), src.Pix...),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	return dst
}

// OpaqueBounds 返回 alpha > 0 的像素的包围矩形；全透明时返回空矩形。
func OpaqueBounds(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x+1)
			minY = min(minY, y)
			maxY = max(maxY, y+1)
		}
	}
	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}

// Trim 裁切到不透明像素的包围盒。全透明或空图像返回 nil。
func Trim(img *image.RGBA) *image.RGBA {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	r := OpaqueBounds(img)
	if r.Empty() {
		return nil
	}
	return ToRGBA(img.SubImage(r))
}

// Scale 将 src 缩放为 w×h。尺寸非正时返回 nil。
func Scale(src image.Image, w, h int, interp xdraw.Interpolator) *image.RGBA {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}
	if interp == nil {
		interp = xdraw.BiLinear
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// RotatedSize 返回 w×h 的矩形旋转 deg 度后的外接尺寸。
func RotatedSize(w, h int, deg float64) (int, int) {
	rad := deg * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	fw, fh := float64(w), float64(h)
	return int(math.Ceil(fw*c + fh*s - 1e-6)), int(math.Ceil(fw*s + fh*c - 1e-6))
}

// Rotate 将 src 绕中心逆时针旋转 deg 度，画布扩展到能容纳整个旋转结果，空白处透明。
func Rotate(src *image.RGBA, deg float64, interp xdraw.Interpolator) *image.RGBA {
	if src == nil {
		return nil
	}
	if interp == nil {
		interp = xdraw.BiLinear
	}
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if math.Mod(deg, 360) == 0 {
		return ToRGBA(src)
	}
	nw, nh := RotatedSize(w, h, deg)
	if nw <= 0 || nh <= 0 {
		return nil
	}
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cxs, cys := float64(sb.Min.X)+float64(w)/2, float64(sb.Min.Y)+float64(h)/2
	cxd, cyd := float64(nw)/2, float64(nh)/2
	// Y 轴向下，逆时针旋转的矩阵为 [cos sin; -sin cos]
	m := f64.Aff3{
		cos, sin, cxd - (cos*cxs + sin*cys),
		-sin, cos, cyd - (-sin*cxs + cos*cys),
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	interp.Transform(dst, m, src, sb, xdraw.Over, nil)
	return dst
}

// PasteCentered 以 (cx, cy) 为中心将 src 叠加到 dst 上，返回 src 在 dst 坐标中的矩形。
// 左上角坐标向零取整。
func PasteCentered(dst *image.RGBA, src *image.RGBA, cx, cy float64) image.Rectangle {
	if src == nil {
		return image.Rectangle{}
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	x := int(cx - float64(w)/2)
	y := int(cy - float64(h)/2)
	r := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
	return r
}

// Fill 用纯色填充整个图像。
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
