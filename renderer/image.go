package renderer

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/kakimoji/raster"
)

// RenderImage 按 scale 缩放素材后逆时针旋转 angle 度（画布扩展以容纳旋转结果）。
// 缩放后宽或高向零取整为 0 时返回 nil。旋转后的结果裁切到不透明像素范围。
func RenderImage(src *image.RGBA, scale, angle float64, interp xdraw.Interpolator) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	if w <= 0 || h <= 0 {
		return nil
	}
	scaled := raster.Scale(src, w, h, interp)
	if angle == 0 {
		return scaled
	}
	return raster.Trim(raster.Rotate(scaled, angle, interp))
}
