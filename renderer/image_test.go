package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	xdraw "golang.org/x/image/draw"
)

func opaque(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 200, A: 255}), image.Point{}, draw.Src)
	return img
}

// 100×50 的素材放大 2 倍并旋转 90° 后，外接尺寸约为 100×200。
func TestRenderImageScaleAndRotate(t *testing.T) {
	got := RenderImage(opaque(100, 50), 2.0, 90, xdraw.BiLinear)
	if got == nil {
		t.Fatalf("期望得到图像")
	}
	w, h := got.Bounds().Dx(), got.Bounds().Dy()
	if w < 98 || w > 101 || h < 198 || h > 201 {
		t.Fatalf("旋转后尺寸应约为 100×200，实际 %d×%d", w, h)
	}
}

func TestRenderImageNoRotation(t *testing.T) {
	got := RenderImage(opaque(10, 4), 1.5, 0, nil)
	if got.Bounds().Dx() != 15 || got.Bounds().Dy() != 6 {
		t.Fatalf("缩放尺寸错误: %v", got.Bounds())
	}
}

func TestRenderImageDegenerate(t *testing.T) {
	if RenderImage(opaque(10, 10), 0.05, 0, nil) != nil {
		t.Fatalf("缩放到 0 像素时应返回 nil")
	}
	if RenderImage(nil, 1, 0, nil) != nil {
		t.Fatalf("缺失素材应返回 nil")
	}
}
