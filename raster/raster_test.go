package raster

import (
	"image"
	"image/color"
	"testing"

	xdraw "golang.org/x/image/draw"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Fill(img, c)
	return img
}

func TestTrim(t *testing.T) {
	if Trim(image.NewRGBA(image.Rect(0, 0, 10, 10))) != nil {
		t.Fatalf("全透明图像应返回 nil")
	}
	if Trim(nil) != nil {
		t.Fatalf("nil 应返回 nil")
	}
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	FillRect(img, image.Rect(5, 2, 9, 7), red)
	got := Trim(img)
	if got.Bounds() != image.Rect(0, 0, 4, 5) {
		t.Fatalf("裁切结果尺寸错误: %v", got.Bounds())
	}
	if got.RGBAAt(0, 0) != red {
		t.Fatalf("裁切后左上像素应为不透明")
	}
}

func TestRotatedSize(t *testing.T) {
	cases := []struct {
		w, h   int
		deg    float64
		ww, wh int
	}{
		{200, 100, 90, 100, 200},
		{200, 100, -90, 100, 200},
		{200, 100, 180, 200, 100},
		{10, 10, 45, 15, 15},
	}
	for _, c := range cases {
		if gw, gh := RotatedSize(c.w, c.h, c.deg); gw != c.ww || gh != c.wh {
			t.Fatalf("RotatedSize(%d,%d,%g) = %d×%d, want %d×%d", c.w, c.h, c.deg, gw, gh, c.ww, c.wh)
		}
	}
}

func TestRotateCounterClockwise(t *testing.T) {
	src := solid(4, 2, green)
	src.SetRGBA(0, 0, red)
	src.SetRGBA(0, 1, red)
	dst := Rotate(src, 90, xdraw.NearestNeighbor)
	if dst.Bounds() != image.Rect(0, 0, 2, 4) {
		t.Fatalf("旋转后尺寸错误: %v", dst.Bounds())
	}
	// 逆时针 90°：原左列转到底行
	if dst.RGBAAt(0, 3) != red || dst.RGBAAt(1, 3) != red {
		t.Fatalf("左列应旋转到底部: %v %v", dst.RGBAAt(0, 3), dst.RGBAAt(1, 3))
	}
	if dst.RGBAAt(0, 0) != green {
		t.Fatalf("顶行应为原右列: %v", dst.RGBAAt(0, 0))
	}
	if same := Rotate(src, 360, nil); same.Bounds() != src.Bounds() {
		t.Fatalf("整圈旋转应保持尺寸")
	}
}

func TestScale(t *testing.T) {
	if Scale(solid(3, 3, red), 0, 5, nil) != nil {
		t.Fatalf("零尺寸应返回 nil")
	}
	got := Scale(solid(3, 3, red), 6, 9, nil)
	if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 9 {
		t.Fatalf("缩放尺寸错误: %v", got.Bounds())
	}
}

func TestPasteCentered(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	r := PasteCentered(dst, solid(3, 3, red), 5, 5)
	if r != image.Rect(3, 3, 6, 6) {
		t.Fatalf("粘贴矩形错误: %v", r)
	}
	if dst.RGBAAt(3, 3) != red || dst.RGBAAt(6, 6) == red {
		t.Fatalf("粘贴像素错误")
	}
	// 超出边界时裁切而不是 panic
	PasteCentered(dst, solid(10, 10, red), 19, 19)
}

func TestFillCircle(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	FillCircle(dst, 20, 20, 8, red)
	if dst.RGBAAt(20, 20) != red {
		t.Fatalf("圆心应被填充: %v", dst.RGBAAt(20, 20))
	}
	if dst.RGBAAt(20, 30).A != 0 || dst.RGBAAt(13, 13).A != 0 {
		t.Fatalf("圆外像素不应被填充")
	}
	FillCircle(dst, 0, 0, 10, green)
	if dst.RGBAAt(1, 1) != green {
		t.Fatalf("部分越界的圆仍应绘制可见部分")
	}
	FillCircle(dst, -100, -100, 5, green)
	FillCircle(dst, 10, 10, 0, green)
}

func TestDashedRectAndCross(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	DashedRect(dst, image.Rect(0, 0, 40, 40), red, 4, 2)
	if dst.RGBAAt(0, 0) != red || dst.RGBAAt(5, 0).A != 0 || dst.RGBAAt(8, 1) != red {
		t.Fatalf("虚线图案错误")
	}
	if dst.RGBAAt(39, 32) != red {
		t.Fatalf("右边框应被绘制")
	}
	Cross(dst, 20, 20, 10, 2, green)
	if dst.RGBAAt(12, 20) != green || dst.RGBAAt(20, 12) != green {
		t.Fatalf("十字标记缺失")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#fff":      {255, 255, 255, 255},
		"#000000":   {0, 0, 0, 255},
		"#ff000080": {255, 0, 0, 128},
		"12ab34":    {0x12, 0xab, 0x34, 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseColor("#zz"); err == nil {
		t.Fatalf("期望解析错误")
	}
	if MustColor("bad", red) != red {
		t.Fatalf("MustColor 应返回回退颜色")
	}
	if Hex(color.RGBA{R: 0x12, G: 0xab, B: 0x34, A: 255}) != "#12ab34" {
		t.Fatalf("Hex 格式错误")
	}
}
