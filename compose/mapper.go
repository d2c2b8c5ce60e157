package compose

import (
	"image"

	"github.com/ByLCY/kakimoji/document"
)

// Mapper 在文档像素空间与画布（视口）空间之间换算。缩放是统一的，并带居中偏移（letterbox）。
type Mapper struct {
	Scale   float64
	OffsetX int
	OffsetY int
	// 缩放后的文档尺寸
	Width  int
	Height int
}

// Fit 计算把 docW×docH 的文档完整放入 viewW×viewH 视口时的映射。
func Fit(viewW, viewH, docW, docH int) Mapper {
	if docW <= 0 || docH <= 0 {
		return Mapper{Scale: 1}
	}
	scale := min(float64(viewW)/float64(docW), float64(viewH)/float64(docH))
	w, h := int(float64(docW)*scale), int(float64(docH)*scale)
	return Mapper{
		Scale:   scale,
		OffsetX: (viewW - w) / 2,
		OffsetY: (viewH - h) / 2,
		Width:   w,
		Height:  h,
	}
}

// ToDocument 将画布坐标转换为文档坐标。
func (m Mapper) ToDocument(px, py float64) (float64, float64) {
	return (px - float64(m.OffsetX)) / m.Scale, (py - float64(m.OffsetY)) / m.Scale
}

// ToCanvas 将文档坐标转换为画布坐标。
func (m Mapper) ToCanvas(dx, dy float64) (float64, float64) {
	return dx*m.Scale + float64(m.OffsetX), dy*m.Scale + float64(m.OffsetY)
}

// HitTarget 是一帧内某个对象在画布空间中的外接矩形。每次合成都会重新计算。
type HitTarget struct {
	Kind  document.ItemKind
	Index int
	Rect  image.Rectangle
}

// Selection 返回目标对应的文档选择。
func (h HitTarget) Selection() document.Selection {
	return document.Selection{Kind: h.Kind, Index: h.Index}
}

// contains 判断点是否落在矩形内，四条边都算在内。
func (h HitTarget) contains(x, y float64) bool {
	r := h.Rect
	return float64(r.Min.X) <= x && x <= float64(r.Max.X) &&
		float64(r.Min.Y) <= y && y <= float64(r.Max.Y)
}

// HitTest 按合成顺序的逆序查找包含 (x, y) 的第一个目标，即最上层的对象。
func HitTest(targets []HitTarget, x, y float64) (HitTarget, bool) {
	for i := len(targets) - 1; i >= 0; i-- {
		if targets[i].contains(x, y) {
			return targets[i], true
		}
	}
	return HitTarget{}, false
}

// Find 返回 sel 对应的目标。
func Find(targets []HitTarget, sel document.Selection) (HitTarget, bool) {
	for i := len(targets) - 1; i >= 0; i-- {
		if targets[i].Kind == sel.Kind && targets[i].Index == sel.Index {
			return targets[i], true
		}
	}
	return HitTarget{}, false
}
