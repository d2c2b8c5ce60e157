package renderer

import (
	"image"

	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/layout"
)

// TextRenderer 将一个文字对象栅格化为独立的 RGBA 字形块。
// 字号、描边宽度等尺寸字段应已按显示比例缩放。文本为空或没有可见像素时返回 (nil, nil)。
type TextRenderer interface {
	RenderText(obj document.TextObject) (*image.RGBA, error)
}

// MetricsTextRenderer 同时为排版引擎提供字形度量。
type MetricsTextRenderer interface {
	TextRenderer
	layout.Metrics
}
