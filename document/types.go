package document

import (
	"math"

	"github.com/ByLCY/kakimoji/layout"
)

// ItemKind 区分可选中的对象类型。
type ItemKind int

const (
	KindText ItemKind = iota
	KindImage
)

func (k ItemKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Selection 指向文字列表或图片列表中的一个对象。
type Selection struct {
	Kind  ItemKind
	Index int
}

// Stroke 是文档坐标中的一个实心圆笔触，Size 为直径。
type Stroke struct {
	X     float64
	Y     float64
	Size  float64
	Color string
}

// TextStyle 是文字对象中除内容、位置与颜色以外的排版属性。
// LineSpacing 与 CharSpacing 为字号的百分比。
type TextStyle struct {
	Size         float64
	LineSpacing  float64
	CharSpacing  float64
	OutlineWidth float64
	Angle        float64
	Vertical     bool
	FontKey      string
	AlignH       layout.AlignH
	AlignV       layout.AlignV
}

// DefaultTextStyle 返回新文字对象的默认样式：40px 竖排，右上对齐，行距 20%。
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Size:        40,
		LineSpacing: 20,
		Vertical:    true,
		AlignH:      layout.AlignRight,
		AlignV:      layout.AlignTop,
	}
}

// TextObject 是一段放置在文档上的文字。(X, Y) 是渲染块的几何中心（锚点）。
type TextObject struct {
	Text         string
	X            float64
	Y            float64
	Color        string
	OutlineColor string
	TextStyle
}

// LayoutParams 返回排版引擎所需的参数。
func (t TextObject) LayoutParams() layout.Params {
	return layout.Params{
		Text:           t.Text,
		Size:           t.Size,
		LineSpacingPct: t.LineSpacing,
		CharSpacingPct: t.CharSpacing,
		Vertical:       t.Vertical,
		FontKey:        t.FontKey,
		AlignH:         t.AlignH,
		AlignV:         t.AlignV,
	}
}

// Scaled 返回按显示比例缩放后的副本。字号与描边宽度向零取整，锚点不变。
func (t TextObject) Scaled(scale float64) TextObject {
	out := t
	out.Size = math.Trunc(t.Size * scale)
	out.OutlineWidth = math.Trunc(t.OutlineWidth * scale)
	return out
}

// PlacedImage 是放置在文档上的素材实例。(X, Y) 是图块的几何中心。
type PlacedImage struct {
	AssetID int
	X       float64
	Y       float64
	Scale   float64
	Angle   float64
}

// Tools 是当前的工具状态，随工程文件一起保存。
type Tools struct {
	BrushColor   string
	BrushSize    float64
	TextColor    string
	OutlineColor string
	// Style 用于新放置的文字对象。
	Style TextStyle
}

// DefaultTools 返回初始工具状态。
func DefaultTools() Tools {
	return Tools{
		BrushColor:   "#ffffff",
		BrushSize:    20,
		TextColor:    "#000000",
		OutlineColor: "#ffffff",
		Style:        DefaultTextStyle(),
	}
}
