package layout

// 该文件定义排版输入参数与排版结果，供排版计算、字形渲染与调试 JSON 共用。

// AlignH 控制横排时每行的起点，或竖排时整块（多列）的起始边。
type AlignH string

const (
	AlignRight  AlignH = "Right"
	AlignCenter AlignH = "Center"
	AlignLeft   AlignH = "Left"
)

// AlignV 控制横排时整块的起始 Y，或竖排时每列内容在列高内的位置。
type AlignV string

const (
	AlignTop    AlignV = "Top"
	AlignMiddle AlignV = "Middle"
	AlignBottom AlignV = "Bottom"
)

// Normalize 返回规范化的对齐值，未知或空值按 Right 处理。
func (a AlignH) Normalize() AlignH {
	switch a {
	case AlignRight, AlignCenter, AlignLeft:
		return a
	default:
		return AlignRight
	}
}

// Normalize 返回规范化的对齐值，未知或空值按 Top 处理。
func (a AlignV) Normalize() AlignV {
	switch a {
	case AlignTop, AlignMiddle, AlignBottom:
		return a
	default:
		return AlignTop
	}
}

// Params 是一次排版所需的全部参数。Size 为像素字号；行距与字距为字号的百分比。
type Params struct {
	Text           string  `json:"text"`
	Size           float64 `json:"size"`
	LineSpacingPct float64 `json:"lineSpacingPct"`
	CharSpacingPct float64 `json:"charSpacingPct"`
	Vertical       bool    `json:"vertical"`
	FontKey        string  `json:"fontKey"`
	AlignH         AlignH  `json:"alignH"`
	AlignV         AlignV  `json:"alignV"`
}

// LineSpacing 将行距百分比换算为像素。
func (p Params) LineSpacing() float64 { return p.Size * p.LineSpacingPct / 100.0 }

// CharSpacing 将字距百分比换算为像素。
func (p Params) CharSpacing() float64 { return p.Size * p.CharSpacingPct / 100.0 }

// Placement 表示一个已定位的字形。坐标均相对于块的隐式原点，Y 轴向下。
//
// Cell 是字形占据的格子；OriginX/BaselineY 是绘制字形轮廓时的笔位置。
// Rotated 为 true 时，渲染器需要以格子中心旋转 90° 绘制。
type Placement struct {
	Char      rune    `json:"char"`
	Glyph     rune    `json:"glyph"`
	Cell      Box     `json:"cell"`
	OriginX   float64 `json:"originX"`
	BaselineY float64 `json:"baselineY"`
	Rotated   bool    `json:"rotated,omitempty"`
	Small     bool    `json:"small,omitempty"`
}

// Center 返回格子中心。
func (p Placement) Center() (float64, float64) {
	return (p.Cell.MinX + p.Cell.MaxX) / 2, (p.Cell.MinY + p.Cell.MaxY) / 2
}

// Box 是轴对齐矩形。
type Box struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Union 返回同时包含 b 与 o 的最小矩形。
func (b Box) Union(o Box) Box {
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Translate 平移矩形。
func (b Box) Translate(dx, dy float64) Box {
	return Box{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Result 保存一次排版的字形序列与紧致包围盒。文本为空时 Placements 为空、Bounds 退化为原点。
type Result struct {
	Placements []Placement `json:"placements"`
	Bounds     Box         `json:"bounds"`
}

// Empty reports whether nothing needs to be drawn.
func (r *Result) Empty() bool { return r == nil || len(r.Placements) == 0 }
