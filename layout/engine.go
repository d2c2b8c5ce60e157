package layout

import (
	"math"
	"strings"
)

// Layout 将文本与排版参数转换为有序的字形放置序列，以及这些字形格子的紧致包围盒。
//
// 坐标系以块的隐式原点为准，Y 轴向下。对齐方式决定块相对原点的位置：
// 横排 Center/Middle 时包围盒以原点为中心。文本为空时返回空序列与退化包围盒。
// 描边宽度的外扩由调用方（渲染器）负责。
func Layout(p Params, m Metrics) *Result {
	res := &Result{}
	if p.Text == "" || p.Size <= 0 || m == nil {
		return res
	}
	lines := splitLines(p.Text)
	if p.Vertical {
		layoutVertical(p, lines, m, res)
	} else {
		layoutHorizontal(p, lines, m, res)
	}
	if len(res.Placements) == 0 {
		res.Bounds = Box{}
	}
	return res
}

type hGlyph struct {
	r       rune
	metrics GlyphMetrics
	advance float64
}

type hLine struct {
	width  float64
	height float64
	glyphs []hGlyph
}

func layoutHorizontal(p Params, lines []string, m Metrics, res *Result) {
	cs := p.CharSpacing()
	ls := p.LineSpacing()

	data := make([]hLine, 0, len(lines))
	total := 0.0
	for _, l := range lines {
		if l == "" {
			// 空行仍占一行高度，保持行间节奏
			data = append(data, hLine{height: p.Size})
			total += p.Size + ls
			continue
		}
		var line hLine
		for _, r := range l {
			gm := m.GlyphMetrics(p.FontKey, r, p.Size)
			adv := nonNegative(gm.Advance)
			line.glyphs = append(line.glyphs, hGlyph{r: r, metrics: gm, advance: adv})
			line.width += adv + cs
			line.height = math.Max(line.height, nonNegative(gm.Height()))
		}
		line.width -= cs
		if line.height <= 0 {
			line.height = p.Size
		}
		data = append(data, line)
		total += line.height + ls
	}
	total -= ls

	var sy float64
	switch p.AlignV.Normalize() {
	case AlignTop:
		sy = 0
	case AlignBottom:
		sy = -total
	default:
		sy = -total / 2
	}

	first := true
	extend := func(b Box) {
		if first {
			res.Bounds = b
			first = false
			return
		}
		res.Bounds = res.Bounds.Union(b)
	}

	cy := sy
	for _, line := range data {
		sx := lineStart(p.AlignH.Normalize(), line.width)
		extend(Box{MinX: sx, MinY: cy, MaxX: sx + math.Max(line.width, 0), MaxY: cy + line.height})

		cx := sx
		for _, g := range line.glyphs {
			cellH := nonNegative(g.metrics.Height())
			if cellH <= 0 {
				cellH = line.height
			}
			// 每个字形在行内垂直居中
			top := cy + (line.height-cellH)/2
			cell := Box{MinX: cx, MinY: top, MaxX: cx + g.advance, MaxY: top + cellH}
			res.Placements = append(res.Placements, Placement{
				Char:      g.r,
				Glyph:     g.r,
				Cell:      cell,
				OriginX:   cx,
				BaselineY: top + nonNegative(g.metrics.Ascent),
			})
			extend(cell)
			cx += g.advance + cs
		}
		cy += line.height + ls
	}
}

// lineStart 返回单行的起点 X：Left 左齐于原点，Right 右齐于原点，Center 居中于原点。
func lineStart(align AlignH, width float64) float64 {
	switch align {
	case AlignLeft:
		return 0
	case AlignCenter:
		return -width / 2
	default:
		return -width
	}
}

type vGlyph struct {
	char    rune
	glyph   rune
	metrics GlyphMetrics
	width   float64
	rotated bool
	small   bool
}

type vColumn struct {
	width  float64
	height float64
	glyphs []vGlyph
}

func layoutVertical(p Params, lines []string, m Metrics, res *Result) {
	cs := p.CharSpacing()
	ls := p.LineSpacing()
	gap := p.Size * verticalGapRatio
	cellH := p.Size

	cols := make([]vColumn, 0, len(lines))
	totalW := 0.0
	for _, l := range lines {
		if l == "" {
			cols = append(cols, vColumn{width: p.Size})
			totalW += p.Size + ls
			continue
		}
		var col vColumn
		for _, r := range l {
			g := VerticalForm(r)
			gm := m.GlyphMetrics(p.FontKey, g, p.Size)
			vg := vGlyph{
				char:    r,
				glyph:   g,
				metrics: gm,
				width:   nonNegative(gm.Advance),
				rotated: IsRotatedInVertical(r),
				small:   IsSmallKana(r),
			}
			if vg.rotated {
				// 旋转后字形的水平占位是其高度
				vg.width = nonNegative(gm.Height())
			}
			col.glyphs = append(col.glyphs, vg)
			col.height += cellH + gap + cs
			col.width = math.Max(col.width, vg.width)
		}
		col.height -= gap + cs
		if col.width <= 0 {
			col.width = p.Size
		}
		cols = append(cols, col)
		totalW += col.width + ls
	}
	totalW -= ls

	// 列从右向左排列；Right 表示首列右缘位于原点
	var right float64
	switch p.AlignH.Normalize() {
	case AlignRight:
		right = 0
	case AlignCenter:
		right = totalW / 2
	default:
		right = totalW
	}

	first := true
	extend := func(b Box) {
		if first {
			res.Bounds = b
			first = false
			return
		}
		res.Bounds = res.Bounds.Union(b)
	}

	shift := p.Size * smallKanaShiftRatio
	for _, col := range cols {
		center := right - col.width/2
		var top float64
		switch p.AlignV.Normalize() {
		case AlignTop:
			top = 0
		case AlignBottom:
			top = -col.height
		default:
			top = -col.height / 2
		}
		extend(Box{MinX: right - col.width, MinY: top, MaxX: right, MaxY: top + math.Max(col.height, 0)})

		cy := top
		for _, g := range col.glyphs {
			asc := nonNegative(g.metrics.Ascent)
			desc := nonNegative(g.metrics.Descent)
			pl := Placement{
				Char:      g.char,
				Glyph:     g.glyph,
				Cell:      Box{MinX: center - g.width/2, MinY: cy, MaxX: center + g.width/2, MaxY: cy + cellH},
				OriginX:   center - nonNegative(g.metrics.Advance)/2,
				BaselineY: cy + (cellH+asc-desc)/2,
				Rotated:   g.rotated,
				Small:     g.small,
			}
			if g.small {
				pl.Cell = pl.Cell.Translate(shift, -shift)
				pl.OriginX += shift
				pl.BaselineY -= shift
			}
			res.Placements = append(res.Placements, pl)
			extend(pl.Cell)
			cy += cellH + gap + cs
		}
		right -= col.width + ls
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// nonNegative 将 NaN、Inf 与负值归零，避免零宽字形造成无穷累加。
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
