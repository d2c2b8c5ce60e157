package layout

// GlyphMetrics 描述单个字形在给定字号下的度量（像素）。
type GlyphMetrics struct {
	Advance float64 // 水平前进宽度
	Ascent  float64 // 基线以上高度
	Descent float64 // 基线以下深度（正值）
}

// Height 返回字形盒高度 Ascent+Descent。
func (m GlyphMetrics) Height() float64 { return m.Ascent + m.Descent }

// Metrics 为排版提供字形度量，由字体后端实现（例如 renderer/canvas）。
// 实现必须容忍未知的 fontKey，回退到默认字体而不是报错。
type Metrics interface {
	GlyphMetrics(fontKey string, r rune, size float64) GlyphMetrics
}
