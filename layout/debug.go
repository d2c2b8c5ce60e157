package layout

import (
	"encoding/json"
	"os"
)

// DebugEntry 记录一个文字对象的排版输入与输出。
type DebugEntry struct {
	Index  int     `json:"index"`
	Params Params  `json:"params"`
	Glyphs string  `json:"glyphs"` // 实际绘制的字形（竖排替换后）
	Result *Result `json:"result"`
}

// NewDebugEntry 运行一次排版并记录结果。
func NewDebugEntry(index int, p Params, m Metrics) DebugEntry {
	res := Layout(p, m)
	glyphs := make([]rune, 0, len(res.Placements))
	for _, pl := range res.Placements {
		glyphs = append(glyphs, pl.Glyph)
	}
	return DebugEntry{Index: index, Params: p, Glyphs: string(glyphs), Result: res}
}

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(entries []DebugEntry, path string) error {
	if entries == nil {
		entries = []DebugEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
