package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ByLCY/kakimoji/layout"
)

// Version 是当前写出的工程格式版本。
const Version = "1.0"

// 缺省字段的默认值。
const (
	defaultLineSpacing  = 20.0
	defaultOutlineColor = "#ffffff"
	defaultBrushColor   = "#ffffff"
	defaultTextColor    = "#000000"
	defaultBrushSize    = 20.0
)

// 对齐方式在文件中以带说明的标签保存。
var (
	alignHLabels = map[layout.AlignH]string{
		layout.AlignRight:  "右寄せ (Right)",
		layout.AlignCenter: "中央 (Center)",
		layout.AlignLeft:   "左寄せ (Left)",
	}
	alignVLabels = map[layout.AlignV]string{
		layout.AlignTop:    "上寄せ (Top)",
		layout.AlignMiddle: "中央 (Middle)",
		layout.AlignBottom: "下寄せ (Bottom)",
	}
)

// File 是 .zmm 工程文件的 JSON 结构。可选字段使用指针以区分缺省与零值。
type File struct {
	Version          string            `json:"version"`
	ID               string            `json:"id,omitempty"`
	BackgroundImage  *string           `json:"background_image"`
	AssetImages      []*string         `json:"asset_images"`
	RegisteredTexts  []string          `json:"registered_texts"`
	TextObjects      []TextRecord      `json:"text_objects"`
	PlacedImages     []ImageRecord     `json:"placed_images"`
	Strokes          []StrokeRecord    `json:"strokes"`
	BrushColor       string            `json:"brush_color,omitempty"`
	BrushSize        *float64          `json:"brush_size,omitempty"`
	TextColor        string            `json:"text_color,omitempty"`
	TextOutlineColor string            `json:"text_outline_color,omitempty"`
	CustomFonts      map[string]string `json:"custom_fonts"`
}

// TextRecord 是文字对象的持久化形式。
type TextRecord struct {
	Text         string   `json:"text"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Size         float64  `json:"size"`
	LineSpacing  *float64 `json:"line_spacing,omitempty"`
	CharSpacing  *float64 `json:"char_spacing,omitempty"`
	OutlineWidth *float64 `json:"outline_width,omitempty"`
	OutlineColor *string  `json:"outline_color,omitempty"`
	Angle        *float64 `json:"angle,omitempty"`
	Color        string   `json:"color"`
	Vertical     bool     `json:"vertical"`
	FontKey      string   `json:"font_key"`
	AlignH       *string  `json:"align_h,omitempty"`
	AlignV       *string  `json:"align_v,omitempty"`
}

// ImageRecord 是放置图片的持久化形式。
type ImageRecord struct {
	SrcID int     `json:"src_id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

// StrokeRecord 在文件中写作 [x, y, size, color]。
type StrokeRecord struct {
	X     float64
	Y     float64
	Size  float64
	Color string
}

func (s StrokeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.X, s.Y, s.Size, s.Color})
}

func (s *StrokeRecord) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("笔触格式错误: %w", err)
	}
	if len(raw) != 4 {
		return fmt.Errorf("笔触需要 4 个元素，实际 %d 个", len(raw))
	}
	for i, dst := range []*float64{&s.X, &s.Y, &s.Size} {
		if err := json.Unmarshal(raw[i], dst); err != nil {
			return fmt.Errorf("笔触第 %d 个元素: %w", i+1, err)
		}
	}
	if err := json.Unmarshal(raw[3], &s.Color); err != nil {
		return fmt.Errorf("笔触颜色: %w", err)
	}
	return nil
}

func alignHLabel(a layout.AlignH) string { return alignHLabels[a.Normalize()] }
func alignVLabel(a layout.AlignV) string { return alignVLabels[a.Normalize()] }

// parseAlignH 按标签中包含的英文关键词识别对齐方式，兼容 "Right" 与 "右寄せ (Right)" 两种写法。
func parseAlignH(label *string) layout.AlignH {
	if label == nil {
		return layout.AlignRight
	}
	for _, a := range []layout.AlignH{layout.AlignCenter, layout.AlignLeft, layout.AlignRight} {
		if strings.Contains(*label, string(a)) {
			return a
		}
	}
	return layout.AlignRight
}

func parseAlignV(label *string) layout.AlignV {
	if label == nil {
		return layout.AlignTop
	}
	for _, a := range []layout.AlignV{layout.AlignMiddle, layout.AlignBottom, layout.AlignTop} {
		if strings.Contains(*label, string(a)) {
			return a
		}
	}
	return layout.AlignTop
}

func ptr[T any](v T) *T { return &v }

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
