// Package project 负责 .zmm 工程文件（JSON）的读写。
//
// 图片以 base64 编码的 PNG 嵌入。读取失败时返回错误且不产生文档，
// 调用方持有的当前文档保持不变。
package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/fonts"
	"github.com/ByLCY/kakimoji/logging"
	"github.com/ByLCY/kakimoji/raster"
)

// ErrUnsupportedVersion 表示工程文件的主版本号无法识别。
var ErrUnsupportedVersion = errors.New("不支持的工程版本")

// Serialize 将文档转换为工程记录。catalog 可为 nil，此时不写出自定义字体。
func Serialize(doc *document.Document, catalog *fonts.Catalog) (*File, error) {
	if doc == nil || !doc.HasBackground() {
		return nil, document.ErrNoBackground
	}
	bg, err := encodeImage(doc.Background())
	if err != nil {
		return nil, fmt.Errorf("编码背景图失败: %w", err)
	}
	f := &File{
		Version:          Version,
		ID:               doc.ID.String(),
		BackgroundImage:  &bg,
		AssetImages:      []*string{},
		RegisteredTexts:  append([]string{}, doc.RegisteredTexts()...),
		TextObjects:      []TextRecord{},
		PlacedImages:     []ImageRecord{},
		Strokes:          []StrokeRecord{},
		BrushColor:       doc.Tools.BrushColor,
		BrushSize:        ptr(doc.Tools.BrushSize),
		TextColor:        doc.Tools.TextColor,
		TextOutlineColor: doc.Tools.OutlineColor,
		CustomFonts:      map[string]string{},
	}

	assets := doc.Assets()
	for id := 0; id < assets.Len(); id++ {
		img := assets.Get(id)
		if img == nil {
			f.AssetImages = append(f.AssetImages, nil)
			continue
		}
		s, err := encodeImage(img)
		if err != nil {
			return nil, fmt.Errorf("编码素材 #%d 失败: %w", id, err)
		}
		f.AssetImages = append(f.AssetImages, &s)
	}

	for _, t := range doc.Texts() {
		f.TextObjects = append(f.TextObjects, TextRecord{
			Text:         t.Text,
			X:            t.X,
			Y:            t.Y,
			Size:         t.Size,
			LineSpacing:  ptr(t.LineSpacing),
			CharSpacing:  ptr(t.CharSpacing),
			OutlineWidth: ptr(t.OutlineWidth),
			OutlineColor: ptr(t.OutlineColor),
			Angle:        ptr(t.Angle),
			Color:        t.Color,
			Vertical:     t.Vertical,
			FontKey:      t.FontKey,
			AlignH:       ptr(alignHLabel(t.AlignH)),
			AlignV:       ptr(alignVLabel(t.AlignV)),
		})
	}
	for _, p := range doc.Images() {
		f.PlacedImages = append(f.PlacedImages, ImageRecord{SrcID: p.AssetID, X: p.X, Y: p.Y, Scale: p.Scale, Angle: p.Angle})
	}
	for _, s := range doc.Strokes() {
		f.Strokes = append(f.Strokes, StrokeRecord(s))
	}
	if catalog != nil {
		f.CustomFonts = catalog.Custom()
	}
	return f, nil
}

// Deserialize 从工程记录重建文档。自定义字体文件存在时重新登记到 catalog。
func Deserialize(f *File, catalog *fonts.Catalog) (*document.Document, error) {
	if f == nil {
		return nil, errors.New("工程记录为空")
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	doc := document.New()
	if f.ID != "" {
		if id, err := uuid.Parse(f.ID); err == nil {
			doc.ID = id
		}
	}

	if f.BackgroundImage != nil && *f.BackgroundImage != "" {
		bg, err := decodeImage(*f.BackgroundImage)
		if err != nil {
			return nil, fmt.Errorf("解码背景图失败: %w", err)
		}
		if err := doc.LoadBackground(bg); err != nil {
			return nil, err
		}
	}

	for i, s := range f.AssetImages {
		if s == nil || *s == "" {
			doc.AddAsset(nil)
			continue
		}
		img, err := decodeImage(*s)
		if err != nil {
			logging.Logger().Warn("素材解码失败，按已删除处理", "index", i, "err", err)
			doc.AddAsset(nil)
			continue
		}
		doc.AddAsset(img)
	}

	var state document.Snapshot
	for _, r := range f.TextObjects {
		state.Texts = append(state.Texts, document.TextObject{
			Text:         r.Text,
			X:            r.X,
			Y:            r.Y,
			Color:        r.Color,
			OutlineColor: valueOr(r.OutlineColor, defaultOutlineColor),
			TextStyle: document.TextStyle{
				Size:         r.Size,
				LineSpacing:  valueOr(r.LineSpacing, defaultLineSpacing),
				CharSpacing:  valueOr(r.CharSpacing, 0),
				OutlineWidth: valueOr(r.OutlineWidth, 0),
				Angle:        valueOr(r.Angle, 0),
				Vertical:     r.Vertical,
				FontKey:      r.FontKey,
				AlignH:       parseAlignH(r.AlignH),
				AlignV:       parseAlignV(r.AlignV),
			},
		})
	}
	for _, r := range f.PlacedImages {
		state.Images = append(state.Images, document.PlacedImage{AssetID: r.SrcID, X: r.X, Y: r.Y, Scale: r.Scale, Angle: r.Angle})
	}
	for _, r := range f.Strokes {
		state.Strokes = append(state.Strokes, document.Stroke(r))
	}
	doc.SetState(state)
	doc.SetRegisteredTexts(f.RegisteredTexts)

	doc.Tools.BrushColor = nonEmpty(f.BrushColor, defaultBrushColor)
	doc.Tools.BrushSize = valueOr(f.BrushSize, defaultBrushSize)
	doc.Tools.TextColor = nonEmpty(f.TextColor, defaultTextColor)
	doc.Tools.OutlineColor = nonEmpty(f.TextOutlineColor, defaultOutlineColor)

	if catalog != nil {
		for name, path := range f.CustomFonts {
			if _, err := os.Stat(path); err != nil {
				logging.Logger().Warn("自定义字体文件不存在，跳过", "font", name, "path", path)
				continue
			}
			if _, err := catalog.Register(name, path); err != nil {
				logging.Logger().Warn("自定义字体登记失败", "font", name, "err", err)
			}
		}
	}
	return doc, nil
}

// Encode 以缩进 JSON 写出工程记录。
func Encode(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("写入工程失败: %w", err)
	}
	return nil
}

// Decode 读取工程记录。
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("解析工程失败: %w", err)
	}
	return &f, nil
}

// Save 将文档写入 path。编码失败时不会创建或截断文件。
func Save(path string, doc *document.Document, catalog *fonts.Catalog) error {
	f, err := Serialize(doc, catalog)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("保存工程 %s 失败: %w", path, err)
	}
	return nil
}

// Load 从 path 读取文档。
func Load(path string, catalog *fonts.Catalog) (*document.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取工程 %s 失败: %w", path, err)
	}
	defer file.Close()
	f, err := Decode(file)
	if err != nil {
		return nil, err
	}
	doc, err := Deserialize(f, catalog)
	if err != nil {
		return nil, fmt.Errorf("载入工程 %s 失败: %w", path, err)
	}
	return doc, nil
}

// checkVersion 接受主版本号为 1 的文件；缺省版本视为 1.0。
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	major, _, _ := strings.Cut(v, ".")
	if major != "1" {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	return nil
}

func encodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeImage(s string) (*image.RGBA, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	img, _, err := raster.Decode(bytes.NewReader(data))
	return img, err
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
