// Package export 将合成后的全分辨率图像写为 PNG 或单页 PDF。
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

// ErrUnsupportedFormat 表示无法根据扩展名确定输出格式。
var ErrUnsupportedFormat = errors.New("不支持的输出格式")

// Meta 保存 PDF 元信息。
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// WritePNG 以无损 PNG 写出图像。
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return errors.New("没有可导出的图像")
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return nil
}

// WritePDF 写出单页 PDF，页面尺寸与图像一致，1 像素对应 1 个单位。
func WritePDF(w io.Writer, img image.Image, meta Meta) error {
	if img == nil || img.Bounds().Empty() {
		return errors.New("没有可导出的图像")
	}
	width := float64(img.Bounds().Dx())
	height := float64(img.Bounds().Dy())

	writer := pdf.New(w, width, height, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.DrawImage(0, 0, img, canvas.DPMM(1.0))
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

// Save 按扩展名（.png / .pdf）将图像写入 path。写入失败时不会留下不完整的文件。
func Save(path string, img image.Image, meta Meta) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = WritePNG(&buf, img)
	case ".pdf":
		err = WritePDF(&buf, img, meta)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
