package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/fonts"
	"github.com/ByLCY/kakimoji/layout"
	"github.com/ByLCY/kakimoji/logging"
	"github.com/ByLCY/kakimoji/raster"
	"github.com/ByLCY/kakimoji/renderer"
)

// 画布以 1mm 作为 1 个像素，字号在边界处由像素换算为 pt。
const pxToPt = 72.0 / 25.4

// Renderer 借助 github.com/tdewolff/canvas 渲染字形块，同时为排版引擎提供字形度量。
type Renderer struct {
	catalog *fonts.Catalog

	// 注入的字体数据，优先于目录
	fontBlobs map[string][]byte

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	faces          map[faceKey]*canvas.FontFace
	fallbackFamily *canvas.FontFamily
}

var _ renderer.MetricsTextRenderer = (*Renderer)(nil)

type faceKey struct {
	font string
	size float64
}

// Options configures the canvas renderer.
type Options struct {
	Catalog *fonts.Catalog
	Fonts   map[string]Resource // 按字体键注入的字体，优先于 Catalog
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that resolves font keys through catalog.
func NewRenderer(catalog *fonts.Catalog) *Renderer {
	return NewRendererWithOptions(Options{Catalog: catalog})
}

// NewRendererWithOptions creates a renderer with injected fonts and an optional catalog.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		catalog:      opts.Catalog,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
		faces:        map[faceKey]*canvas.FontFace{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				// 使用时回退到默认字体
				logging.Logger().Warn("读取注入字体失败", "font", name, "path", res.Path, "err", err)
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// GlyphMetrics 实现 layout.Metrics：返回字形在 size 像素字号下的前进宽度与上升/下降高度。
func (r *Renderer) GlyphMetrics(fontKey string, ch rune, size float64) layout.GlyphMetrics {
	if size <= 0 {
		return layout.GlyphMetrics{}
	}
	face := r.fontFace(fontKey, size)
	m := face.Metrics()
	return layout.GlyphMetrics{
		Advance: face.TextWidth(string(ch)),
		Ascent:  math.Abs(m.Ascent),
		Descent: math.Abs(m.Descent),
	}
}

// RenderText 排版并绘制文字对象：每个字形先以两倍描边宽度（圆角连接与端点）描边，再填充；
// 随后裁切到不透明像素范围，angle 非零时整体旋转并扩展画布。
func (r *Renderer) RenderText(obj document.TextObject) (*image.RGBA, error) {
	res := layout.Layout(obj.LayoutParams(), r)
	if res.Empty() {
		return nil, nil
	}
	outline := math.Max(obj.OutlineWidth, 0)
	pad := obj.Size + outline
	bounds := res.Bounds
	w := math.Ceil(bounds.Width() + 2*pad)
	h := math.Ceil(bounds.Height() + 2*pad)
	if w <= 0 || h <= 0 || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("字形块尺寸无效: %gx%g", w, h)
	}

	fill := raster.MustColor(obj.Color, color.RGBA{A: 255})
	stroke := raster.MustColor(obj.OutlineColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	face := r.fontFace(obj.FontKey, obj.Size)

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.SetStrokeJoiner(canvas.RoundJoin)

	// 布局坐标 Y 轴向下，画布默认 Y 轴向上
	toCanvas := func(x, y float64) (float64, float64) {
		return pad + x - bounds.MinX, h - (pad + y - bounds.MinY)
	}

	for _, pl := range res.Placements {
		path, _, err := face.ToPath(string(pl.Glyph))
		if err != nil {
			return nil, fmt.Errorf("生成字形 %q 轮廓失败: %w", pl.Glyph, err)
		}
		if path == nil || path.Empty() {
			continue
		}
		ox, oy := toCanvas(pl.OriginX, pl.BaselineY)
		if pl.Rotated {
			cx, cy := pl.Center()
			ccx, ccy := toCanvas(cx, cy)
			ctx.Push()
			ctx.RotateAbout(-90, ccx, ccy)
		}
		if outline > 0 {
			ctx.SetFillColor(stroke)
			ctx.SetStrokeColor(stroke)
			ctx.SetStrokeWidth(outline * 2)
			ctx.DrawPath(ox, oy, path)
		}
		ctx.SetFillColor(fill)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetStrokeWidth(0)
		ctx.DrawPath(ox, oy, path)
		if pl.Rotated {
			ctx.Pop()
		}
	}

	img := raster.Trim(rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace))
	if img == nil {
		return nil, nil
	}
	if obj.Angle != 0 {
		img = raster.Rotate(img, obj.Angle, nil)
	}
	return img, nil
}

func (r *Renderer) fontFace(fontKey string, size float64) *canvas.FontFace {
	key := faceKey{font: fontKey, size: size}
	r.fontMu.Lock()
	if face, ok := r.faces[key]; ok {
		r.fontMu.Unlock()
		return face
	}
	r.fontMu.Unlock()

	family := r.ensureFontFamily(fontKey)
	face := family.Face(size*pxToPt, canvas.Black, canvas.FontRegular, canvas.FontNormal)

	r.fontMu.Lock()
	r.faces[key] = face
	r.fontMu.Unlock()
	return face
}

// ensureFontFamily 返回字体键对应的字体族；解析或加载失败时记录警告并使用回退字体，
// 回退结果同样缓存，避免重复告警。
func (r *Renderer) ensureFontFamily(fontKey string) *canvas.FontFamily {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[fontKey]; ok {
		return family
	}

	family, err := r.loadFamily(fontKey)
	if err != nil {
		logging.Logger().Warn("字体加载失败，使用回退字体", "font", fontKey, "err", err)
		family = r.fallback()
	} else {
		logging.Logger().Debug("字体已加载", "font", fontKey)
	}
	r.fontFamilies[fontKey] = family
	return family
}

func (r *Renderer) loadFamily(fontKey string) (*canvas.FontFamily, error) {
	var face fonts.Face
	if blob, ok := r.fontBlobs[fontKey]; ok {
		face = fonts.Face{Name: fontKey, Data: blob}
	} else {
		var err error
		face, err = r.catalog.Resolve(fontKey)
		if err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily(face.Name)
	if err := family.LoadFont(face.Data, face.Index, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", face.Name, err)
	}
	return family, nil
}

// fallback 必须在持有 fontMu 时调用。
func (r *Renderer) fallback() *canvas.FontFamily {
	if r.fallbackFamily != nil {
		return r.fallbackFamily
	}
	fb := fonts.Fallback()
	family := canvas.NewFontFamily(fb.Name)
	if err := family.LoadFont(fb.Data, 0, canvas.FontRegular); err != nil {
		// 内置字体无法加载属于构建错误
		panic(fmt.Sprintf("加载内置回退字体失败: %v", err))
	}
	r.fallbackFamily = family
	return family
}
