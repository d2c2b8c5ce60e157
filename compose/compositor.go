// Package compose 把背景、笔触、放置图片与文字块合成为显示帧或全分辨率导出图像。
//
// 合成顺序即 z 序：背景与笔触、按列表顺序的放置图片、按列表顺序的文字块（文字始终在最上层）。
// 单个对象渲染失败（包括 panic）只会记录日志并跳过该对象。
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/logging"
	"github.com/ByLCY/kakimoji/raster"
	"github.com/ByLCY/kakimoji/renderer"
)

// MinViewport 是可合成的最小视口边长。
const MinViewport = 10

// ErrViewportTooSmall 表示视口过小，不做合成。
var ErrViewportTooSmall = errors.New("视口尺寸过小")

var (
	selectionColor = color.RGBA{B: 255, A: 255}
	anchorColor    = color.RGBA{R: 255, A: 255}
)

// Options configures a Compositor.
type Options struct {
	// Text 渲染文字块，必填。
	Text renderer.TextRenderer
	// Interactive 用于显示帧中背景与图片的缩放，默认 BiLinear。
	Interactive xdraw.Interpolator
	// Export 用于全分辨率导出，默认 CatmullRom。
	Export xdraw.Interpolator
	// Letterbox 是视口中文档以外区域的颜色，默认 #333333。
	Letterbox color.Color
}

// Frame 是一次合成的结果。Image 与视口同尺寸，Targets 位于画布空间。
type Frame struct {
	Image   *image.RGBA
	Mapper  Mapper
	Targets []HitTarget
}

// Compositor 持有缩放背景缓存。它不是并发安全的。
type Compositor struct {
	opts  Options
	cache bgCache
}

// bgCache 是缩放后并烘焙了笔触的背景。strokes 记录已烘焙的笔触数，
// 同一 epoch 内新追加的笔触会增量烘焙。
type bgCache struct {
	img     *image.RGBA
	w, h    int
	epoch   uint64
	doc     *document.Document
	strokes int
}

// New 创建合成器。
func New(opts Options) *Compositor {
	if opts.Interactive == nil {
		opts.Interactive = xdraw.BiLinear
	}
	if opts.Export == nil {
		opts.Export = xdraw.CatmullRom
	}
	if opts.Letterbox == nil {
		opts.Letterbox = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	}
	return &Compositor{opts: opts}
}

// Invalidate 丢弃背景缓存。
func (c *Compositor) Invalidate() { c.cache = bgCache{} }

// Render 为 viewW×viewH 的视口合成显示帧，并在选中对象周围绘制虚线框与锚点标记。
func (c *Compositor) Render(doc *document.Document, viewW, viewH int) (*Frame, error) {
	if doc == nil || !doc.HasBackground() {
		return nil, document.ErrNoBackground
	}
	if viewW < MinViewport || viewH < MinViewport {
		return nil, fmt.Errorf("%w: %dx%d", ErrViewportTooSmall, viewW, viewH)
	}
	docW, docH := doc.Size()
	m := Fit(viewW, viewH, docW, docH)
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrViewportTooSmall, viewW, viewH)
	}

	base := raster.Clone(c.background(doc, m))
	targets := c.composeObjects(base, doc, m.Scale, c.opts.Interactive)

	frame := image.NewRGBA(image.Rect(0, 0, viewW, viewH))
	raster.Fill(frame, c.opts.Letterbox)
	offset := image.Pt(m.OffsetX, m.OffsetY)
	xdraw.Draw(frame, base.Bounds().Add(offset), base, image.Point{}, xdraw.Src)
	for i := range targets {
		targets[i].Rect = targets[i].Rect.Add(offset)
	}

	if sel, ok := doc.Selection(); ok {
		drawSelection(frame, doc, m, targets, sel)
	}
	return &Frame{Image: frame, Mapper: m, Targets: targets}, nil
}

// RenderFullResolution 以 scale=1 在原始背景的副本上合成，笔触按原尺寸绘制，
// 输出分辨率与当前视口无关。
func (c *Compositor) RenderFullResolution(doc *document.Document) (*image.RGBA, error) {
	if doc == nil || !doc.HasBackground() {
		return nil, document.ErrNoBackground
	}
	out := raster.Clone(doc.Background())
	bakeStrokes(out, doc.Strokes(), 1)
	c.composeObjects(out, doc, 1, c.opts.Export)
	return out, nil
}

func (c *Compositor) background(doc *document.Document, m Mapper) *image.RGBA {
	cc := &c.cache
	strokes := doc.Strokes()
	if cc.img == nil || cc.doc != doc || cc.w != m.Width || cc.h != m.Height ||
		cc.epoch != doc.Epoch() || cc.strokes > len(strokes) {
		logging.Logger().Debug("重建背景缓存", "width", m.Width, "height", m.Height, "strokes", len(strokes))
		*cc = bgCache{
			img:   raster.Scale(doc.Background(), m.Width, m.Height, c.opts.Interactive),
			w:     m.Width,
			h:     m.Height,
			epoch: doc.Epoch(),
			doc:   doc,
		}
	}
	if cc.strokes < len(strokes) {
		bakeStrokes(cc.img, strokes[cc.strokes:], m.Scale)
		cc.strokes = len(strokes)
	}
	return cc.img
}

func bakeStrokes(dst *image.RGBA, strokes []document.Stroke, scale float64) {
	for _, s := range strokes {
		col := raster.MustColor(s.Color, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		raster.FillCircle(dst, s.X*scale, s.Y*scale, s.Size*scale/2, col)
	}
}

// composeObjects 把放置图片与文字块粘贴到 base 上，返回 base 坐标中的命中矩形。
func (c *Compositor) composeObjects(base *image.RGBA, doc *document.Document, scale float64, interp xdraw.Interpolator) []HitTarget {
	var targets []HitTarget
	for i, obj := range doc.Images() {
		img, err := renderImageSafe(doc, obj, scale, interp)
		if err != nil {
			logging.Logger().Warn("图片渲染失败", "kind", "image", "index", i, "err", err)
			continue
		}
		if img == nil {
			continue
		}
		r := raster.PasteCentered(base, img, obj.X*scale, obj.Y*scale)
		targets = append(targets, HitTarget{Kind: document.KindImage, Index: i, Rect: r})
	}
	for i, obj := range doc.Texts() {
		img, err := c.renderTextSafe(obj.Scaled(scale))
		if err != nil {
			logging.Logger().Warn("文字渲染失败", "kind", "text", "index", i, "font", obj.FontKey, "err", err)
			continue
		}
		if img == nil {
			continue
		}
		r := raster.PasteCentered(base, img, obj.X*scale, obj.Y*scale)
		targets = append(targets, HitTarget{Kind: document.KindText, Index: i, Rect: r})
	}
	return targets
}

func renderImageSafe(doc *document.Document, obj document.PlacedImage, scale float64, interp xdraw.Interpolator) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("渲染图片时发生 panic: %v", r)
		}
	}()
	src := doc.Assets().Get(obj.AssetID)
	if src == nil {
		logging.Logger().Debug("素材不存在，跳过", "asset", obj.AssetID)
		return nil, nil
	}
	return renderer.RenderImage(src, obj.Scale*scale, obj.Angle, interp), nil
}

func (c *Compositor) renderTextSafe(obj document.TextObject) (img *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("渲染文字时发生 panic: %v", r)
		}
	}()
	if c.opts.Text == nil {
		return nil, errors.New("未配置文字渲染器")
	}
	return c.opts.Text.RenderText(obj)
}

func drawSelection(frame *image.RGBA, doc *document.Document, m Mapper, targets []HitTarget, sel document.Selection) {
	t, ok := Find(targets, sel)
	if !ok {
		return
	}
	raster.DashedRect(frame, t.Rect, selectionColor, 4, 2)
	x, y, ok := doc.Anchor(sel)
	if !ok {
		return
	}
	ax, ay := m.ToCanvas(x, y)
	if sel.Kind == document.KindText {
		raster.Cross(frame, int(ax), int(ay), 10, 2, anchorColor)
	} else {
		raster.FillCircle(frame, ax, ay, 5, anchorColor)
	}
}
