// Package script 把解析后的描字脚本构建为可编辑的文档。
//
// 构建过程按脚本顺序执行：加载背景，登记字体与素材，展开样式，
// 然后依次执行 scene 中的 text / image / stroke 命令。得到的文档历史为空、无选中对象。
package script

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/kakimoji/binding"
	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/dsl"
	"github.com/ByLCY/kakimoji/export"
	"github.com/ByLCY/kakimoji/fonts"
	"github.com/ByLCY/kakimoji/layout"
	"github.com/ByLCY/kakimoji/logging"
	"github.com/ByLCY/kakimoji/raster"
)

// BuildOptions 控制脚本构建。
type BuildOptions struct {
	// BaseDir 是脚本中相对路径的基准目录。
	BaseDir string
	// Data 是 ${path} 占位符的数据源，通常由 JSON 解码得到。
	Data any
	// Fonts 用于登记脚本中声明的字体；为 nil 时新建一个目录。
	Fonts *fonts.Catalog
}

// Result 是构建结果。
type Result struct {
	Document *document.Document
	Meta     export.Meta
	Fonts    *fonts.Catalog
}

// BuildFile 读取并构建脚本文件。BaseDir 为空时使用脚本所在目录。
func BuildFile(path string, opts BuildOptions) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取脚本失败: %w", err)
	}
	defer file.Close()
	s, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败: %w", err)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return Build(s, opts)
}

// Build 根据脚本 AST 生成文档。
func Build(s *dsl.Script, opts BuildOptions) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("脚本为空")
	}
	res, err := collectResources(s, opts.Data)
	if err != nil {
		return nil, err
	}
	if res.background == "" {
		return nil, fmt.Errorf("脚本中缺少 background")
	}
	catalog := opts.Fonts
	if catalog == nil {
		catalog = fonts.NewCatalog()
	}

	b := &builder{
		doc:     document.New(),
		res:     res,
		data:    opts.Data,
		baseDir: opts.BaseDir,
		fonts:   catalog,
		assets:  map[string]int{},
	}
	if err := b.prepare(); err != nil {
		return nil, err
	}
	for _, section := range s.Sections {
		if section.Scene == nil || section.Scene.Block == nil {
			continue
		}
		if err := b.scene(section.Scene.Block); err != nil {
			return nil, err
		}
	}
	// 构建步骤不进入撤销历史
	b.doc.SetState(b.doc.Snapshot())

	return &Result{
		Document: b.doc,
		Meta:     collectMeta(s, opts.Data),
		Fonts:    catalog,
	}, nil
}

type builder struct {
	doc     *document.Document
	res     resourceSet
	data    any
	baseDir string
	fonts   *fonts.Catalog
	assets  map[string]int
}

func (b *builder) prepare() error {
	bg, err := raster.LoadImage(resolvePath(b.baseDir, b.res.background))
	if err != nil {
		return fmt.Errorf("加载背景失败: %w", err)
	}
	if err := b.doc.LoadBackground(bg); err != nil {
		return err
	}
	for name, src := range b.res.fonts {
		if _, err := b.fonts.Register(name, resolvePath(b.baseDir, src)); err != nil {
			return fmt.Errorf("登记字体 %s 失败: %w", name, err)
		}
	}
	for _, img := range b.res.images {
		if _, dup := b.assets[img.name]; dup {
			return fmt.Errorf("素材 %s 重复声明", img.name)
		}
		data, err := raster.LoadImage(resolvePath(b.baseDir, img.src))
		if err != nil {
			return fmt.Errorf("加载素材 %s 失败: %w", img.name, err)
		}
		b.assets[img.name] = b.doc.AddAsset(data)
	}
	for _, text := range b.res.registered {
		b.doc.RegisterText(text)
	}
	return b.applyTools(b.res.tools)
}

func (b *builder) applyTools(props map[string]string) error {
	tools := &b.doc.Tools
	for key, val := range props {
		var err error
		switch key {
		case "brush-color":
			tools.BrushColor, err = b.color(val)
		case "brush-size":
			tools.BrushSize, err = positive(key, layout.ParseLength(val).ToPX(0))
		case "text-color":
			tools.TextColor, err = b.color(val)
		case "outline-color":
			tools.OutlineColor, err = b.color(val)
		default:
			err = fmt.Errorf("未知的工具属性 %s", key)
		}
		if err != nil {
			return fmt.Errorf("tools: %w", err)
		}
	}
	return nil
}

func (b *builder) scene(block *dsl.Block) error {
	for _, stmt := range block.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		var err error
		switch cmd.Name {
		case "text":
			err = b.handleText(cmd)
		case "image":
			err = b.handleImage(cmd)
		case "stroke":
			err = b.handleStroke(cmd)
		default:
			err = fmt.Errorf("未知命令 %s", cmd.Name)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}
	return nil
}

func (b *builder) handleText(cmd *dsl.Command) error {
	style, attrs, err := parseArgs(cmd.Args, true, b.data)
	if err != nil {
		return err
	}
	content := binding.Interpolate(extractText(cmd.Block), b.data)
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("text 内容为空")
	}
	if style != "" {
		if _, ok := b.res.styles[style]; !ok {
			return fmt.Errorf("style %s 未定义", style)
		}
	}
	x, y, err := b.position(attrs)
	if err != nil {
		return err
	}
	obj := b.doc.NewText(content, x, y)
	if err := b.applyTextAttrs(&obj, mergeStyleAttributes(style, attrs, b.res.styles)); err != nil {
		return err
	}
	_, err = b.doc.PlaceText(obj)
	return err
}

func (b *builder) applyTextAttrs(obj *document.TextObject, attrs map[string]string) error {
	// 字号先行，百分比属性以它为基准
	if v, ok := attrs["size"]; ok {
		size, err := positive("size", layout.ParseLength(v).ToPX(0))
		if err != nil {
			return err
		}
		obj.Size = size
	}
	// 合并写法先于单独的 align-h / align-v
	if v, ok := attrs["align"]; ok {
		obj.AlignH, obj.AlignV = parseAlign(v, obj.AlignH, obj.AlignV)
	}
	for key, val := range attrs {
		var err error
		switch key {
		case "x", "y", "size", "align":
		case "line-spacing":
			obj.LineSpacing = percentOf(val, obj.Size)
		case "char-spacing":
			obj.CharSpacing = percentOf(val, obj.Size)
		case "outline", "outline-width":
			obj.OutlineWidth = math.Max(layout.ParseLength(val).ToPX(obj.Size), 0)
		case "outline-color":
			obj.OutlineColor, err = b.color(val)
		case "color":
			obj.Color, err = b.color(val)
		case "angle":
			obj.Angle, err = parseFloat(key, val)
		case "font":
			obj.FontKey = val
			if _, ferr := b.fonts.Resolve(val); ferr != nil {
				logging.Logger().Warn("字体未登记，渲染时将使用回退字体", "font", val)
			}
		case "vertical":
			obj.Vertical, err = strconv.ParseBool(val)
		case "align-h":
			obj.AlignH, _ = parseAlign(val, obj.AlignH, obj.AlignV)
		case "align-v":
			_, obj.AlignV = parseAlign(val, obj.AlignH, obj.AlignV)
		default:
			err = fmt.Errorf("未知的文字属性 %s", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) handleImage(cmd *dsl.Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("image 缺少素材名")
	}
	name := cmd.Args[0].Value
	id, ok := b.assets[name]
	if !ok {
		return fmt.Errorf("素材 %s 未声明", name)
	}
	_, attrs, err := parseArgs(cmd.Args[1:], false, b.data)
	if err != nil {
		return err
	}
	x, y, err := b.position(attrs)
	if err != nil {
		return err
	}
	scale, angle := 1.0, 0.0
	for key, val := range attrs {
		switch key {
		case "x", "y":
		case "scale":
			l := layout.ParseLength(val)
			scale = l.Value
			if l.Unit == layout.UnitPercent {
				scale = l.Value / 100
			}
			if scale <= 0 {
				return fmt.Errorf("scale 必须为正数: %s", val)
			}
		case "angle":
			if angle, err = parseFloat(key, val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("未知的图片属性 %s", key)
		}
	}
	idx, err := b.doc.PlaceImage(id, x, y)
	if err != nil {
		return err
	}
	return b.doc.SetImageTransform(idx, scale, angle)
}

// handleStroke 在 (x, y) 画一个笔触；带 to 时沿直线按 1/4 直径的间距连续落笔。
func (b *builder) handleStroke(cmd *dsl.Command) error {
	_, attrs, err := parseArgs(cmd.Args, false, b.data)
	if err != nil {
		return err
	}
	x, y, err := b.position(attrs)
	if err != nil {
		return err
	}
	saved := b.doc.Tools
	defer func() {
		b.doc.Tools.BrushColor = saved.BrushColor
		b.doc.Tools.BrushSize = saved.BrushSize
	}()
	for key, val := range attrs {
		switch key {
		case "x", "y", "x2", "y2":
		case "size":
			if b.doc.Tools.BrushSize, err = positive(key, layout.ParseLength(val).ToPX(0)); err != nil {
				return err
			}
		case "color":
			if b.doc.Tools.BrushColor, err = b.color(val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("未知的笔触属性 %s", key)
		}
	}
	if err := b.doc.BeginStroke(x, y); err != nil {
		return err
	}
	if _, ok := attrs["x2"]; !ok {
		return nil
	}
	w, h := b.doc.Size()
	x2, err := coordinate(attrs["x2"], float64(w))
	if err != nil {
		return err
	}
	y2, err := coordinate(attrs["y2"], float64(h))
	if err != nil {
		return err
	}
	step := math.Max(b.doc.Tools.BrushSize/4, 1)
	n := int(math.Ceil(math.Hypot(x2-x, y2-y) / step))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		b.doc.AddStroke(x+(x2-x)*t, y+(y2-y)*t)
	}
	return nil
}

// position 解析 at 坐标；百分比相对背景宽高。
func (b *builder) position(attrs map[string]string) (float64, float64, error) {
	xs, okX := attrs["x"]
	ys, okY := attrs["y"]
	if !okX || !okY {
		return 0, 0, fmt.Errorf("缺少 at 坐标")
	}
	w, h := b.doc.Size()
	x, err := coordinate(xs, float64(w))
	if err != nil {
		return 0, 0, err
	}
	y, err := coordinate(ys, float64(h))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (b *builder) color(value string) (string, error) {
	if c, ok := b.res.colors[value]; ok {
		return c, nil
	}
	c, err := raster.ParseColor(value)
	if err != nil {
		return "", fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	return raster.Hex(c), nil
}
