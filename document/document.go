// Package document 持有当前编辑会话的全部状态：背景、笔触、文字对象、放置图片与素材目录，
// 并提供所有变更命令。每个命令在修改前自行记录撤销快照。
//
// Document 不是并发安全的，调用方应保证单写者。
package document

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ByLCY/kakimoji/history"
	"github.com/ByLCY/kakimoji/raster"
)

var (
	// ErrNoBackground 表示尚未加载背景图。
	ErrNoBackground = errors.New("尚未加载背景图")
	// ErrNoSuchItem 表示索引无效或没有选中对象。
	ErrNoSuchItem = errors.New("对象不存在")
	// ErrAssetMissing 表示素材已删除或 ID 无效。
	ErrAssetMissing = errors.New("素材不存在")
)

// Document 是唯一的可变状态源。
type Document struct {
	ID    uuid.UUID
	Tools Tools

	background *image.RGBA
	strokes    []Stroke
	texts      []TextObject
	images     []PlacedImage
	assets     *AssetCatalog
	registered []string

	selection *Selection
	drag      *Selection
	history   *history.Stack[Snapshot]
	epoch     uint64
}

// New 创建一个空文档。
func New() *Document {
	return &Document{
		ID:      uuid.New(),
		Tools:   DefaultTools(),
		assets:  NewAssetCatalog(),
		history: history.New[Snapshot](history.DefaultCapacity),
	}
}

// Background 返回原始背景图；未加载时为 nil。调用方不得修改返回的像素。
func (d *Document) Background() *image.RGBA { return d.background }

func (d *Document) HasBackground() bool { return d.background != nil }

// Size 返回背景图尺寸。
func (d *Document) Size() (int, int) {
	if d.background == nil {
		return 0, 0
	}
	b := d.background.Bounds()
	return b.Dx(), b.Dy()
}

// Epoch 在背景或笔触以非追加方式改变时递增，供背景缓存判断是否失效。
func (d *Document) Epoch() uint64 { return d.epoch }

func (d *Document) Strokes() []Stroke { return d.strokes }
func (d *Document) Texts() []TextObject { return d.texts }
func (d *Document) Images() []PlacedImage { return d.images }
func (d *Document) Assets() *AssetCatalog { return d.assets }
func (d *Document) RegisteredTexts() []string { return d.registered }

// Text 返回第 i 个文字对象。
func (d *Document) Text(i int) (TextObject, bool) {
	if i < 0 || i >= len(d.texts) {
		return TextObject{}, false
	}
	return d.texts[i], true
}

// Image 返回第 i 个放置图片。
func (d *Document) Image(i int) (PlacedImage, bool) {
	if i < 0 || i >= len(d.images) {
		return PlacedImage{}, false
	}
	return d.images[i], true
}

// Anchor 返回所选对象的锚点。
func (d *Document) Anchor(sel Selection) (float64, float64, bool) {
	switch sel.Kind {
	case KindText:
		if t, ok := d.Text(sel.Index); ok {
			return t.X, t.Y, true
		}
	case KindImage:
		if p, ok := d.Image(sel.Index); ok {
			return p.X, p.Y, true
		}
	}
	return 0, 0, false
}

// LoadBackground 替换背景图，并清空笔触、文字、放置图片、选择与历史。
// 素材目录与登记文字保留。
func (d *Document) LoadBackground(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("加载背景失败: %w", ErrNoBackground)
	}
	d.background = raster.ToRGBA(img)
	d.strokes = nil
	d.texts = nil
	d.images = nil
	d.selection = nil
	d.drag = nil
	d.history.Clear()
	d.epoch++
	return nil
}

// Valid 判断 sel 是否指向现有对象。
func (d *Document) Valid(sel Selection) bool {
	switch sel.Kind {
	case KindText:
		return sel.Index >= 0 && sel.Index < len(d.texts)
	case KindImage:
		return sel.Index >= 0 && sel.Index < len(d.images)
	}
	return false
}

// Selection 返回当前选中的对象。
func (d *Document) Selection() (Selection, bool) {
	if d.selection == nil {
		return Selection{}, false
	}
	return *d.selection, true
}

// Select 选中一个对象，不记录历史。
func (d *Document) Select(sel Selection) error {
	if !d.Valid(sel) {
		return fmt.Errorf("选择 %s #%d: %w", sel.Kind, sel.Index, ErrNoSuchItem)
	}
	d.selection = &sel
	return nil
}

// Deselect 清除选择与拖动。
func (d *Document) Deselect() {
	d.selection = nil
	d.drag = nil
}

// Dragging 返回正在拖动的对象。
func (d *Document) Dragging() (Selection, bool) {
	if d.drag == nil {
		return Selection{}, false
	}
	return *d.drag, true
}

// PlaceText 在 (t.X, t.Y) 放置文字对象并选中它，返回新对象的索引。
func (d *Document) PlaceText(t TextObject) (int, error) {
	if d.background == nil {
		return -1, ErrNoBackground
	}
	d.snapshot()
	d.texts = append(d.texts, t)
	idx := len(d.texts) - 1
	d.selection = &Selection{Kind: KindText, Index: idx}
	return idx, nil
}

// NewText 以当前工具状态构造一个位于 (x, y) 的文字对象。
func (d *Document) NewText(text string, x, y float64) TextObject {
	return TextObject{
		Text:         text,
		X:            x,
		Y:            y,
		Color:        d.Tools.TextColor,
		OutlineColor: d.Tools.OutlineColor,
		TextStyle:    d.Tools.Style,
	}
}

// PlaceImage 以原始比例、零旋转放置素材并选中它。
func (d *Document) PlaceImage(assetID int, x, y float64) (int, error) {
	if d.background == nil {
		return -1, ErrNoBackground
	}
	if d.assets.Get(assetID) == nil {
		return -1, fmt.Errorf("放置素材 #%d: %w", assetID, ErrAssetMissing)
	}
	d.snapshot()
	d.images = append(d.images, PlacedImage{AssetID: assetID, X: x, Y: y, Scale: 1})
	idx := len(d.images) - 1
	d.selection = &Selection{Kind: KindImage, Index: idx}
	return idx, nil
}

// BeginStroke 记录历史后在 (x, y) 添加第一笔。
func (d *Document) BeginStroke(x, y float64) error {
	if d.background == nil {
		return ErrNoBackground
	}
	d.snapshot()
	d.AddStroke(x, y)
	return nil
}

// AddStroke 以当前画笔追加一个笔触，不记录历史（拖动中的后续笔触）。
func (d *Document) AddStroke(x, y float64) {
	if d.background == nil {
		return
	}
	d.strokes = append(d.strokes, Stroke{X: x, Y: y, Size: d.Tools.BrushSize, Color: d.Tools.BrushColor})
}

// BeginDrag 记录历史、选中并开始拖动 sel。
func (d *Document) BeginDrag(sel Selection) error {
	if !d.Valid(sel) {
		return fmt.Errorf("拖动 %s #%d: %w", sel.Kind, sel.Index, ErrNoSuchItem)
	}
	d.snapshot()
	d.selection = &sel
	d.drag = &sel
	return nil
}

// DragTo 把拖动中的对象的锚点移到 (x, y)。没有拖动时返回 false。
func (d *Document) DragTo(x, y float64) bool {
	if d.drag == nil || !d.Valid(*d.drag) {
		d.drag = nil
		return false
	}
	d.setAnchor(*d.drag, x, y)
	return true
}

// EndDrag 结束拖动。
func (d *Document) EndDrag() { d.drag = nil }

// MoveText 将文字对象的锚点移动到 (x, y)。
func (d *Document) MoveText(i int, x, y float64) error {
	return d.move(Selection{Kind: KindText, Index: i}, x, y)
}

// MovePlacedImage 将放置图片的锚点移动到 (x, y)。
func (d *Document) MovePlacedImage(i int, x, y float64) error {
	return d.move(Selection{Kind: KindImage, Index: i}, x, y)
}

func (d *Document) move(sel Selection, x, y float64) error {
	if !d.Valid(sel) {
		return fmt.Errorf("移动 %s #%d: %w", sel.Kind, sel.Index, ErrNoSuchItem)
	}
	d.snapshot()
	d.setAnchor(sel, x, y)
	return nil
}

func (d *Document) setAnchor(sel Selection, x, y float64) {
	switch sel.Kind {
	case KindText:
		d.texts[sel.Index].X, d.texts[sel.Index].Y = x, y
	case KindImage:
		d.images[sel.Index].X, d.images[sel.Index].Y = x, y
	}
}

// DeleteSelected 删除选中的对象，并在同一步中清除选择与拖动。
func (d *Document) DeleteSelected() error {
	if d.selection == nil || !d.Valid(*d.selection) {
		d.Deselect()
		return ErrNoSuchItem
	}
	d.snapshot()
	sel := *d.selection
	switch sel.Kind {
	case KindText:
		d.texts = slices.Delete(d.texts, sel.Index, sel.Index+1)
	case KindImage:
		d.images = slices.Delete(d.images, sel.Index, sel.Index+1)
	}
	d.Deselect()
	return nil
}

// ApplyTextStyle 替换文字对象的样式，锚点与内容不变。
func (d *Document) ApplyTextStyle(i int, style TextStyle) error {
	if _, ok := d.Text(i); !ok {
		return fmt.Errorf("修改文字 #%d: %w", i, ErrNoSuchItem)
	}
	d.snapshot()
	d.texts[i].TextStyle = style
	return nil
}

// SetText 更新文字内容。只含空白的内容会被忽略。
func (d *Document) SetText(i int, text string) error {
	if _, ok := d.Text(i); !ok {
		return fmt.Errorf("修改文字 #%d: %w", i, ErrNoSuchItem)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	d.snapshot()
	d.texts[i].Text = text
	return nil
}

// SetTextColor 设置文字颜色工具，并应用到选中的文字对象。
func (d *Document) SetTextColor(c string) {
	d.snapshot()
	d.Tools.TextColor = c
	if t, ok := d.selectedText(); ok {
		d.texts[t].Color = c
	}
}

// SetOutlineColor 设置描边颜色工具，并应用到选中的文字对象。
func (d *Document) SetOutlineColor(c string) {
	d.snapshot()
	d.Tools.OutlineColor = c
	if t, ok := d.selectedText(); ok {
		d.texts[t].OutlineColor = c
	}
}

func (d *Document) selectedText() (int, bool) {
	if d.selection == nil || d.selection.Kind != KindText || !d.Valid(*d.selection) {
		return 0, false
	}
	return d.selection.Index, true
}

// SetImageTransform 设置放置图片的缩放与旋转角度（度，逆时针）。
func (d *Document) SetImageTransform(i int, scale, angle float64) error {
	if _, ok := d.Image(i); !ok {
		return fmt.Errorf("修改图片 #%d: %w", i, ErrNoSuchItem)
	}
	d.snapshot()
	d.images[i].Scale = scale
	d.images[i].Angle = angle
	return nil
}

// PickColor 读取原始背景在 (x, y) 处的颜色作为画笔颜色。
func (d *Document) PickColor(x, y float64) (string, error) {
	if d.background == nil {
		return "", ErrNoBackground
	}
	p := image.Pt(int(x), int(y))
	if !p.In(d.background.Bounds()) {
		return "", fmt.Errorf("取色位置 (%d,%d) 超出背景范围", p.X, p.Y)
	}
	c := raster.Hex(d.background.RGBAAt(p.X, p.Y))
	d.Tools.BrushColor = c
	return c, nil
}

// AddAsset 导入素材并返回其 ID。
func (d *Document) AddAsset(img image.Image) int { return d.assets.Add(img) }

// RemoveAsset 删除素材；引用它的放置图片之后不再绘制。
func (d *Document) RemoveAsset(id int) bool { return d.assets.Remove(id) }

// RegisterText 登记一段可复用的文字，只含空白时忽略。
func (d *Document) RegisterText(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	d.registered = append(d.registered, text)
	return true
}

// UpdateRegisteredText 替换第 i 段登记文字。
func (d *Document) UpdateRegisteredText(i int, text string) error {
	if i < 0 || i >= len(d.registered) {
		return fmt.Errorf("登记文字 #%d: %w", i, ErrNoSuchItem)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	d.registered[i] = text
	return nil
}

// DeleteRegisteredText 删除第 i 段登记文字。
func (d *Document) DeleteRegisteredText(i int) error {
	if i < 0 || i >= len(d.registered) {
		return fmt.Errorf("登记文字 #%d: %w", i, ErrNoSuchItem)
	}
	d.registered = slices.Delete(d.registered, i, i+1)
	return nil
}

// Snapshot 返回当前对象列表的深拷贝。
func (d *Document) Snapshot() Snapshot {
	return Snapshot{Strokes: d.strokes, Texts: d.texts, Images: d.images}.Clone()
}

// Undo 恢复到上一次变更前的状态。没有可撤销的记录时返回 false。
func (d *Document) Undo() bool {
	prev, ok := d.history.Undo(d.Snapshot())
	if !ok {
		return false
	}
	d.restore(prev)
	return true
}

// Redo 重新应用最近一次撤销的变更。
func (d *Document) Redo() bool {
	next, ok := d.history.Redo(d.Snapshot())
	if !ok {
		return false
	}
	d.restore(next)
	return true
}

func (d *Document) CanUndo() bool { return d.history.CanUndo() }
func (d *Document) CanRedo() bool { return d.history.CanRedo() }

// HistoryLen 返回撤销栈深度。
func (d *Document) HistoryLen() int { return d.history.Len() }

// SetState 直接替换对象列表（例如从工程文件载入），清空选择与历史。
func (d *Document) SetState(s Snapshot) {
	d.restore(s.Clone())
	d.history.Clear()
}

// SetRegisteredTexts 替换登记文字列表。
func (d *Document) SetRegisteredTexts(texts []string) {
	d.registered = slices.Clone(texts)
}

func (d *Document) restore(s Snapshot) {
	if !slices.Equal(d.strokes, s.Strokes) {
		d.epoch++
	}
	d.strokes = s.Strokes
	d.texts = s.Texts
	d.images = s.Images
	d.selection = nil
	d.drag = nil
}

func (d *Document) snapshot() {
	if d.background == nil {
		return
	}
	d.history.Push(d.Snapshot())
}
