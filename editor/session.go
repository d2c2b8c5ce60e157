// Package editor 把指针事件与工具模式翻译为文档命令，是界面层与文档之间的薄适配层。
//
// 每个事件同步执行完毕；调用方在事件之后调用 Render 取得新帧。
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/kakimoji/compose"
	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/logging"
)

// Mode 是当前的指针工具。
type Mode int

const (
	ModeSelect Mode = iota
	ModePlaceText
	ModePlaceImage
	ModeEraser
	ModeDropper
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModePlaceText:
		return "place-text"
	case ModePlaceImage:
		return "place-image"
	case ModeEraser:
		return "eraser"
	case ModeDropper:
		return "dropper"
	default:
		return "unknown"
	}
}

// ErrNoFrame 表示还没有可用于坐标换算的帧。
var ErrNoFrame = errors.New("尚未渲染画面")

// Session 是一个编辑会话。
type Session struct {
	doc  *document.Document
	comp *compose.Compositor

	mode        Mode
	pendingText string
	pendingID   int

	viewW, viewH int
	frame        *compose.Frame
}

// NewSession 创建会话，初始为选择模式。
func NewSession(doc *document.Document, comp *compose.Compositor) *Session {
	return &Session{doc: doc, comp: comp}
}

func (s *Session) Document() *document.Document { return s.doc }
func (s *Session) Mode() Mode                    { return s.mode }

// Frame 返回最近一次渲染的帧。
func (s *Session) Frame() *compose.Frame { return s.frame }

// SetDocument 切换到另一个文档（例如载入工程之后），并重置工具模式与缓存。
func (s *Session) SetDocument(doc *document.Document) {
	s.doc = doc
	s.resetModes()
	s.frame = nil
	s.comp.Invalidate()
}

// Resize 记录新的视口尺寸。
func (s *Session) Resize(w, h int) {
	s.viewW, s.viewH = w, h
}

// Render 合成当前视口的帧，并保留其映射与命中矩形供后续指针事件使用。
func (s *Session) Render() (*compose.Frame, error) {
	f, err := s.comp.Render(s.doc, s.viewW, s.viewH)
	if err != nil {
		return nil, err
	}
	s.frame = f
	return f, nil
}

// PlaceText 进入文字放置模式，下一次点击在该处放置 text。
func (s *Session) PlaceText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("文字内容为空")
	}
	s.resetModes()
	s.doc.Deselect()
	s.mode = ModePlaceText
	s.pendingText = text
	return nil
}

// PlaceImage 进入素材放置模式。
func (s *Session) PlaceImage(assetID int) error {
	if s.doc.Assets().Get(assetID) == nil {
		return fmt.Errorf("放置素材 #%d: %w", assetID, document.ErrAssetMissing)
	}
	s.resetModes()
	s.doc.Deselect()
	s.mode = ModePlaceImage
	s.pendingID = assetID
	return nil
}

// ToggleEraser 切换橡皮擦模式。开启时取消选择。
func (s *Session) ToggleEraser() {
	if s.mode == ModeEraser {
		s.resetModes()
		return
	}
	s.resetModes()
	s.doc.Deselect()
	s.mode = ModeEraser
}

// ToggleDropper 切换取色模式。
func (s *Session) ToggleDropper() {
	if s.mode == ModeDropper {
		s.resetModes()
		return
	}
	s.resetModes()
	s.mode = ModeDropper
}

// Cancel 回到选择模式。
func (s *Session) Cancel() { s.resetModes() }

func (s *Session) resetModes() {
	s.mode = ModeSelect
	s.pendingText = ""
	s.pendingID = 0
}

// PointerDown 处理画布坐标 (px, py) 上的按下事件。
func (s *Session) PointerDown(px, py float64) error {
	if !s.doc.HasBackground() {
		return document.ErrNoBackground
	}
	if s.frame == nil {
		return ErrNoFrame
	}
	x, y := s.frame.Mapper.ToDocument(px, py)

	switch s.mode {
	case ModeDropper:
		c, err := s.doc.PickColor(x, y)
		if err != nil {
			logging.Logger().Debug("取色失败", "x", x, "y", y, "err", err)
			return nil
		}
		logging.Logger().Debug("取色", "color", c)
		s.ToggleEraser()
		return nil
	case ModePlaceText:
		t := s.doc.NewText(s.pendingText, x, y)
		s.resetModes()
		_, err := s.doc.PlaceText(t)
		return err
	case ModePlaceImage:
		id := s.pendingID
		s.resetModes()
		_, err := s.doc.PlaceImage(id, x, y)
		return err
	case ModeEraser:
		return s.doc.BeginStroke(x, y)
	}

	hit, ok := compose.HitTest(s.frame.Targets, px, py)
	if !ok {
		s.doc.Deselect()
		return nil
	}
	return s.doc.BeginDrag(hit.Selection())
}

// PointerDrag 处理拖动：橡皮擦模式追加笔触，否则移动正在拖动的对象。
func (s *Session) PointerDrag(px, py float64) {
	if s.frame == nil || !s.doc.HasBackground() {
		return
	}
	x, y := s.frame.Mapper.ToDocument(px, py)
	if s.mode == ModeEraser {
		s.doc.AddStroke(x, y)
		return
	}
	s.doc.DragTo(x, y)
}

// PointerUp 结束拖动。
func (s *Session) PointerUp() {
	s.doc.EndDrag()
}

// Delete 删除选中的对象。
func (s *Session) Delete() error {
	return s.doc.DeleteSelected()
}

func (s *Session) Undo() bool { return s.doc.Undo() }
func (s *Session) Redo() bool { return s.doc.Redo() }
