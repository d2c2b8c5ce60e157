package editor

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ByLCY/kakimoji/compose"
	"github.com/ByLCY/kakimoji/document"
)

// boxRenderer 把任意文字渲染为 Size×Size 的黑色方块。
type boxRenderer struct{}

func (boxRenderer) RenderText(obj document.TextObject) (*image.RGBA, error) {
	n := int(obj.Size)
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img, nil
}

// newSession 创建 100×100 文档与 200×200 视口（scale=2，无偏移）。
func newSession(t *testing.T) *Session {
	t.Helper()
	bg := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			bg.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	doc := document.New()
	if err := doc.LoadBackground(bg); err != nil {
		t.Fatalf("load background: %v", err)
	}
	s := NewSession(doc, compose.New(compose.Options{Text: boxRenderer{}}))
	s.Resize(200, 200)
	return s
}

func render(t *testing.T, s *Session) {
	t.Helper()
	if _, err := s.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestPointerRequiresFrame(t *testing.T) {
	s := newSession(t)
	if err := s.PointerDown(1, 1); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
}

func TestPlaceTextThenDrag(t *testing.T) {
	s := newSession(t)
	s.Document().Tools.Style.Size = 20
	if err := s.PlaceText("  "); err == nil {
		t.Fatalf("blank text should be rejected")
	}
	if err := s.PlaceText("ずんだ"); err != nil {
		t.Fatalf("place text: %v", err)
	}
	render(t, s)
	if err := s.PointerDown(100, 100); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	if s.Mode() != ModeSelect {
		t.Fatalf("placement should return to select mode, got %s", s.Mode())
	}
	txt, ok := s.Document().Text(0)
	if !ok || txt.X != 50 || txt.Y != 50 || txt.Text != "ずんだ" {
		t.Fatalf("unexpected text: %+v", txt)
	}
	if sel, ok := s.Document().Selection(); !ok || sel.Kind != document.KindText {
		t.Fatalf("placed text should be selected")
	}

	render(t, s)
	before := s.Document().HistoryLen()
	if err := s.PointerDown(105, 95); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	s.PointerDrag(110, 120)
	s.PointerDrag(120, 140)
	s.PointerUp()
	txt, _ = s.Document().Text(0)
	if txt.X != 60 || txt.Y != 70 {
		t.Fatalf("drag should move the anchor, got (%g,%g)", txt.X, txt.Y)
	}
	if got := s.Document().HistoryLen(); got != before+1 {
		t.Fatalf("drag should record one history entry, got %d -> %d", before, got)
	}
	if _, dragging := s.Document().Dragging(); dragging {
		t.Fatalf("pointer up should end the drag")
	}
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	txt, _ = s.Document().Text(0)
	if txt.X != 50 || txt.Y != 50 {
		t.Fatalf("undo should restore the position, got (%g,%g)", txt.X, txt.Y)
	}
}

func TestClickEmptyAreaDeselects(t *testing.T) {
	s := newSession(t)
	if _, err := s.Document().PlaceText(s.Document().NewText("a", 50, 50)); err != nil {
		t.Fatalf("place: %v", err)
	}
	render(t, s)
	before := s.Document().HistoryLen()
	if err := s.PointerDown(5, 5); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	if _, ok := s.Document().Selection(); ok {
		t.Fatalf("click on empty area should deselect")
	}
	if s.Document().HistoryLen() != before {
		t.Fatalf("deselect must not record history")
	}
}

func TestEraserStrokeIsOneUndoStep(t *testing.T) {
	s := newSession(t)
	s.Document().Tools.BrushSize = 6
	s.ToggleEraser()
	if s.Mode() != ModeEraser {
		t.Fatalf("expected eraser mode")
	}
	render(t, s)
	if err := s.PointerDown(20, 20); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	s.PointerDrag(30, 20)
	s.PointerDrag(40, 20)
	s.PointerUp()
	strokes := s.Document().Strokes()
	if len(strokes) != 3 || strokes[0].X != 10 || strokes[2].X != 20 || strokes[0].Size != 6 {
		t.Fatalf("unexpected strokes: %+v", strokes)
	}
	if !s.Undo() || len(s.Document().Strokes()) != 0 {
		t.Fatalf("one undo should remove the whole stroke")
	}
	s.ToggleEraser()
	if s.Mode() != ModeSelect {
		t.Fatalf("toggle should leave eraser mode")
	}
}

func TestDropperPicksBackgroundColor(t *testing.T) {
	s := newSession(t)
	s.ToggleDropper()
	render(t, s)
	if err := s.PointerDown(40, 60); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	if got := s.Document().Tools.BrushColor; got != "#141e07" {
		t.Fatalf("brush color = %s, want #141e07", got)
	}
	if s.Mode() != ModeEraser {
		t.Fatalf("dropper should switch to eraser, got %s", s.Mode())
	}
	if len(s.Document().Strokes()) != 0 {
		t.Fatalf("picking a color must not paint")
	}
}

func TestPlaceImage(t *testing.T) {
	s := newSession(t)
	if err := s.PlaceImage(3); !errors.Is(err, document.ErrAssetMissing) {
		t.Fatalf("expected ErrAssetMissing, got %v", err)
	}
	id := s.Document().AddAsset(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err := s.PlaceImage(id); err != nil {
		t.Fatalf("place image: %v", err)
	}
	render(t, s)
	if err := s.PointerDown(60, 80); err != nil {
		t.Fatalf("pointer down: %v", err)
	}
	img, ok := s.Document().Image(0)
	if !ok || img.X != 30 || img.Y != 40 || img.Scale != 1 {
		t.Fatalf("unexpected placed image: %+v", img)
	}
	if err := s.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.Document().Images()) != 0 {
		t.Fatalf("image should be deleted")
	}
}
