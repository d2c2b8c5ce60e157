package script

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/dsl"
	"github.com/ByLCY/kakimoji/layout"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

// fixtureDir 准备背景、素材与字体文件。
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "page.png"), 200, 100)
	writePNG(t, filepath.Join(dir, "zunda.png"), 10, 20)
	if err := os.WriteFile(filepath.Join(dir, "body.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	return dir
}

const pageScript = `
sheet Page1 v1 {
  meta {
    title: "${title|untitled}"
    author: "zunko"
    keywords: ["comic", "draft"]
  }
  resources {
    background "page.png"
    font Body { src: "body.ttf" }
    image Zunda "zunda.png"
    color Ink = #123
    register "ずんだ"
    register "${user.name}"
    tools { brush-color: #ff0000; brush-size: 8; text-color: Ink }

    style Bubble {
      size: 30px
      vertical: true
      align: center middle
      line-spacing: 50%
      char-spacing: 3px
      outline: 10%
      outline-color: #fff
      font: Body
    }
    style Shout extends Bubble { size: 60; color: #00ff00; angle: -10 }
  }
  scene {
    stroke at 10 10 to 30 10 size 8
    image Zunda at 50% 50% scale 150% angle 90
    text Bubble at 150 20 { "${user.name}なのだ" }
    text Shout at 10 90 horizontal align-h left { "ドン" }
    text at 100 50 size 12pt color Ink { "plain" }
  }
}
`

func buildSample(t *testing.T) *Result {
	t.Helper()
	dir := fixtureDir(t)
	path := filepath.Join(dir, "page.kaki")
	if err := os.WriteFile(path, []byte(pageScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	data := map[string]any{"user": map[string]any{"name": "ずんだもん"}}
	res, err := BuildFile(path, BuildOptions{Data: data})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return res
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuildDocument(t *testing.T) {
	res := buildSample(t)
	doc := res.Document
	if w, h := doc.Size(); w != 200 || h != 100 {
		t.Fatalf("background size mismatch: %dx%d", w, h)
	}
	if doc.CanUndo() {
		t.Fatalf("build steps must not be undoable")
	}
	if _, ok := doc.Selection(); ok {
		t.Fatalf("built document should have no selection")
	}
	if got := strings.Join(doc.RegisteredTexts(), ","); got != "ずんだ,ずんだもん" {
		t.Fatalf("registered texts mismatch: %s", got)
	}
	if doc.Tools.BrushColor != "#ff0000" || doc.Tools.BrushSize != 8 || doc.Tools.TextColor != "#112233" {
		t.Fatalf("tools mismatch: %+v", doc.Tools)
	}

	strokes := doc.Strokes()
	if len(strokes) != 11 {
		t.Fatalf("expected 11 dabs along the stroke, got %d", len(strokes))
	}
	if last := strokes[len(strokes)-1]; !near(last.X, 30) || last.Size != 8 || last.Color != "#ff0000" {
		t.Fatalf("unexpected last dab: %+v", last)
	}

	images := doc.Images()
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if img := images[0]; img.X != 100 || img.Y != 50 || img.Scale != 1.5 || img.Angle != 90 {
		t.Fatalf("unexpected placed image: %+v", img)
	}
	if doc.Assets().Get(images[0].AssetID) == nil {
		t.Fatalf("asset not loaded")
	}

	texts := doc.Texts()
	if len(texts) != 3 {
		t.Fatalf("expected 3 texts, got %d", len(texts))
	}
	bubble := texts[0]
	if bubble.Text != "ずんだもんなのだ" || bubble.X != 150 || bubble.Y != 20 {
		t.Fatalf("unexpected bubble: %+v", bubble)
	}
	if bubble.Size != 30 || !bubble.Vertical || bubble.AlignH != layout.AlignCenter || bubble.AlignV != layout.AlignMiddle {
		t.Fatalf("style not applied: %+v", bubble.TextStyle)
	}
	if !near(bubble.LineSpacing, 50) || !near(bubble.CharSpacing, 10) || !near(bubble.OutlineWidth, 3) {
		t.Fatalf("spacing mismatch: %+v", bubble.TextStyle)
	}
	if bubble.OutlineColor != "#ffffff" || bubble.Color != "#112233" || bubble.FontKey != "Body" {
		t.Fatalf("colors/font mismatch: %+v", bubble)
	}

	shout := texts[1]
	if shout.Size != 60 || shout.Vertical || shout.AlignH != layout.AlignLeft || shout.AlignV != layout.AlignMiddle {
		t.Fatalf("inherited style mismatch: %+v", shout.TextStyle)
	}
	if shout.Color != "#00ff00" || shout.Angle != -10 || !near(shout.OutlineWidth, 6) {
		t.Fatalf("override mismatch: %+v", shout)
	}

	plain := texts[2]
	if !near(plain.Size, 16) || plain.Color != "#112233" {
		t.Fatalf("inline attributes mismatch: %+v", plain)
	}
	def := document.DefaultTextStyle()
	if plain.Vertical != def.Vertical || plain.AlignH != def.AlignH {
		t.Fatalf("defaults should apply without a style: %+v", plain.TextStyle)
	}

	if _, err := res.Fonts.Resolve("Body"); err != nil {
		t.Fatalf("font not registered: %v", err)
	}
	if res.Meta.Title != "untitled" || res.Meta.Author != "zunko" || len(res.Meta.Keywords) != 2 {
		t.Fatalf("meta mismatch: %+v", res.Meta)
	}
}

func TestBuildErrors(t *testing.T) {
	dir := fixtureDir(t)
	cases := map[string]string{
		"missing background": `sheet A v1 { scene { stroke 1 1 } }`,
		"unknown style":      `sheet A v1 { resources { background "page.png" } scene { text Nope at 1 1 { "x" } } }`,
		"style cycle": `sheet A v1 { resources {
			background "page.png"
			style A extends B { size: 1 }
			style B extends A { size: 2 }
		} }`,
		"unknown asset":  `sheet A v1 { resources { background "page.png" } scene { image Nope at 1 1 } }`,
		"missing at":     `sheet A v1 { resources { background "page.png" } scene { text size 20 { "x" } } }`,
		"bad color":      `sheet A v1 { resources { background "page.png" } scene { stroke at 1 1 color nope } }`,
		"empty text":     `sheet A v1 { resources { background "page.png" } scene { text at 1 1 { " " } } }`,
		"unknown attr":   `sheet A v1 { resources { background "page.png" } scene { text at 1 1 wobble 3 { "x" } } }`,
		"bad coordinate": `sheet A v1 { resources { background "page.png" } scene { stroke at abc 1 } }`,
		"missing file":   `sheet A v1 { resources { background "nope.png" } }`,
	}
	for name, src := range cases {
		s, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", name, err)
		}
		if _, err := Build(s, BuildOptions{BaseDir: dir}); err == nil {
			t.Fatalf("%s: expected build error", name)
		}
	}
}

func TestParseArgs(t *testing.T) {
	s, err := dsl.ParseString(`sheet A v1 { scene { text Bubble at "${p.x}" 20 vertical size 30 { "x" } } }`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd := s.Sections[0].Scene.Block.Statements[0].Command
	data := map[string]any{"p": map[string]any{"x": 12.0}}
	style, attrs, err := parseArgs(cmd.Args, true, data)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if style != "Bubble" || attrs["x"] != "12" || attrs["y"] != "20" || attrs["vertical"] != "true" || attrs["size"] != "30" {
		t.Fatalf("unexpected result: %q %v", style, attrs)
	}
	if _, _, err := parseArgs(cmd.Args[:2], true, nil); err == nil {
		t.Fatalf("truncated at should fail")
	}
}

func TestParseAlign(t *testing.T) {
	cases := []struct {
		in string
		h  layout.AlignH
		v  layout.AlignV
	}{
		{"right top", layout.AlignRight, layout.AlignTop},
		{"center", layout.AlignCenter, layout.AlignBottom},
		{"center center", layout.AlignCenter, layout.AlignMiddle},
		{"Left Middle", layout.AlignLeft, layout.AlignMiddle},
		{"bottom", layout.AlignRight, layout.AlignBottom},
	}
	for _, c := range cases {
		h, v := parseAlign(c.in, layout.AlignRight, layout.AlignBottom)
		if h != c.h || v != c.v {
			t.Fatalf("parseAlign(%q) = %s %s, want %s %s", c.in, h, v, c.h, c.v)
		}
	}
}
