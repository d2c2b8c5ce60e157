package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/kakimoji/layout"
	"github.com/ByLCY/kakimoji/project"
)

func TestRunScriptEndToEnd(t *testing.T) {
	dir := t.TempDir()
	bg := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for i := range bg.Pix {
		bg.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, bg); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bg.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write bg: %v", err)
	}
	src := `sheet Test v1 {
  resources { background "bg.png" }
  scene {
    stroke at 10 10 size 6 color #000
    text at 80 60 size 24 { "${who}のだ" }
  }
}`
	in := filepath.Join(dir, "page.kaki")
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	out := filepath.Join(dir, "out", "page.png")
	pdfPath := filepath.Join(dir, "out", "page.pdf")
	zmm := filepath.Join(dir, "out", "page.zmm")
	debug := filepath.Join(dir, "out", "layout.json")
	err := run(options{
		input:   in,
		output:  out,
		pdf:     pdfPath,
		project: zmm,
		debug:   debug,
		data:    map[string]any{"who": "ずんだもん"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds() != bg.Bounds() {
		t.Fatalf("export should match background size, got %v", img.Bounds())
	}
	if r, _, _, _ := img.At(10, 10).RGBA(); r != 0 {
		t.Fatalf("stroke missing from export")
	}
	if info, err := os.Stat(pdfPath); err != nil || info.Size() == 0 {
		t.Fatalf("pdf not written: %v", err)
	}

	doc, err := project.Load(zmm, nil)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	if txt, ok := doc.Text(0); !ok || txt.Text != "ずんだもんのだ" {
		t.Fatalf("unexpected project text: %+v", txt)
	}

	raw, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("read debug: %v", err)
	}
	var entries []layout.DebugEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("parse debug: %v", err)
	}
	if len(entries) != 1 || entries[0].Glyphs != "ずんだもんのだ" {
		t.Fatalf("unexpected debug entries: %+v", entries)
	}
}

func TestRunReportsBuildErrors(t *testing.T) {
	if err := run(options{input: filepath.Join(t.TempDir(), "missing.kaki")}); err == nil {
		t.Fatalf("missing script should fail")
	}
}
