package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/kakimoji/dsl"
)

const sampleScript = `
sheet Zundamon v1 {
  meta {
    title: "Chapter 1"
    keywords: [
      "comic"
      "draft"
    ]
  }

  resources {
    background "pages/01.png"
    font Body {
      src: "fonts/body.ttf"
    }
    image Zunda { src: "assets/zunda.png" }
    color Ink = #1A1A1A
    register "ずんだもん"

    style Bubble {
      size: 40px
      vertical: true
      align: right top
      outline-color: #fff
    }
    style Shout extends Bubble { size: 64; char-spacing: -10% }
  }

  scene {
    stroke 120 340 size 30 color #ffffff
    image Zunda at 300 400 scale 0.5 angle -15
    text Bubble at 520 80 { "こんにちは。\n${user.name}" }
  }
}
`

func TestParseScript(t *testing.T) {
	s, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Name != "Zundamon" || s.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", s.Name, s.Version)
	}
	if len(s.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(s.Sections))
	}
	kinds := []string{s.Sections[0].Kind(), s.Sections[1].Kind(), s.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,resources,scene" {
		t.Fatalf("unexpected section order: %v", kinds)
	}

	meta := s.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || string(*title.Value.String) != "Chapter 1" {
		t.Fatalf("unexpected title: %+v", meta.Block.Statements[0])
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected keywords array with 2 entries")
	}

	res := s.Sections[1].Resources.Block.Statements
	if len(res) != 7 {
		t.Fatalf("expected 7 resource statements, got %d", len(res))
	}
	bg := res[0].Command
	if bg == nil || bg.Name != "background" || !bg.Args[0].IsString() || bg.Args[0].Value != "pages/01.png" {
		t.Fatalf("unexpected background command: %+v", res[0])
	}
	color := res[3].Command
	if color == nil || len(color.Args) != 3 || color.Args[2].Type != "Color" || color.Args[2].Value != "#1A1A1A" {
		t.Fatalf("unexpected color command: %+v", color)
	}

	bubble := res[5].Command
	if bubble == nil || bubble.Name != "style" || bubble.Block == nil {
		t.Fatalf("expected style block, got %+v", res[5])
	}
	align := bubble.Block.Statements[2].Assignment
	if align == nil || align.Value.Expr.String() != "right top" {
		t.Fatalf("align should capture an expression, got %+v", align)
	}
	outline := bubble.Block.Statements[3].Assignment
	if outline == nil || outline.Key != "outline-color" || outline.Value.Color == nil || *outline.Value.Color != "#fff" {
		t.Fatalf("unexpected outline assignment: %+v", outline)
	}
	shout := res[6].Command
	if len(shout.Args) != 3 || shout.Args[1].Value != "extends" {
		t.Fatalf("unexpected extends args: %+v", shout.Args)
	}
	if got := len(shout.Block.Statements); got != 2 {
		t.Fatalf("semicolon separated block should yield 2 statements, got %d", got)
	}
	if cs := shout.Block.Statements[1].Assignment; cs == nil || *cs.Value.Number != "-10%" {
		t.Fatalf("negative percentage not captured: %+v", cs)
	}

	scene := s.Sections[2].Scene.Block.Statements
	if len(scene) != 3 {
		t.Fatalf("expected 3 scene commands, got %d", len(scene))
	}
	img := scene[1].Command
	if img.Name != "image" || img.Args[len(img.Args)-1].Value != "-15" {
		t.Fatalf("unexpected image args: %+v", img.Args)
	}
	text := scene[2].Command
	if text.Name != "text" || text.Args[0].Value != "Bubble" {
		t.Fatalf("unexpected text command: %+v", text)
	}
	if text.Block == nil || text.Block.Statements[0].Text == nil {
		t.Fatalf("text command missing literal content")
	}
	if got := string(text.Block.Statements[0].Text.Value); got != "こんにちは。\n${user.name}" {
		t.Fatalf("unexpected literal: %q", got)
	}
}

func TestHashComments(t *testing.T) {
	src := "# page one\nsheet A v1 {\n  scene {\n    stroke 1 2 color #abc # trailing\n  }\n}\n"
	s, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cmd := s.Sections[0].Scene.Block.Statements[0].Command
	if len(cmd.Args) != 4 || cmd.Args[3].Value != "#abc" {
		t.Fatalf("comment should be elided, got %+v", cmd.Args)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"doc A v1 { }",
		"sheet A v1 { scene { text \"unterminated } }",
	} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}
