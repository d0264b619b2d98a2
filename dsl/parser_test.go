package dsl_test

import (
	"testing"

	"github.com/ByLCY/vellum/dsl"
)

const sampleProfile = `
// 自定义配置
profile decorated v1 {
  font-family: "Noto Sans TC, sans-serif"

  page {
    width: 210mm
    height: 297mm
    margin: 40
  }

  style Title {
    size: 20
    weight: bold
    color: #1A3C6E
    line-height: 1.5x
  }

  classify {
    title-markers: [
      "翻譯文檔"
      "Translated Document"
    ]
    warning-keywords: ["注意", "warning"]
  }

  footer { "第 ${page.number} 頁" }
}
`

func TestParseProfile(t *testing.T) {
	doc, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Base != "decorated" {
		t.Fatalf("expected base decorated, got %s", doc.Base)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	stmts := doc.Block.Statements
	if len(stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(stmts))
	}

	family := stmts[0].Assignment
	if family == nil || family.Key != "font-family" || family.Value.Text() != "Noto Sans TC, sans-serif" {
		t.Fatalf("unexpected font-family statement: %+v", stmts[0])
	}

	page := stmts[1].Command
	if page == nil || page.Name != "page" || len(page.Args) != 0 {
		t.Fatalf("expected page section, got %+v", stmts[1])
	}
	if got := page.Block.Statements[0].Assignment.Value.Text(); got != "210mm" {
		t.Fatalf("page width = %s", got)
	}

	style := stmts[2].Command
	if style == nil || style.Name != "style" || len(style.Args) != 1 || style.Args[0].Text() != "Title" {
		t.Fatalf("expected style Title section, got %+v", stmts[2])
	}
	color := style.Block.Statements[2].Assignment
	if color.Value.Color == nil || *color.Value.Color != "#1A3C6E" {
		t.Fatalf("color should lex as Color token: %+v", color.Value)
	}
	weight := style.Block.Statements[1].Assignment
	if weight.Value.Ident == nil || *weight.Value.Ident != "bold" {
		t.Fatalf("weight should lex as identifier: %+v", weight.Value)
	}

	classify := stmts[3].Command
	markers := classify.Block.Statements[0].Assignment.Value.Strings()
	if len(markers) != 2 || markers[1] != "Translated Document" {
		t.Fatalf("unexpected markers %v", markers)
	}
	keywords := classify.Block.Statements[1].Assignment.Value.Strings()
	if len(keywords) != 2 || keywords[0] != "注意" {
		t.Fatalf("unexpected keywords %v", keywords)
	}

	footer := stmts[4].Command
	if footer == nil || footer.Block.Statements[0].Text == nil {
		t.Fatalf("footer literal missing: %+v", stmts[4])
	}
	if got := string(footer.Block.Statements[0].Text.Value); got != "第 ${page.number} 頁" {
		t.Fatalf("footer literal = %q", got)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := dsl.ParseString(`style Title { size: 12 }`); err == nil {
		t.Fatalf("expected error for document without profile header")
	}
}

func TestParseRejectsUnclosedBlock(t *testing.T) {
	if _, err := dsl.ParseString("profile plain v1 {\n page {\n width: 10\n}\n"); err == nil {
		t.Fatalf("expected error for unclosed block")
	}
}
