package canvasrenderer

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/vellum/layout"
)

// newTestRenderer 优先使用 VELLUM_TEST_FONT 指定的字体文件，其次是系统字体；都没有时跳过。
func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	opts := Options{FontFile: os.Getenv("VELLUM_TEST_FONT")}
	r := NewRenderer(opts)
	if err := r.ensureFontFamily(); err != nil {
		t.Skipf("没有可用字体，跳过 PDF 渲染测试: %v", err)
	}
	return r
}

func TestRenderProducesPDF(t *testing.T) {
	r := newTestRenderer(t)
	doc, err := layout.Build([]string{"翻譯文檔：a.pdf", "1. 概述", "- 項目", "注意事項", "", "正文 text"}, layout.BuildOptions{})
	if err != nil {
		t.Fatalf("layout.Build: %v", err)
	}
	art, err := r.Render(&layout.Container{Document: doc, Meta: layout.Meta{SourceName: "a.pdf", ID: "doc-1"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(art.Bytes, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: %.8q", art.Bytes)
	}
	if art.ContentType != ContentTypePDF || art.Extension != ".pdf" {
		t.Fatalf("内容类型错误: %s %s", art.ContentType, art.Extension)
	}
}

func TestRenderCachesFaces(t *testing.T) {
	r := newTestRenderer(t)
	a, err := r.fontFace(14, layout.WeightNormal, layout.Color{R: 51, G: 51, B: 51})
	if err != nil {
		t.Fatalf("fontFace: %v", err)
	}
	b, err := r.fontFace(14, layout.WeightNormal, layout.Color{R: 51, G: 51, B: 51})
	if err != nil {
		t.Fatalf("fontFace: %v", err)
	}
	if a != b {
		t.Fatalf("相同参数应复用字体面")
	}
}

func TestRenderMissingFontFile(t *testing.T) {
	r := NewRenderer(Options{FontFile: filepath.Join(t.TempDir(), "missing.ttf")})
	doc, err := layout.Build([]string{"正文"}, layout.BuildOptions{})
	if err != nil {
		t.Fatalf("layout.Build: %v", err)
	}
	if _, err := r.Render(&layout.Container{Document: doc}); err == nil {
		t.Fatalf("字体文件不存在时应返回错误")
	}
}

func TestRenderRejectsEmptyContainer(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("空输入应返回错误")
	}
	if _, err := r.Render(&layout.Container{Document: &layout.Document{}}); err == nil {
		t.Fatalf("画布为空时应返回错误")
	}
}

func TestToMm(t *testing.T) {
	if got := toMm(72); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("toMm(72) = %g, want 25.4", got)
	}
}
