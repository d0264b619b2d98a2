package layout

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/classify"
	"github.com/ByLCY/vellum/wrap"
)

func mustBuild(t *testing.T, lines []string, opts BuildOptions) *Document {
	t.Helper()
	doc, err := Build(lines, opts)
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	return doc
}

func TestBuildDecoratedScenario(t *testing.T) {
	lines := []string{
		"翻譯文檔：report.pdf",
		"",
		"1. 文檔概述",
		"這是正文",
		"- 項目一",
		"注意：請核對原文",
	}
	doc := mustBuild(t, lines, BuildOptions{})

	bg, ok := doc.Primitives[0].(*Rect)
	if !ok || bg.Role != "background" {
		t.Fatalf("第一个图元应为背景矩形，实际 %#v", doc.Primitives[0])
	}
	if bg.Height != doc.Canvas.Height {
		t.Fatalf("背景高度 %g 应等于画布高度 %g", bg.Height, doc.Canvas.Height)
	}

	runs := doc.TextRuns()
	if len(runs) != len(lines)+1 {
		t.Fatalf("文本图元数量 = %d, want %d", len(runs), len(lines)+1)
	}
	wantCats := []classify.Category{
		classify.Title, classify.Body, classify.Title, classify.Body, classify.BulletPoint, classify.Warning,
	}
	for i, want := range wantCats {
		if runs[i].Category != want {
			t.Fatalf("第 %d 行类别 = %s, want %s", i, runs[i].Category, want)
		}
		if runs[i].Line != i {
			t.Fatalf("第 %d 个文本图元的来源行号 = %d", i, runs[i].Line)
		}
	}
	if runs[4].Content != "項目一" {
		t.Fatalf("项目符号应去掉 \"- \" 标记，实际 %q", runs[4].Content)
	}
	if runs[0].Weight != WeightBold || runs[0].FontSize != 18 {
		t.Fatalf("标题样式错误: %+v", runs[0])
	}

	var highlights, separators int
	for i, p := range doc.Primitives {
		switch v := p.(type) {
		case *Rect:
			if v.Role == "highlight" {
				highlights++
				next, ok := doc.Primitives[i+1].(*TextRun)
				if !ok || next.Category != classify.Title {
					t.Fatalf("高亮矩形之后应紧跟标题文本，实际 %#v", doc.Primitives[i+1])
				}
			}
		case *StraightLine:
			if v.Role == "separator" {
				separators++
				prev, ok := doc.Primitives[i-1].(*TextRun)
				if !ok || prev.Category != classify.Title {
					t.Fatalf("分隔线应位于标题文本之后，实际 %#v", doc.Primitives[i-1])
				}
			}
		case *Circle:
			next, ok := doc.Primitives[i+1].(*TextRun)
			if !ok {
				t.Fatalf("圆形标记之后应为文本图元")
			}
			switch v.Role {
			case "bullet":
				if next.Category != classify.BulletPoint {
					t.Fatalf("项目圆点之后应为项目文本，实际 %s", next.Category)
				}
			case "warning":
				if v.Glyph != "!" || next.Category != classify.Warning {
					t.Fatalf("提示圆标错误: %+v 后接 %s", v, next.Category)
				}
			}
		}
	}
	if highlights != 2 || separators != 2 {
		t.Fatalf("高亮/分隔线数量 = %d/%d, want 2/2", highlights, separators)
	}
	if doc.Count(KindCircle) != 2 {
		t.Fatalf("圆形标记数量 = %d, want 2", doc.Count(KindCircle))
	}
}

func TestBuildListScenario(t *testing.T) {
	p := DecoratedProfile()
	doc := mustBuild(t, []string{"1. Title", "  - bullet one", "plain body text"}, BuildOptions{Profile: &p})

	if doc.Canvas.Height != p.Page.Height || doc.Growths != 0 {
		t.Fatalf("内容未超出页面时画布高度应保持 %g，实际 %g（增长 %d 次）", p.Page.Height, doc.Canvas.Height, doc.Growths)
	}
	wantKinds := []Kind{KindRect, KindRect, KindText, KindLine, KindCircle, KindText, KindText, KindLine, KindText}
	if len(doc.Primitives) != len(wantKinds) {
		t.Fatalf("图元数量 = %d, want %d", len(doc.Primitives), len(wantKinds))
	}
	for i, want := range wantKinds {
		if got := doc.Primitives[i].Kind(); got != want {
			t.Fatalf("第 %d 个图元 = %s, want %s", i, got, want)
		}
	}
	if hl := doc.Primitives[1].(*Rect); hl.Role != "highlight" {
		t.Fatalf("标题前应为高亮矩形，实际 %s", hl.Role)
	}
	if sep := doc.Primitives[3].(*StraightLine); sep.Role != "separator" {
		t.Fatalf("标题后应为分隔线，实际 %s", sep.Role)
	}
	if dot := doc.Primitives[4].(*Circle); dot.Role != "bullet" {
		t.Fatalf("项目文本前应为圆点，实际 %s", dot.Role)
	}

	runs := doc.TextRuns()
	want := []struct {
		content string
		cat     classify.Category
		x       float64
	}{
		{"1. Title", classify.Title, p.Margin.Left},
		{"bullet one", classify.BulletPoint, p.Margin.Left + p.MarkerIndent},
		{"plain body text", classify.Body, p.Margin.Left},
	}
	for i, w := range want {
		if runs[i].Content != w.content || runs[i].Category != w.cat || runs[i].X != w.x {
			t.Fatalf("第 %d 个文本图元 = %q %s x=%g, want %q %s x=%g",
				i, runs[i].Content, runs[i].Category, runs[i].X, w.content, w.cat, w.x)
		}
	}
}

func TestBuildSubheadingAndWrappedTitle(t *testing.T) {
	p := DecoratedProfile()
	title := "1. " + strings.Repeat("長", 40)
	sub := "A. " + strings.Repeat("長", 40)
	lines := []string{title, "一、概述", sub, "正文"}

	ts, ss, bs := p.Style(classify.Title), p.Style(classify.Subheading), p.Style(classify.Body)
	titleSegs := wrap.New().Wrap(title, ts.FontSize, p.ContentWidth())
	subSegs := wrap.New().Wrap(sub, ss.FontSize, p.ContentWidth())
	if len(titleSegs) != 2 || len(subSegs) != 2 {
		t.Fatalf("标题与小标题都应折成 2 段，实际 %d/%d", len(titleSegs), len(subSegs))
	}

	doc := mustBuild(t, lines, BuildOptions{Profile: &p})

	// 背景、高亮、两段标题、分隔线，随后是小标题与正文。
	hl, ok := doc.Primitives[1].(*Rect)
	if !ok || hl.Role != "highlight" {
		t.Fatalf("第二个图元应为高亮矩形，实际 %#v", doc.Primitives[1])
	}
	pad := p.HighlightPadding
	if math.Abs(hl.Width-(titleSegs[0].Width+2*pad)) > 1e-9 || hl.Height != ts.LineHeight || hl.Y != p.Margin.Top {
		t.Fatalf("高亮矩形应只覆盖第一段: %+v, 第一段宽 %g", hl, titleSegs[0].Width)
	}
	for i := 2; i <= 3; i++ {
		run, ok := doc.Primitives[i].(*TextRun)
		if !ok || run.Category != classify.Title || run.Content != titleSegs[i-2].Text {
			t.Fatalf("第 %d 个图元应为第 %d 段标题，实际 %#v", i, i-1, doc.Primitives[i])
		}
	}
	sep, ok := doc.Primitives[4].(*StraightLine)
	if !ok || sep.Role != "separator" {
		t.Fatalf("分隔线应位于最后一段标题之后，实际 %#v", doc.Primitives[4])
	}
	afterTitle := p.Margin.Top + 2*ts.LineHeight + p.TitleGap
	if math.Abs(sep.Y1-(afterTitle-p.TitleGap/2)) > 1e-9 {
		t.Fatalf("分隔线位置 = %g, want %g", sep.Y1, afterTitle-p.TitleGap/2)
	}
	if doc.Count(KindRect) != 2 || doc.Count(KindLine) != 2 || doc.Count(KindCircle) != 0 {
		t.Fatalf("小标题不应带装饰: rect=%d line=%d circle=%d",
			doc.Count(KindRect), doc.Count(KindLine), doc.Count(KindCircle))
	}

	runs := doc.TextRuns()
	if len(runs) != 2+1+2+1+1 {
		t.Fatalf("文本图元数量 = %d", len(runs))
	}
	afterCJK := afterTitle + ss.LineHeight + p.SubheadingGap
	afterSub := afterCJK + 2*ss.LineHeight + p.SubheadingGap
	wantY := []float64{
		p.Margin.Top + ts.FontSize,
		p.Margin.Top + ts.LineHeight + ts.FontSize,
		afterTitle + ss.FontSize,
		afterCJK + ss.FontSize,
		afterCJK + ss.LineHeight + ss.FontSize,
		afterSub + bs.FontSize,
	}
	wantCats := []classify.Category{
		classify.Title, classify.Title, classify.Subheading, classify.Subheading, classify.Subheading, classify.Body,
	}
	for i := range wantY {
		if runs[i].Category != wantCats[i] {
			t.Fatalf("第 %d 个文本图元类别 = %s, want %s", i, runs[i].Category, wantCats[i])
		}
		if math.Abs(runs[i].Y-wantY[i]) > 1e-9 {
			t.Fatalf("第 %d 个文本图元基线 = %g, want %g", i, runs[i].Y, wantY[i])
		}
	}
	if runs[3].Content != subSegs[0].Text || runs[4].Content != subSegs[1].Text {
		t.Fatalf("小标题折行内容错误: %q / %q", runs[3].Content, runs[4].Content)
	}
	if math.Abs(doc.Cursor-(afterSub+bs.LineHeight)) > 1e-9 {
		t.Fatalf("光标 = %g, want %g", doc.Cursor, afterSub+bs.LineHeight)
	}
}

func TestBuildPlainProfileHasNoDecorations(t *testing.T) {
	plain := PlainProfile()
	lines := []string{"翻譯文檔", "1. 標題", "- 項目", "注意事項"}
	doc := mustBuild(t, lines, BuildOptions{Profile: &plain})

	if doc.Count(KindCircle) != 0 {
		t.Fatalf("朴素配置不应输出圆形标记")
	}
	for _, p := range doc.Primitives {
		switch v := p.(type) {
		case *Rect:
			if v.Role != "background" {
				t.Fatalf("朴素配置只允许背景矩形，实际 %s", v.Role)
			}
		case *StraightLine:
			if v.Role != "footer" {
				t.Fatalf("朴素配置只允许页脚线，实际 %s", v.Role)
			}
		}
	}
	runs := doc.TextRuns()
	if runs[2].Content != "- 項目" {
		t.Fatalf("无圆点时应保留原文标记，实际 %q", runs[2].Content)
	}
	if runs[0].Weight != WeightBold || runs[3].Weight != WeightNormal {
		t.Fatalf("朴素配置仍应区分标题字重")
	}
}

func TestBuildBlankLineAdvancesByBlankGap(t *testing.T) {
	p := DecoratedProfile()
	doc := mustBuild(t, []string{"第一行", "", "第二行"}, BuildOptions{Profile: &p})
	runs := doc.TextRuns()
	if runs[1].Content != "" || runs[1].Line != 1 {
		t.Fatalf("空行应保留为空文本图元: %+v", runs[1])
	}
	body := p.Style(classify.Body)
	if got, want := runs[2].Y-runs[0].Y, body.LineHeight+p.BlankGap; math.Abs(got-want) > 1e-9 {
		t.Fatalf("空行前后基线间距 = %g, want %g", got, want)
	}
	if runs[0].Y != p.Margin.Top+body.FontSize {
		t.Fatalf("首行基线 = %g, want %g", runs[0].Y, p.Margin.Top+body.FontSize)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	lines := strings.Split("翻譯文檔：a.pdf\n一、背景\n- 項目\n注意\n正文 text 123", "\n")
	first, err := json.Marshal(mustBuild(t, lines, BuildOptions{}))
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	second, err := json.Marshal(mustBuild(t, lines, BuildOptions{}))
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("相同输入应得到相同布局")
	}
}

func TestBuildGrowsCanvasForLongInput(t *testing.T) {
	p := DecoratedProfile()
	long := strings.Repeat("長", 100)
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = long
	}
	doc := mustBuild(t, lines, BuildOptions{Profile: &p})

	if doc.Growths == 0 {
		t.Fatalf("折行后内容超出预估高度，画布应增长")
	}
	if doc.Canvas.Height < doc.Cursor+p.Margin.Bottom {
		t.Fatalf("画布高度 %g 小于光标 %g 加下边距", doc.Canvas.Height, doc.Cursor)
	}
	if doc.Canvas.Height < p.Page.Height {
		t.Fatalf("画布高度不应小于页面高度")
	}
	limit := p.ContentWidth() + 1e-9
	for _, run := range doc.TextRuns() {
		if run.Line < 0 {
			continue
		}
		if run.Width > limit {
			t.Fatalf("片段宽度 %g 超过内容宽度 %g", run.Width, limit)
		}
		if run.Y > doc.Canvas.Height-p.Margin.Bottom {
			t.Fatalf("基线 %g 超出画布可用区域", run.Y)
		}
	}
	if got := len(doc.TextRuns()); got != 50*3+1 {
		t.Fatalf("每行应折成 3 段，文本图元数量 = %d", got)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	doc := mustBuild(t, nil, BuildOptions{})
	if doc.Canvas.Height != DefaultPage.Height {
		t.Fatalf("空输入画布高度 = %g, want %g", doc.Canvas.Height, DefaultPage.Height)
	}
	runs := doc.TextRuns()
	if len(runs) != 1 || runs[0].Line != -1 {
		t.Fatalf("空输入只应有页脚文本，实际 %d 个", len(runs))
	}
}

func TestBuildFooter(t *testing.T) {
	p := DecoratedProfile()
	p.Footer.Template = "${doc.name} · ${page.number}/${page.count}"
	doc := mustBuild(t, []string{"正文"}, BuildOptions{
		Profile: &p,
		Vars:    binding.Vars{"doc": map[string]any{"name": "report.pdf"}},
	})

	footer, ok := doc.Primitives[len(doc.Primitives)-1].(*TextRun)
	if !ok {
		t.Fatalf("最后一个图元应为页脚文本")
	}
	if footer.Content != "report.pdf · 1/1" {
		t.Fatalf("页脚文本 = %q", footer.Content)
	}
	if footer.Anchor != AnchorMiddle || footer.X != p.Page.Width/2 || footer.Line != -1 {
		t.Fatalf("页脚位置错误: %+v", footer)
	}
	line, ok := doc.Primitives[len(doc.Primitives)-2].(*StraightLine)
	if !ok || line.Role != "footer" {
		t.Fatalf("页脚文本之前应为页脚线")
	}
	if line.Y1 >= footer.Y || line.Y1 <= doc.Cursor {
		t.Fatalf("页脚线 %g 应位于内容 %g 与页脚文本 %g 之间", line.Y1, doc.Cursor, footer.Y)
	}
}

type everyLine classify.Category

func (c everyLine) Classify(classify.Line) classify.Category { return classify.Category(c) }

func TestBuildUsesInjectedClassifier(t *testing.T) {
	doc := mustBuild(t, []string{"a", "b", "c"}, BuildOptions{Classifier: everyLine(classify.Warning)})
	if doc.Count(KindCircle) != 3 {
		t.Fatalf("每行都应带提示圆标，实际 %d", doc.Count(KindCircle))
	}
}

func TestBuildRejectsInvalidProfile(t *testing.T) {
	p := DecoratedProfile()
	p.Page.Width = 0
	if _, err := Build([]string{"x"}, BuildOptions{Profile: &p}); err == nil {
		t.Fatalf("页面宽度为 0 时应返回错误")
	}
}

func TestBuildDoesNotMutateProfile(t *testing.T) {
	p := DecoratedProfile()
	before := p.Style(classify.Title)
	mustBuild(t, []string{"1. 標題"}, BuildOptions{Profile: &p})
	if p.Style(classify.Title) != before {
		t.Fatalf("Build 不应修改传入的配置")
	}
}
