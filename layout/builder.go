package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/classify"
	"github.com/ByLCY/vellum/wrap"
)

const (
	warningGlyph       = "!"
	separatorWidth     = 1.0
	footerLineWidth    = 0.5
	footerLineFraction = 0.7 // 页脚线距画布底部 = 下边距 × 该比例
	footerTextFraction = 0.3
)

// Build 依次分类、折行并排版每一行，生成按绘制顺序排列的图元。
// 每次调用独享光标、画布与图元列表，可并发调用。
func Build(lines []string, opts BuildOptions) (*Document, error) {
	profile := DecoratedProfile()
	if opts.Profile != nil {
		profile = opts.Profile.Clone()
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("layout: 配置 %s 无效: %w", profile.Name, err)
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = classify.New(classify.Options{
			TitleMarkers:    profile.TitleMarkers,
			WarningKeywords: profile.WarningKeywords,
		})
	}
	wrapper := opts.Wrapper
	if wrapper == nil {
		wrapper = wrap.New()
	}

	f := newFlow(profile, wrapper, len(lines))
	for i, text := range lines {
		line := classify.Line{Text: text, Index: i}
		f.place(line, classifier.Classify(line))
	}
	f.finish(opts.Vars)

	return &Document{
		Primitives: f.prims,
		Canvas:     f.canvas,
		Page:       profile.Page,
		Cursor:     f.y,
		Growths:    f.growths,
	}, nil
}

// flow 是排版状态机：纵向光标、可增长画布与图元列表。
type flow struct {
	p       Profile
	wrapper Wrapper

	left         float64
	contentWidth float64
	y            float64
	canvas       Canvas
	prims        []Primitive
	background   *Rect
	growths      int
}

func newFlow(p Profile, w Wrapper, lineCount int) *flow {
	body := p.Style(classify.Body)
	estimate := p.Margin.Top + float64(lineCount)*body.LineHeight + p.Margin.Bottom
	f := &flow{
		p:            p,
		wrapper:      w,
		left:         p.Margin.Left,
		contentWidth: p.ContentWidth(),
		y:            p.Margin.Top,
		canvas:       Canvas{Width: p.Page.Width, Height: math.Max(p.Page.Height, estimate)},
	}
	if p.Decorations.Background {
		fill, border := p.Palette.Background, p.Palette.Border
		f.background = &Rect{Width: f.canvas.Width, Height: f.canvas.Height, Fill: &fill, Stroke: &border, StrokeWidth: 1, Role: "background"}
		f.emit(f.background)
	}
	return f
}

func (f *flow) emit(p Primitive) { f.prims = append(f.prims, p) }

// ensureSpace 在高度为 h 的内容放不下时按固定步长一次性增高画布。
func (f *flow) ensureSpace(h float64) {
	if f.y+h <= f.canvas.Height-f.p.Margin.Bottom {
		return
	}
	step := float64(f.p.GrowLines) * f.p.Style(classify.Body).LineHeight
	for f.y+h > f.canvas.Height-f.p.Margin.Bottom {
		f.canvas.Height += step
	}
	f.growths++
}

func (f *flow) place(line classify.Line, cat classify.Category) {
	style := f.p.Style(cat)
	text := line.Text
	indent := 0.0
	marked := f.p.Decorations.Markers && (cat == classify.BulletPoint || cat == classify.Warning)
	if marked {
		indent = f.p.MarkerIndent
		if cat == classify.BulletPoint {
			// 圆点代替 "- " 标记；只剩空白时保留原文。
			if rest := classify.StripBullet(text); strings.TrimSpace(rest) != "" {
				text = rest
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		f.blank(line, text, style)
		return
	}

	x := f.left + indent
	segments := f.wrapper.Wrap(text, style.FontSize, f.contentWidth-indent)
	for i, seg := range segments {
		f.ensureSpace(style.LineHeight)
		if i == 0 {
			f.decorate(cat, x, seg, style)
		}
		f.emit(&TextRun{
			Content:    seg.Text,
			X:          x,
			Y:          f.y + style.FontSize,
			Width:      seg.Width,
			FontSize:   style.FontSize,
			FontFamily: f.p.FontFamily,
			Weight:     style.Weight,
			Color:      style.Color,
			Anchor:     AnchorStart,
			Category:   cat,
			Line:       line.Index,
		})
		f.y += style.LineHeight
	}

	switch cat {
	case classify.Title:
		f.ensureSpace(f.p.TitleGap)
		f.y += f.p.TitleGap
		if f.p.Decorations.Separators {
			sepY := f.y - f.p.TitleGap/2
			f.emit(&StraightLine{
				X1: f.left, Y1: sepY, X2: f.left + f.contentWidth, Y2: sepY,
				Color: f.p.Palette.Separator, Width: separatorWidth, Role: "separator",
			})
		}
	case classify.Subheading:
		f.ensureSpace(f.p.SubheadingGap)
		f.y += f.p.SubheadingGap
	}
}

// decorate 输出首个片段之前的装饰：标题高亮、项目圆点、提示圆标。
func (f *flow) decorate(cat classify.Category, x float64, first wrap.Segment, style Style) {
	d := f.p.Decorations
	switch {
	case cat == classify.Title && d.Highlight:
		pad := f.p.HighlightPadding
		fill := f.p.Palette.Highlight
		f.emit(&Rect{
			X: x - pad, Y: f.y, Width: first.Width + 2*pad, Height: style.LineHeight,
			Radius: pad, Fill: &fill, Role: "highlight",
		})
	case cat == classify.BulletPoint && d.Markers:
		f.emit(&Circle{
			CX: x - f.p.MarkerIndent/2, CY: f.y + style.FontSize*0.65, R: f.p.MarkerRadius,
			Fill: f.p.Palette.Marker, Role: "bullet",
		})
	case cat == classify.Warning && d.Markers:
		r := f.p.MarkerRadius * 2
		f.emit(&Circle{
			CX: x - f.p.MarkerIndent/2, CY: f.y + style.FontSize*0.6, R: r,
			Fill: f.p.Palette.WarningMarker, Glyph: warningGlyph,
			GlyphColor: f.p.Palette.WarningGlyph, GlyphSize: r * 1.5, Role: "warning",
		})
	}
}

// blank 为无可见字符的行输出空文本图元并推进较小的间距。
func (f *flow) blank(line classify.Line, text string, style Style) {
	f.ensureSpace(f.p.BlankGap)
	f.emit(&TextRun{
		Content:    text,
		X:          f.left,
		Y:          f.y + f.p.BlankGap,
		Width:      wrap.Measure(text, style.FontSize),
		FontSize:   style.FontSize,
		FontFamily: f.p.FontFamily,
		Weight:     style.Weight,
		Color:      style.Color,
		Anchor:     AnchorStart,
		Category:   classify.Body,
		Line:       line.Index,
	})
	f.y += f.p.BlankGap
}

// finish 校正画布高度并追加页脚分隔线与页码。
func (f *flow) finish(vars binding.Vars) {
	f.canvas.Height = math.Max(f.canvas.Height, f.y+f.p.Margin.Bottom)
	if f.background != nil {
		f.background.Height = f.canvas.Height
	}

	bottom := f.p.Margin.Bottom
	lineY := f.canvas.Height - bottom*footerLineFraction
	f.emit(&StraightLine{
		X1: f.left, Y1: lineY, X2: f.left + f.contentWidth, Y2: lineY,
		Color: f.p.Footer.LineColor, Width: footerLineWidth, Role: "footer",
	})

	pages := int(math.Ceil(f.canvas.Height/f.p.Page.Height - 1e-9))
	footerVars := binding.Vars{"page": map[string]any{"number": 1, "count": pages}}
	if vars != nil {
		footerVars = vars.Merge(footerVars)
	}
	text := binding.Expand(f.p.Footer.Template, footerVars)
	f.emit(&TextRun{
		Content:    text,
		X:          f.p.Page.Width / 2,
		Y:          f.canvas.Height - bottom*footerTextFraction,
		Width:      wrap.Measure(text, f.p.Footer.FontSize),
		FontSize:   f.p.Footer.FontSize,
		FontFamily: f.p.FontFamily,
		Weight:     WeightNormal,
		Color:      f.p.Footer.Color,
		Anchor:     AnchorMiddle,
		Category:   classify.Body,
		Line:       -1,
	})
}
