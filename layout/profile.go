package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ByLCY/vellum/classify"
)

// Profile 是排版配置：页面、各类别样式、间距与装饰开关。
// 同一个排版引擎通过不同配置产生朴素或带装饰的输出。
type Profile struct {
	Name       string
	Page       PageSize
	Margin     Margin
	FontFamily string
	Styles     map[classify.Category]Style

	TitleGap      float64
	SubheadingGap float64
	BlankGap      float64 // 空行推进的高度
	GrowLines     int     // 画布不足时一次增加的行数

	MarkerIndent     float64
	MarkerRadius     float64
	HighlightPadding float64

	Decorations Decorations
	Palette     Palette
	Footer      Footer

	TitleMarkers    []string
	WarningKeywords []string
}

// Style 是某一类别的文字样式。
type Style struct {
	FontSize   float64 `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
	Weight     Weight  `json:"weight"`
	Color      Color   `json:"color"`
}

// Decorations 控制各类装饰图元是否输出。
type Decorations struct {
	Highlight  bool // 标题背后的高亮矩形
	Markers    bool // 项目符号与提示行左侧的圆点
	Separators bool // 标题下方的分隔线
	Background bool // 整个画布的背景矩形
}

// Palette 是装饰图元使用的颜色。
type Palette struct {
	Background    Color
	Border        Color
	Highlight     Color
	Separator     Color
	Marker        Color
	WarningMarker Color
	WarningGlyph  Color
}

// Footer 描述页脚分隔线与页码文字。
type Footer struct {
	Template  string
	FontSize  float64
	Color     Color
	LineColor Color
}

// Profile names.
const (
	ProfileDecorated = "decorated"
	ProfilePlain     = "plain"
)

var builtinProfiles = map[string]func() Profile{
	ProfileDecorated: DecoratedProfile,
	ProfilePlain:     PlainProfile,
}

// BuiltinProfile 按名称返回内置配置的新副本。
func BuiltinProfile(name string) (Profile, bool) {
	fn, ok := builtinProfiles[name]
	if !ok {
		return Profile{}, false
	}
	return fn(), true
}

// BuiltinProfileNames 返回内置配置名称（已排序）。
func BuiltinProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultPage 是 A4 纵向（pt）。
var DefaultPage = PageSize{Width: 595, Height: 842}

var (
	textColor    = Color{R: 51, G: 51, B: 51}
	accentColor  = Color{R: 0, G: 122, B: 204}
	mutedColor   = Color{R: 102, G: 102, B: 102}
	warningColor = Color{R: 180, G: 83, B: 9}
)

// DecoratedProfile 返回带标题高亮、圆点标记与分隔线的默认配置。
func DecoratedProfile() Profile {
	return Profile{
		Name:       ProfileDecorated,
		Page:       DefaultPage,
		Margin:     Margin{Top: 50, Right: 50, Bottom: 50, Left: 50},
		FontFamily: "Microsoft YaHei, PingFang TC, sans-serif",
		Styles: map[classify.Category]Style{
			classify.Title:       {FontSize: 18, LineHeight: 28, Weight: WeightBold, Color: Color{R: 26, G: 60, B: 110}},
			classify.Subheading:  {FontSize: 16, LineHeight: 26, Weight: WeightBold, Color: textColor},
			classify.BulletPoint: {FontSize: 14, LineHeight: 24, Weight: WeightNormal, Color: textColor},
			classify.Warning:     {FontSize: 14, LineHeight: 24, Weight: WeightBold, Color: warningColor},
			classify.Body:        {FontSize: 14, LineHeight: 24, Weight: WeightNormal, Color: textColor},
		},
		TitleGap:         10,
		SubheadingGap:    6,
		BlankGap:         8,
		GrowLines:        10,
		MarkerIndent:     16,
		MarkerRadius:     3,
		HighlightPadding: 4,
		Decorations:      Decorations{Highlight: true, Markers: true, Separators: true, Background: true},
		Palette: Palette{
			Background:    Color{R: 255, G: 255, B: 255},
			Border:        Color{R: 221, G: 221, B: 221},
			Highlight:     Color{R: 230, G: 242, B: 250},
			Separator:     accentColor,
			Marker:        accentColor,
			WarningMarker: warningColor,
			WarningGlyph:  Color{R: 255, G: 255, B: 255},
		},
		Footer: Footer{
			Template:  "${page.number} / ${page.count}",
			FontSize:  10,
			Color:     mutedColor,
			LineColor: Color{R: 221, G: 221, B: 221},
		},
	}
}

// PlainProfile 只按类别调整字号字重，不输出装饰图元（背景除外）。
func PlainProfile() Profile {
	p := DecoratedProfile()
	p.Name = ProfilePlain
	p.Styles = map[classify.Category]Style{
		classify.Title:       {FontSize: 18, LineHeight: 24, Weight: WeightBold, Color: textColor},
		classify.Subheading:  {FontSize: 14, LineHeight: 24, Weight: WeightNormal, Color: textColor},
		classify.BulletPoint: {FontSize: 14, LineHeight: 24, Weight: WeightNormal, Color: textColor},
		classify.Warning:     {FontSize: 14, LineHeight: 24, Weight: WeightNormal, Color: textColor},
		classify.Body:        {FontSize: 14, LineHeight: 24, Weight: WeightNormal, Color: textColor},
	}
	p.SubheadingGap = 0
	p.Decorations = Decorations{Background: true}
	return p
}

// Style 返回类别对应的样式，未配置时退回 Body。
func (p *Profile) Style(c classify.Category) Style {
	if s, ok := p.Styles[c]; ok {
		return s
	}
	return p.Styles[classify.Body]
}

// ContentWidth 是页面宽度减去左右边距。
func (p *Profile) ContentWidth() float64 {
	return p.Page.Width - p.Margin.Left - p.Margin.Right
}

// Clone 返回深拷贝，修改副本不会影响原配置。
func (p Profile) Clone() Profile {
	styles := make(map[classify.Category]Style, len(p.Styles))
	for k, v := range p.Styles {
		styles[k] = v
	}
	p.Styles = styles
	p.TitleMarkers = append([]string(nil), p.TitleMarkers...)
	p.WarningKeywords = append([]string(nil), p.WarningKeywords...)
	return p
}

// Validate 检查配置能否用于排版。所有长度都必须是有限数。
func (p *Profile) Validate() error {
	var errs []error
	pageOK := isFinite(p.Page.Width, p.Page.Height) && p.Page.Width > 0 && p.Page.Height > 0
	if !pageOK {
		errs = append(errs, fmt.Errorf("页面尺寸无效: %gx%g", p.Page.Width, p.Page.Height))
	}
	m := p.Margin
	marginOK := isFinite(m.Top, m.Right, m.Bottom, m.Left)
	switch {
	case !marginOK:
		errs = append(errs, fmt.Errorf("边距必须为有限数: %g/%g/%g/%g", m.Top, m.Right, m.Bottom, m.Left))
	case m.Top < 0 || m.Bottom < 0:
		errs = append(errs, fmt.Errorf("上下边距不能为负"))
	}
	if pageOK && marginOK && p.ContentWidth() <= 0 {
		errs = append(errs, fmt.Errorf("内容宽度无效: 页面宽 %g，左右边距 %g/%g", p.Page.Width, m.Left, m.Right))
	}
	if _, ok := p.Styles[classify.Body]; !ok {
		errs = append(errs, fmt.Errorf("缺少 Body 样式"))
	}
	for c, s := range p.Styles {
		if !isFinite(s.FontSize, s.LineHeight) || s.FontSize <= 0 || s.LineHeight <= 0 {
			errs = append(errs, fmt.Errorf("%s 样式的字号与行高必须为正数", c))
		}
	}
	if !isFinite(p.Footer.FontSize) || p.Footer.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("页脚字号必须为正数"))
	}
	if p.GrowLines <= 0 {
		errs = append(errs, fmt.Errorf("grow-lines 必须为正数"))
	}
	if !isFinite(p.BlankGap, p.TitleGap, p.SubheadingGap) || p.BlankGap < 0 || p.TitleGap < 0 || p.SubheadingGap < 0 {
		errs = append(errs, fmt.Errorf("间距必须为非负的有限数"))
	}
	if !isFinite(p.MarkerRadius, p.HighlightPadding) || p.MarkerRadius < 0 || p.HighlightPadding < 0 {
		errs = append(errs, fmt.Errorf("标记半径与高亮内边距必须为非负的有限数"))
	}
	if !isFinite(p.MarkerIndent) || p.MarkerIndent < 0 {
		errs = append(errs, fmt.Errorf("marker-indent 必须为非负的有限数"))
	} else if pageOK && marginOK && p.MarkerIndent >= p.ContentWidth() {
		// 缩进吃掉整行时项目与提示行无法折行。
		errs = append(errs, fmt.Errorf("marker-indent %g 必须小于内容宽度 %g", p.MarkerIndent, p.ContentWidth()))
	}
	return errors.Join(errs...)
}
