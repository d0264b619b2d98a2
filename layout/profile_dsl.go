package layout

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/vellum/classify"
	"github.com/ByLCY/vellum/dsl"
)

// ParseProfile 解析配置文件：以 Base 指定的内置配置为起点，逐条覆盖。
func ParseProfile(r io.Reader) (Profile, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return Profile{}, fmt.Errorf("解析配置失败: %w", err)
	}
	return applyDocument(doc)
}

// LoadProfile 接受内置配置名称或配置文件路径。
func LoadProfile(nameOrPath string) (Profile, error) {
	if nameOrPath == "" {
		return DecoratedProfile(), nil
	}
	if p, ok := BuiltinProfile(nameOrPath); ok {
		return p, nil
	}
	file, err := os.Open(nameOrPath)
	if err != nil {
		return Profile{}, fmt.Errorf("无法打开配置文件 %s（内置配置：%s）: %w", nameOrPath, strings.Join(BuiltinProfileNames(), ", "), err)
	}
	defer file.Close()
	return ParseProfile(file)
}

func applyDocument(doc *dsl.Document) (Profile, error) {
	p, ok := BuiltinProfile(doc.Base)
	if !ok {
		return Profile{}, fmt.Errorf("未知的内置配置 %q", doc.Base)
	}
	p.Name = doc.Base
	for _, st := range doc.Block.Statements {
		var err error
		switch {
		case st.Assignment != nil:
			err = applyTopLevel(&p, st.Assignment)
		case st.Command != nil:
			err = applySection(&p, st.Command)
		default:
			err = fmt.Errorf("配置顶层不允许出现文本")
		}
		if err != nil {
			return Profile{}, err
		}
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func applyTopLevel(p *Profile, a *dsl.Assignment) error {
	switch a.Key {
	case "name":
		p.Name = a.Value.Text()
	case "font-family":
		p.FontFamily = a.Value.Text()
	default:
		return unknownKey("profile", a)
	}
	return nil
}

func applySection(p *Profile, cmd *dsl.Command) error {
	switch cmd.Name {
	case "page":
		return eachAssignment(cmd, func(a *dsl.Assignment) error { return applyPage(p, a) })
	case "flow":
		return eachAssignment(cmd, func(a *dsl.Assignment) error { return applyFlow(p, a) })
	case "decorate":
		return eachAssignment(cmd, func(a *dsl.Assignment) error { return applyDecorate(p, a) })
	case "palette":
		return eachAssignment(cmd, func(a *dsl.Assignment) error { return applyPalette(p, a) })
	case "style":
		return applyStyle(p, cmd)
	case "footer":
		return applyFooter(p, cmd)
	case "classify":
		return eachAssignment(cmd, func(a *dsl.Assignment) error {
			switch a.Key {
			case "title-markers":
				p.TitleMarkers = a.Value.Strings()
			case "warning-keywords":
				p.WarningKeywords = a.Value.Strings()
			default:
				return unknownKey("classify", a)
			}
			return nil
		})
	default:
		return fmt.Errorf("%s: 未知的配置段 %s", cmd.Pos, cmd.Name)
	}
}

func eachAssignment(cmd *dsl.Command, fn func(*dsl.Assignment) error) error {
	for _, st := range cmd.Block.Statements {
		if st.Assignment == nil {
			return fmt.Errorf("%s: %s 段只允许 key: value 形式", cmd.Pos, cmd.Name)
		}
		if err := fn(st.Assignment); err != nil {
			return err
		}
	}
	return nil
}

func applyPage(p *Profile, a *dsl.Assignment) error {
	switch a.Key {
	case "width":
		return setLength(&p.Page.Width, a)
	case "height":
		return setLength(&p.Page.Height, a)
	case "margin":
		m, err := resolveMargin(a.Value.Strings())
		if err != nil {
			return fmt.Errorf("%s: margin: %w", a.Pos, err)
		}
		p.Margin = m
	case "margin-top":
		return setLength(&p.Margin.Top, a)
	case "margin-right":
		return setLength(&p.Margin.Right, a)
	case "margin-bottom":
		return setLength(&p.Margin.Bottom, a)
	case "margin-left":
		return setLength(&p.Margin.Left, a)
	default:
		return unknownKey("page", a)
	}
	return nil
}

func applyFlow(p *Profile, a *dsl.Assignment) error {
	switch a.Key {
	case "title-gap":
		return setLength(&p.TitleGap, a)
	case "subheading-gap":
		return setLength(&p.SubheadingGap, a)
	case "blank-gap":
		return setLength(&p.BlankGap, a)
	case "marker-indent":
		return setLength(&p.MarkerIndent, a)
	case "marker-radius":
		return setLength(&p.MarkerRadius, a)
	case "highlight-padding":
		return setLength(&p.HighlightPadding, a)
	case "grow-lines":
		n, err := strconv.Atoi(a.Value.Text())
		if err != nil {
			return fmt.Errorf("%s: grow-lines 需要整数: %w", a.Pos, err)
		}
		p.GrowLines = n
	default:
		return unknownKey("flow", a)
	}
	return nil
}

func applyDecorate(p *Profile, a *dsl.Assignment) error {
	var target *bool
	switch a.Key {
	case "highlight":
		target = &p.Decorations.Highlight
	case "markers":
		target = &p.Decorations.Markers
	case "separators":
		target = &p.Decorations.Separators
	case "background":
		target = &p.Decorations.Background
	default:
		return unknownKey("decorate", a)
	}
	v, err := strconv.ParseBool(a.Value.Text())
	if err != nil {
		return fmt.Errorf("%s: %s 需要 true/false: %w", a.Pos, a.Key, err)
	}
	*target = v
	return nil
}

func applyPalette(p *Profile, a *dsl.Assignment) error {
	var target *Color
	switch a.Key {
	case "background":
		target = &p.Palette.Background
	case "border":
		target = &p.Palette.Border
	case "highlight":
		target = &p.Palette.Highlight
	case "separator":
		target = &p.Palette.Separator
	case "marker":
		target = &p.Palette.Marker
	case "warning-marker":
		target = &p.Palette.WarningMarker
	case "warning-glyph":
		target = &p.Palette.WarningGlyph
	default:
		return unknownKey("palette", a)
	}
	return setColor(target, a)
}

func applyStyle(p *Profile, cmd *dsl.Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("%s: style 需要一个类别名称", cmd.Pos)
	}
	cat, ok := classify.ParseCategory(cmd.Args[0].Text())
	if !ok {
		return fmt.Errorf("%s: 未知的类别 %s", cmd.Pos, cmd.Args[0].Text())
	}
	style := p.Style(cat)
	var lineHeight *LineHeightSpec
	err := eachAssignment(cmd, func(a *dsl.Assignment) error {
		switch a.Key {
		case "size":
			return setLength(&style.FontSize, a)
		case "weight":
			switch w := Weight(strings.ToLower(a.Value.Text())); w {
			case WeightNormal, WeightBold:
				style.Weight = w
			default:
				return fmt.Errorf("%s: 未知的字重 %s", a.Pos, a.Value.Text())
			}
		case "color":
			return setColor(&style.Color, a)
		case "line-height":
			spec, err := ParseLineHeight(a.Value.Text())
			if err != nil {
				return fmt.Errorf("%s: %w", a.Pos, err)
			}
			lineHeight = &spec
		default:
			return unknownKey("style", a)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// 倍数行高依赖最终字号，放在所有赋值之后解析。
	if lineHeight != nil {
		style.LineHeight = lineHeight.Resolve(style.FontSize)
	}
	p.Styles[cat] = style
	return nil
}

func applyFooter(p *Profile, cmd *dsl.Command) error {
	for _, st := range cmd.Block.Statements {
		if st.Text != nil {
			p.Footer.Template = string(st.Text.Value)
			continue
		}
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("%s: footer 段只允许文本或 key: value", cmd.Pos)
		}
		var err error
		switch a.Key {
		case "text":
			p.Footer.Template = a.Value.Text()
		case "size":
			err = setLength(&p.Footer.FontSize, a)
		case "color":
			err = setColor(&p.Footer.Color, a)
		case "line-color":
			err = setColor(&p.Footer.LineColor, a)
		default:
			err = unknownKey("footer", a)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveMargin 支持 1 个（四边）、2 个（上下 左右）、3 个（上 左右 下）、4 个（上 右 下 左）值。
func resolveMargin(values []string) (Margin, error) {
	var nums []float64
	for _, v := range values {
		l, err := ParseLength(v)
		if err != nil {
			return Margin{}, err
		}
		nums = append(nums, l.ToPT())
	}
	switch len(nums) {
	case 1:
		return Margin{Top: nums[0], Right: nums[0], Bottom: nums[0], Left: nums[0]}, nil
	case 2:
		return Margin{Top: nums[0], Right: nums[1], Bottom: nums[0], Left: nums[1]}, nil
	case 3:
		return Margin{Top: nums[0], Right: nums[1], Bottom: nums[2], Left: nums[1]}, nil
	case 4:
		return Margin{Top: nums[0], Right: nums[1], Bottom: nums[2], Left: nums[3]}, nil
	default:
		return Margin{}, fmt.Errorf("需要 1 到 4 个值，实际 %d 个", len(nums))
	}
}

func setLength(target *float64, a *dsl.Assignment) error {
	l, err := ParseLength(a.Value.Text())
	if err != nil {
		return fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
	}
	*target = l.ToPT()
	return nil
}

func setColor(target *Color, a *dsl.Assignment) error {
	c, err := ParseColor(a.Value.Text())
	if err != nil {
		return fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
	}
	*target = c
	return nil
}

func unknownKey(section string, a *dsl.Assignment) error {
	return fmt.Errorf("%s: %s 段不支持的配置项 %s", a.Pos, section, a.Key)
}
