package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// 该文件定义行分类规则表：按顺序匹配，第一个命中的规则决定类别，Body 为兜底。

// Category 是一行文本的语义类别，决定其排版样式。
type Category int

const (
	Body Category = iota
	Title
	Subheading
	BulletPoint
	Warning
)

// String 返回类别名称，与配置文件中的 style 名称一致。
func (c Category) String() string {
	switch c {
	case Title:
		return "Title"
	case Subheading:
		return "Subheading"
	case BulletPoint:
		return "BulletPoint"
	case Warning:
		return "Warning"
	default:
		return "Body"
	}
}

// MarshalText 使类别在调试 JSON 中以名称输出。
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ParseCategory 将名称解析为类别，大小写不敏感；未知名称返回 false。
func ParseCategory(name string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title":
		return Title, true
	case "subheading":
		return Subheading, true
	case "bulletpoint", "bullet":
		return BulletPoint, true
	case "warning":
		return Warning, true
	case "body":
		return Body, true
	default:
		return Body, false
	}
}

// Line 是原文中的一行及其序号，提取后不可变。
type Line struct {
	Text  string
	Index int
}

// DefaultTitleMarker 是整篇文档首行使用的标题标记。
const DefaultTitleMarker = "翻譯文檔"

// DefaultWarningKeywords 为提示类关键词。
var DefaultWarningKeywords = []string{"注意", "重要", "警告", "notice", "important", "warning", "caution"}

var (
	numberedTitlePattern = regexp.MustCompile(`^\d+\. `)
	cjkOrdinalPattern    = regexp.MustCompile(`^[一二三四五六七八九十百]+[.．、]`)
	latinOrdinalPattern  = regexp.MustCompile(`^[A-Z]\. `)
	bulletPattern        = regexp.MustCompile(`^\s*- `)
)

// Rule 是规则表中的一项。
type Rule struct {
	Name     string
	Category Category
	Match    func(Line) bool
}

// Options 可替换标题标记与提示关键词；为空时使用默认值。
type Options struct {
	TitleMarkers    []string
	WarningKeywords []string
}

// Classifier 持有只读的规则表，构造后可并发使用。
type Classifier struct {
	rules []Rule
}

// New 根据选项构造规则表。
func New(opts Options) *Classifier {
	markers := nonEmpty(opts.TitleMarkers)
	if len(markers) == 0 {
		markers = []string{DefaultTitleMarker}
	}
	keywords := nonEmpty(opts.WarningKeywords)
	if len(keywords) == 0 {
		keywords = DefaultWarningKeywords
	}
	folder := cases.Fold()
	folded := make([]string, len(keywords))
	for i, kw := range keywords {
		folded[i] = folder.String(norm.NFC.String(kw))
	}

	return &Classifier{rules: []Rule{
		{Name: "numbered-title", Category: Title, Match: func(l Line) bool {
			return numberedTitlePattern.MatchString(l.Text)
		}},
		{Name: "title-marker", Category: Title, Match: func(l Line) bool {
			return matchTitleMarker(l, markers)
		}},
		{Name: "cjk-ordinal", Category: Subheading, Match: func(l Line) bool {
			return cjkOrdinalPattern.MatchString(l.Text)
		}},
		{Name: "latin-ordinal", Category: Subheading, Match: func(l Line) bool {
			return latinOrdinalPattern.MatchString(l.Text)
		}},
		{Name: "notice-keyword", Category: Warning, Match: func(l Line) bool {
			// 每次调用新建 Caser：cases.Caser 不能并发复用。
			text := cases.Fold().String(norm.NFC.String(l.Text))
			for _, kw := range folded {
				if strings.Contains(text, kw) {
					return true
				}
			}
			return false
		}},
		{Name: "dash-bullet", Category: BulletPoint, Match: func(l Line) bool {
			return bulletPattern.MatchString(l.Text)
		}},
	}}
}

// Default 返回使用默认标记与关键词的分类器。
func Default() *Classifier { return New(Options{}) }

// Classify 返回第一个命中规则的类别；都未命中时为 Body。
func (c *Classifier) Classify(l Line) Category {
	for _, r := range c.rules {
		if r.Match(l) {
			return r.Category
		}
	}
	return Body
}

// Rules 返回规则表副本，便于逐条测试。
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// StripBullet 去掉项目符号行开头的空白与 "- " 标记，非项目符号行原样返回。
func StripBullet(text string) string {
	loc := bulletPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[loc[1]:]
}

func matchTitleMarker(l Line, markers []string) bool {
	trimmed := strings.TrimSpace(l.Text)
	for _, m := range markers {
		if trimmed == m {
			return true
		}
		if l.Index == 0 && (strings.HasPrefix(trimmed, m+"：") || strings.HasPrefix(trimmed, m+":")) {
			return true
		}
	}
	return false
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
