// Package wrap 按启发式字宽将一行文本切分为不超过内容宽度的片段。
//
// 字宽不依赖字体度量，而是按字符所属档位估算（宽/空白/中/窄四档），
// 以保证相同输入在任何环境下得到相同的排版结果。
package wrap

import (
	"unicode"

	"golang.org/x/text/width"
)

// Tier 表示字符宽度档位。
type Tier int

const (
	Wide Tier = iota
	Space
	Medium
	Narrow
)

func (t Tier) String() string {
	switch t {
	case Wide:
		return "wide"
	case Space:
		return "space"
	case Medium:
		return "medium"
	default:
		return "narrow"
	}
}

// tierRule 是档位表中的一项：Factor 乘以字号即该字符的估算宽度。
type tierRule struct {
	Tier   Tier
	Factor float64
	Match  func(rune) bool
}

// 按顺序匹配，最后一项兜底。
var tiers = []tierRule{
	{Tier: Wide, Factor: 1.0, Match: isWide},
	{Tier: Space, Factor: 0.3, Match: unicode.IsSpace},
	{Tier: Medium, Factor: 0.6, Match: func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }},
	{Tier: Narrow, Factor: 0.4, Match: func(rune) bool { return true }},
}

func isWide(r rune) bool {
	if unicode.Is(unicode.Han, r) {
		return true
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// Classify 返回字符所属的档位。
func Classify(r rune) Tier {
	return lookup(r).Tier
}

func lookup(r rune) tierRule {
	for _, t := range tiers {
		if t.Match(r) {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// RuneWidth 返回单个字符在给定字号下的估算宽度。
func RuneWidth(r rune, fontSize float64) float64 {
	return lookup(r).Factor * fontSize
}

// Measure 返回整段文本的估算宽度。
func Measure(text string, fontSize float64) float64 {
	total := 0.0
	for _, r := range text {
		total += RuneWidth(r, fontSize)
	}
	return total
}

// Segment 是切分后的一段文本及其估算宽度。
type Segment struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// Wrapper 是无状态的贪心折行器。
type Wrapper struct{}

// New 返回默认折行器。
func New() Wrapper { return Wrapper{} }

// Wrap 逐字符累计宽度，超出 maxWidth 且当前片段非空时另起一段。
// 片段是原文的字节切片，非法 UTF-8 原样保留，交由序列化时处理。
// 空文本返回一个空片段；maxWidth <= 0 时不折行。
func (Wrapper) Wrap(text string, fontSize, maxWidth float64) []Segment {
	if text == "" {
		return []Segment{{Text: "", Width: 0}}
	}
	if maxWidth <= 0 {
		return []Segment{{Text: text, Width: Measure(text, fontSize)}}
	}

	var segments []Segment
	start := 0
	current := 0.0
	for i, r := range text {
		w := RuneWidth(r, fontSize)
		if i > start && current+w > maxWidth {
			segments = append(segments, Segment{Text: text[start:i], Width: current})
			start = i
			current = 0
		}
		current += w
	}
	segments = append(segments, Segment{Text: text[start:], Width: current})
	return segments
}
