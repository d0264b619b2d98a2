package svgrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/vellum/layout"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// glyphBaselineShift 把圆内字符的基线下移，使其视觉居中。
const glyphBaselineShift = 0.35

// writeSVG 按绘制顺序输出图元，坐标与画布一致（pt 直接作为用户单位）。
func writeSVG(buf *bytes.Buffer, doc *layout.Document, class string) {
	w, h := num(doc.Canvas.Width), num(doc.Canvas.Height)
	buf.WriteString(`<svg`)
	if class != "" {
		attr(buf, "class", class)
	}
	attr(buf, "xmlns", svgNamespace)
	attr(buf, "width", w)
	attr(buf, "height", h)
	attr(buf, "viewBox", "0 0 "+w+" "+h)
	buf.WriteString(">\n")

	for _, p := range doc.Primitives {
		switch v := p.(type) {
		case *layout.Rect:
			writeRect(buf, v)
		case *layout.TextRun:
			writeText(buf, v)
		case *layout.StraightLine:
			writeLine(buf, v)
		case *layout.Circle:
			writeCircle(buf, v)
		}
	}
	buf.WriteString("</svg>")
}

func writeRect(buf *bytes.Buffer, r *layout.Rect) {
	buf.WriteString("  <rect")
	attr(buf, "class", r.Role)
	attr(buf, "x", num(r.X))
	attr(buf, "y", num(r.Y))
	attr(buf, "width", num(r.Width))
	attr(buf, "height", num(r.Height))
	if r.Radius > 0 {
		attr(buf, "rx", num(r.Radius))
		attr(buf, "ry", num(r.Radius))
	}
	if r.Fill != nil {
		attr(buf, "fill", r.Fill.Hex())
	} else {
		attr(buf, "fill", "none")
	}
	if r.Stroke != nil {
		attr(buf, "stroke", r.Stroke.Hex())
		attr(buf, "stroke-width", num(r.StrokeWidth))
	}
	buf.WriteString("/>\n")
}

func writeText(buf *bytes.Buffer, t *layout.TextRun) {
	class := "run"
	if t.Line < 0 {
		class = "footer"
	}
	buf.WriteString("  <text")
	attr(buf, "class", class)
	attr(buf, "x", num(t.X))
	attr(buf, "y", num(t.Y))
	if t.FontFamily != "" {
		attr(buf, "font-family", t.FontFamily)
	}
	attr(buf, "font-size", num(t.FontSize))
	attr(buf, "font-weight", string(t.Weight))
	attr(buf, "fill", t.Color.Hex())
	if t.Anchor != "" && t.Anchor != layout.AnchorStart {
		attr(buf, "text-anchor", string(t.Anchor))
	}
	attr(buf, "data-category", t.Category.String())
	attr(buf, "data-line", strconv.Itoa(t.Line))
	attr(buf, "xml:space", "preserve")
	buf.WriteByte('>')
	buf.WriteString(escapeXML(t.Content))
	buf.WriteString("</text>\n")
}

func writeLine(buf *bytes.Buffer, l *layout.StraightLine) {
	buf.WriteString("  <line")
	attr(buf, "class", l.Role)
	attr(buf, "x1", num(l.X1))
	attr(buf, "y1", num(l.Y1))
	attr(buf, "x2", num(l.X2))
	attr(buf, "y2", num(l.Y2))
	attr(buf, "stroke", l.Color.Hex())
	attr(buf, "stroke-width", num(l.Width))
	buf.WriteString("/>\n")
}

func writeCircle(buf *bytes.Buffer, c *layout.Circle) {
	buf.WriteString("  <circle")
	attr(buf, "class", c.Role)
	attr(buf, "cx", num(c.CX))
	attr(buf, "cy", num(c.CY))
	attr(buf, "r", num(c.R))
	attr(buf, "fill", c.Fill.Hex())
	buf.WriteString("/>\n")
	if c.Glyph == "" {
		return
	}
	buf.WriteString("  <text")
	attr(buf, "class", "glyph")
	attr(buf, "x", num(c.CX))
	attr(buf, "y", num(c.CY+c.GlyphSize*glyphBaselineShift))
	attr(buf, "font-size", num(c.GlyphSize))
	attr(buf, "font-weight", string(layout.WeightBold))
	attr(buf, "fill", c.GlyphColor.Hex())
	attr(buf, "text-anchor", string(layout.AnchorMiddle))
	buf.WriteByte('>')
	buf.WriteString(escapeXML(c.Glyph))
	buf.WriteString("</text>\n")
}

func attr(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, ` %s="%s"`, name, escapeXML(value))
}

// num 保留两位小数并去掉多余的零。
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // 去掉 -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// escapeXML 转义五个 XML 特殊字符，丢弃除制表符外的控制字符、
// 非法 UTF-8 字节以及 XML 不允许的非字符。
func escapeXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			continue
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case r == '"':
			b.WriteString("&quot;")
		case r == '\'':
			b.WriteString("&apos;")
		case r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r), r == 0xFFFE, r == 0xFFFF:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
