package svgrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/renderer"
)

// Labels 是 HTML 容器中的固定文案。
type Labels struct {
	Heading     string // 页眉标题
	FormatNote  string // 接在页眉标题与页脚说明之后，%s 为大写的输出格式
	TitlePrefix string // <title> 前缀，后接来源文件名
	Source      string // 来源文件名前的标签
	Translated  string // 生成时间前的标签
	Generator   string // 页脚说明
	Generated   string // 页脚时间前的标签
	DocumentID  string // 页脚文档编号前的标签
}

// DefaultLabels 使用繁体中文文案。
var DefaultLabels = Labels{
	Heading:     "PDF 翻譯文檔",
	FormatNote:  " (%s格式)",
	TitlePrefix: "SVG 翻譯文檔 - ",
	Source:      "原始文件：",
	Translated:  "翻譯時間：",
	Generator:   "此文檔由 PDF 翻譯工具生成",
	Generated:   "生成時間：",
	DocumentID:  "文檔編號：",
}

const containerCSS = `
body {
  margin: 0;
  padding: 20px;
  font-family: 'Microsoft YaHei', sans-serif;
  background: #f5f5f5;
}
.page-container {
  max-width: %spx;
  margin: 0 auto;
  background: white;
  box-shadow: 0 2px 10px rgba(0,0,0,0.1);
}
.svg-page {
  width: 100%%;
  height: auto;
  display: block;
}
.header {
  text-align: center;
  padding: 20px;
  background: #007acc;
  color: white;
}
.footer {
  text-align: center;
  padding: 10px;
  background: #f8f9fa;
  font-size: 12px;
  color: #666;
}
@media print {
  body { margin: 0; padding: 0; background: white; }
  .page-container { box-shadow: none; max-width: none; }
}
`

// formatNote 按 Meta.Format 填写格式说明，未记录格式时视为 svg。
func (l Labels) formatNote(format string) string {
	if l.FormatNote == "" {
		return ""
	}
	if format == "" {
		format = renderer.FormatSVG
	}
	return fmt.Sprintf(l.FormatNote, strings.ToUpper(format))
}

// headerTimeLayout 是页眉中的本地时间格式。
const headerTimeLayout = "2006/1/2 15:04:05"

// buildContainer 组装 HTML 节点树；SVG 以原始节点嵌入，其余文本由 html.Render 转义。
func (r *Renderer) buildContainer(c *layout.Container, svg []byte) *html.Node {
	labels := r.opts.Labels
	meta := c.Meta
	note := labels.formatNote(meta.Format)
	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Unix(0, 0).UTC()
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attribute("lang", r.opts.Lang))
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attribute("charset", "UTF-8")))
	head.AppendChild(element(atom.Meta,
		attribute("name", "viewport"),
		attribute("content", "width=device-width, initial-scale=1.0")))
	head.AppendChild(withText(element(atom.Title), labels.TitlePrefix+meta.SourceName))
	head.AppendChild(withText(element(atom.Style), fmt.Sprintf(containerCSS, num(c.Document.Canvas.Width))))
	root.AppendChild(head)

	body := element(atom.Body)
	page := element(atom.Div, attribute("class", "page-container"))

	header := element(atom.Div, attribute("class", "header"))
	header.AppendChild(withText(element(atom.H1), labels.Heading+note))
	header.AppendChild(withText(element(atom.P), labels.Source+meta.SourceName))
	header.AppendChild(withText(element(atom.P), labels.Translated+generated.In(r.opts.Location).Format(headerTimeLayout)))
	page.AppendChild(header)

	page.AppendChild(&html.Node{Type: html.RawNode, Data: string(svg)})

	footer := element(atom.Div, attribute("class", "footer"))
	footer.AppendChild(withText(element(atom.P),
		labels.Generator+note+" | "+labels.Generated+generated.UTC().Format(time.RFC3339)))
	if meta.ID != "" {
		footer.AppendChild(withText(element(atom.P, attribute("class", "document-id")), labels.DocumentID+meta.ID))
	}
	page.AppendChild(footer)

	body.AppendChild(page)
	root.AppendChild(body)
	return doc
}

func renderContainer(doc *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("写入 HTML 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attribute(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
