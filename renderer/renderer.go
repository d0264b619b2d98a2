package renderer

import "github.com/ByLCY/vellum/layout"

// Output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Artifact 是渲染器的输出：文件内容及其 MIME 类型与扩展名。
type Artifact struct {
	Bytes       []byte
	ContentType string
	Extension   string
}

// Renderer 将布局结果输出为最终文件，例如带 SVG 的 HTML 或 PDF。
type Renderer interface {
	Render(c *layout.Container) (*Artifact, error)
}
