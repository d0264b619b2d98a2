package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/vellum/classify"
)

// 该文件定义布局结果：按绘制顺序排列的图元、画布尺寸与文档元信息，供渲染器与调试 JSON 共用。

// Kind 标识图元类型。
type Kind string

const (
	KindRect   Kind = "rect"
	KindText   Kind = "text"
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
)

// Primitive 是一条绘制指令，只有本包中的四种类型实现该接口。
type Primitive interface {
	Kind() Kind
	primitive()
}

// Weight 是字重。
type Weight string

const (
	WeightNormal Weight = "normal"
	WeightBold   Weight = "bold"
)

// Anchor 是文本的水平锚点。
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex 返回 #rrggbb 形式。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.R), clampByte(c.G), clampByte(c.B))
}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（忽略透明度）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Rect 表示一个矩形，Role 标记用途（background/highlight）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Radius      float64 `json:"radius,omitempty"`
	Fill        *Color  `json:"fill,omitempty"` // 为空表示不填充
	Stroke      *Color  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Role        string  `json:"role,omitempty"`
}

// TextRun 是一段已定位的单行文本，Y 为基线坐标。
type TextRun struct {
	Content    string            `json:"content"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Width      float64           `json:"width"`
	FontSize   float64           `json:"fontSize"`
	FontFamily string            `json:"fontFamily,omitempty"`
	Weight     Weight            `json:"weight"`
	Color      Color             `json:"color"`
	Anchor     Anchor            `json:"anchor"`
	Category   classify.Category `json:"category"`
	Line       int               `json:"line"` // 来源行号，页脚为 -1
}

// StraightLine 表示一条线段，Role 标记用途（separator/footer）。
type StraightLine struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
	Role  string  `json:"role,omitempty"`
}

// Circle 表示一个实心圆，Glyph 非空时在圆心绘制该字符。
type Circle struct {
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	R          float64 `json:"r"`
	Fill       Color   `json:"fill"`
	Glyph      string  `json:"glyph,omitempty"`
	GlyphColor Color   `json:"glyphColor"`
	GlyphSize  float64 `json:"glyphSize,omitempty"`
	Role       string  `json:"role,omitempty"`
}

func (*Rect) Kind() Kind         { return KindRect }
func (*TextRun) Kind() Kind      { return KindText }
func (*StraightLine) Kind() Kind { return KindLine }
func (*Circle) Kind() Kind       { return KindCircle }

func (*Rect) primitive()         {}
func (*TextRun) primitive()      {}
func (*StraightLine) primitive() {}
func (*Circle) primitive()       {}

// Canvas 是可纵向增长的绘制区域；Height 只增不减。
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageSize 是名义页面尺寸（pt）。
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Document 是布局结果：按绘制顺序排列的图元与最终画布。
type Document struct {
	Primitives []Primitive
	Canvas     Canvas
	Page       PageSize
	Cursor     float64 // 排版结束时的光标位置
	Growths    int     // 画布增高次数
}

// TextRuns 返回全部文本图元，顺序与绘制顺序一致。
func (d *Document) TextRuns() []*TextRun {
	var out []*TextRun
	for _, p := range d.Primitives {
		if t, ok := p.(*TextRun); ok {
			out = append(out, t)
		}
	}
	return out
}

// Count 返回某类图元的数量。
func (d *Document) Count(kind Kind) int {
	n := 0
	for _, p := range d.Primitives {
		if p.Kind() == kind {
			n++
		}
	}
	return n
}

// MarshalJSON 为每个图元附加 kind 标签，便于调试时区分类型。
func (d Document) MarshalJSON() ([]byte, error) {
	type entry struct {
		Kind Kind      `json:"kind"`
		Data Primitive `json:"data"`
	}
	entries := make([]entry, len(d.Primitives))
	for i, p := range d.Primitives {
		entries[i] = entry{Kind: p.Kind(), Data: p}
	}
	return json.Marshal(struct {
		Canvas     Canvas   `json:"canvas"`
		Page       PageSize `json:"page"`
		Cursor     float64  `json:"cursor"`
		Growths    int      `json:"growths"`
		Primitives []entry  `json:"primitives"`
	}{d.Canvas, d.Page, d.Cursor, d.Growths, entries})
}

// Meta 记录输出文件的描述信息。
type Meta struct {
	ID          string    `json:"id"`
	SourceName  string    `json:"sourceName"`
	GeneratedAt time.Time `json:"generatedAt"`
	Format      string    `json:"format"`
}

// Container 是交给渲染器的完整输入。
type Container struct {
	Document *Document `json:"document"`
	Meta     Meta      `json:"meta"`
}
