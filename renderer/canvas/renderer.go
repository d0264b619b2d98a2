package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/renderer"
)

// ContentTypePDF is the MIME type of the rendered artifact.
const ContentTypePDF = "application/pdf"

// DefaultSystemFonts 是未指定字体文件时依次尝试的系统字体。
var DefaultSystemFonts = []string{
	"Noto Sans CJK TC",
	"Noto Sans TC",
	"Microsoft YaHei",
	"PingFang TC",
	"DejaVu Sans",
}

const glyphBaselineShift = 0.35

// Options configures font lookup and document info.
type Options struct {
	FontFile     string   // 常规字重字体文件
	BoldFontFile string   // 粗体字体文件，为空时沿用常规字体
	SystemFonts  []string // FontFile 为空时按顺序尝试
	Creator      string
}

// Renderer draws layout primitives via github.com/tdewolff/canvas into a single-page PDF.
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
	faces  map[faceKey]*canvas.FontFace
}

var _ renderer.Renderer = (*Renderer)(nil)

type faceKey struct {
	size   float64
	weight layout.Weight
	color  layout.Color
}

// NewRenderer creates a PDF renderer. Fonts are loaded on first use.
func NewRenderer(opts Options) *Renderer {
	if opts.FontFile == "" && len(opts.SystemFonts) == 0 {
		opts.SystemFonts = DefaultSystemFonts
	}
	if opts.Creator == "" {
		opts.Creator = "vellum"
	}
	return &Renderer{opts: opts, faces: map[faceKey]*canvas.FontFace{}}
}

// Render 把整张画布输出为一页 PDF；布局坐标为 pt，canvas 使用 mm，在此处换算。
func (r *Renderer) Render(c *layout.Container) (*renderer.Artifact, error) {
	if c == nil || c.Document == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	doc := c.Document
	if doc.Canvas.Width <= 0 || doc.Canvas.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", doc.Canvas.Width, doc.Canvas.Height)
	}
	if err := r.ensureFontFamily(); err != nil {
		return nil, err
	}

	w, h := toMm(doc.Canvas.Width), toMm(doc.Canvas.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(c.Meta.SourceName, "translated document", c.Meta.ID, "", r.opts.Creator)

	cv := canvas.New(w, h)
	ctx := canvas.NewContext(cv)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	for _, p := range doc.Primitives {
		if err := r.draw(ctx, p); err != nil {
			return nil, err
		}
	}
	cv.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return &renderer.Artifact{Bytes: buf.Bytes(), ContentType: ContentTypePDF, Extension: ".pdf"}, nil
}

func (r *Renderer) draw(ctx *canvas.Context, p layout.Primitive) error {
	switch v := p.(type) {
	case *layout.Rect:
		drawRect(ctx, v)
	case *layout.StraightLine:
		drawLine(ctx, v)
	case *layout.Circle:
		drawCircle(ctx, v)
		if v.Glyph != "" {
			face, err := r.fontFace(v.GlyphSize, layout.WeightBold, v.GlyphColor)
			if err != nil {
				return err
			}
			line := canvas.NewTextLine(face, v.Glyph, canvas.Center)
			ctx.DrawText(toMm(v.CX), toMm(v.CY+v.GlyphSize*glyphBaselineShift), line)
		}
	case *layout.TextRun:
		if strings.TrimSpace(v.Content) == "" {
			return nil
		}
		face, err := r.fontFace(v.FontSize, v.Weight, v.Color)
		if err != nil {
			return err
		}
		line := canvas.NewTextLine(face, v.Content, textAlign(v.Anchor))
		ctx.DrawText(toMm(v.X), toMm(v.Y), line)
	default:
		return fmt.Errorf("未知的图元类型 %T", p)
	}
	return nil
}

func drawRect(ctx *canvas.Context, rc *layout.Rect) {
	if rc.Fill != nil {
		ctx.SetFillColor(colorFromLayout(*rc.Fill))
	} else {
		ctx.SetFillColor(canvas.Transparent)
	}
	if rc.Stroke != nil && rc.StrokeWidth > 0 {
		ctx.SetStrokeColor(colorFromLayout(*rc.Stroke))
		ctx.SetStrokeWidth(toMm(rc.StrokeWidth))
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
	}
	w, h := toMm(rc.Width), toMm(rc.Height)
	path := canvas.Rectangle(w, h)
	if rc.Radius > 0 {
		path = canvas.RoundedRectangle(w, h, toMm(rc.Radius))
	}
	ctx.DrawPath(toMm(rc.X), toMm(rc.Y), path)
}

func drawLine(ctx *canvas.Context, ln *layout.StraightLine) {
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(toMm(ln.Width))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(ln.X2-ln.X1), toMm(ln.Y2-ln.Y1))
	ctx.DrawPath(toMm(ln.X1), toMm(ln.Y1), p)
}

func drawCircle(ctx *canvas.Context, c *layout.Circle) {
	ctx.SetFillColor(colorFromLayout(c.Fill))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(toMm(c.CX), toMm(c.CY), canvas.Circle(toMm(c.R)))
}

func textAlign(a layout.Anchor) canvas.TextAlign {
	switch a {
	case layout.AnchorMiddle:
		return canvas.Center
	case layout.AnchorEnd:
		return canvas.Right
	default:
		return canvas.Left
	}
}

// fontFace 以 pt 字号创建字体面并缓存。
func (r *Renderer) fontFace(size float64, weight layout.Weight, col layout.Color) (*canvas.FontFace, error) {
	if err := r.ensureFontFamily(); err != nil {
		return nil, err
	}
	key := faceKey{size: size, weight: weight, color: col}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	style := canvas.FontRegular
	if weight == layout.WeightBold {
		style = canvas.FontBold
	}
	face := r.family.Face(size, colorFromLayout(col), style, canvas.FontNormal)
	r.faces[key] = face
	return face, nil
}

// ensureFontFamily 加载常规与粗体两种字重；缺少字体时返回错误。
func (r *Renderer) ensureFontFamily() error {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return nil
	}

	family := canvas.NewFontFamily("vellum")
	if r.opts.FontFile != "" {
		if err := family.LoadFontFile(r.opts.FontFile, canvas.FontRegular); err != nil {
			return fmt.Errorf("加载字体 %s 失败: %w", r.opts.FontFile, err)
		}
		bold := r.opts.BoldFontFile
		if bold == "" {
			bold = r.opts.FontFile
		}
		if err := family.LoadFontFile(bold, canvas.FontBold); err != nil {
			return fmt.Errorf("加载粗体字体 %s 失败: %w", bold, err)
		}
		r.family = family
		return nil
	}

	var errs []string
	for _, name := range r.opts.SystemFonts {
		if err := family.LoadSystemFont(name, canvas.FontRegular); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if err := family.LoadSystemFont(name+" Bold", canvas.FontBold); err != nil {
			// 没有独立粗体文件时沿用常规字重。
			if err := family.LoadSystemFont(name, canvas.FontBold); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
				continue
			}
		}
		r.family = family
		return nil
	}
	return fmt.Errorf("找不到可用的系统字体（%s）", strings.Join(errs, "; "))
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
