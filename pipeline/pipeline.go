// Package pipeline 把一段文本一次性转换为可保存的文档：拆行、排版、渲染、校验。
package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/logging"
	"github.com/ByLCY/vellum/renderer"
	canvasrenderer "github.com/ByLCY/vellum/renderer/canvas"
	svgrenderer "github.com/ByLCY/vellum/renderer/svg"
)

// Request 描述一次生成。
type Request struct {
	Content    string
	SourceName string
	Page       *layout.PageSize // 为空时使用配置中的页面尺寸
	Profile    *layout.Profile  // 为空时使用 decorated
	Format     string           // svg（默认）或 pdf
	Vars       binding.Vars     // 页脚模板的额外变量
}

// Result 是生成结果；Warnings 中的错误不影响产物。
type Result struct {
	Artifact  *renderer.Artifact
	Container *layout.Container
	Warnings  []error
}

// Generator 持有各格式的渲染器，可并发调用 Generate。
type Generator struct {
	renderers map[string]renderer.Renderer
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRenderer 注册或替换某个格式的渲染器。
func WithRenderer(format string, r renderer.Renderer) Option {
	return func(g *Generator) { g.renderers[strings.ToLower(format)] = r }
}

// WithLogger sets the logger; the default is logging.GetLogger().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithClock 替换时间来源，测试中用于固定时间戳。
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDSource 替换文档编号的生成方式。
func WithIDSource(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

// New 返回带 svg 与 pdf 两种渲染器的生成器。
func New(opts ...Option) *Generator {
	g := &Generator{
		renderers: map[string]renderer.Renderer{
			renderer.FormatSVG: svgrenderer.New(svgrenderer.Options{}),
			renderer.FormatPDF: canvasrenderer.NewRenderer(canvasrenderer.Options{}),
		},
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.GetLogger()
	}
	return g
}

// Formats 返回已注册的格式（已排序）。
func (g *Generator) Formats() []string {
	out := make([]string, 0, len(g.renderers))
	for f := range g.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// SplitLines 按 \n、\r\n 或 \r 拆行；空字符串没有任何行。
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// Generate 执行完整流程。排版或渲染失败时返回 *GenerationError，
// 任何阶段的 panic 也会转换为该错误。
func (g *Generator) Generate(req Request) (res *Result, err error) {
	stage := StageProfile
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &GenerationError{Stage: stage, Source: req.SourceName, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			g.logger.Error("generation_failed", "source", req.SourceName, "stage", string(stage), "error", err)
		}
	}()

	format := strings.ToLower(req.Format)
	if format == "" {
		format = renderer.FormatSVG
	}
	rnd, ok := g.renderers[format]
	if !ok {
		return nil, &GenerationError{Stage: StageRender, Source: req.SourceName, Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)}
	}

	profile := layout.DecoratedProfile()
	if req.Profile != nil {
		profile = req.Profile.Clone()
	}
	if req.Page != nil {
		profile.Page = *req.Page
	}

	var warnings []error
	lines := SplitLines(req.Content)
	if !hasContent(lines) {
		warnings = append(warnings, ErrInputEmpty)
		g.logger.Warn("input_empty", "source", req.SourceName, "lines", len(lines))
	}

	id := g.newID()
	generatedAt := g.now()
	vars := binding.Vars{
		"source": map[string]any{"name": req.SourceName},
		"doc":    map[string]any{"id": id},
	}
	if req.Vars != nil {
		vars = vars.Merge(req.Vars)
	}

	stage = StageLayout
	g.logger.Debug("layout_start", "source", req.SourceName, "lines", len(lines), "profile", profile.Name)
	doc, err := layout.Build(lines, layout.BuildOptions{Profile: &profile, Vars: vars})
	if err != nil {
		return nil, &GenerationError{Stage: stage, Source: req.SourceName, Err: err}
	}
	g.logger.Debug("layout_done", "primitives", len(doc.Primitives), "canvas_height", doc.Canvas.Height, "growths", doc.Growths)

	container := &layout.Container{
		Document: doc,
		Meta: layout.Meta{
			ID:          id,
			SourceName:  req.SourceName,
			GeneratedAt: generatedAt,
			Format:      format,
		},
	}

	stage = StageRender
	art, err := rnd.Render(container)
	if err != nil {
		return nil, &GenerationError{Stage: stage, Source: req.SourceName, Err: err}
	}
	g.logger.Debug("render_done", "format", format, "bytes", len(art.Bytes), "content_type", art.ContentType)

	return &Result{Artifact: art, Container: container, Warnings: warnings}, nil
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

// Validate 是保存前的检查：内容非空、声明了类型、带有对应格式的特征。
func Validate(a *renderer.Artifact) error {
	switch {
	case a == nil || len(a.Bytes) == 0:
		return &ValidationError{Reason: "artifact is empty"}
	case a.ContentType == "":
		return &ValidationError{Reason: "content type is missing"}
	}
	var signature string
	switch {
	case strings.HasPrefix(a.ContentType, canvasrenderer.ContentTypePDF):
		if !bytes.HasPrefix(a.Bytes, []byte("%PDF")) {
			return &ValidationError{Reason: "pdf signature is missing"}
		}
		return nil
	case strings.HasPrefix(a.ContentType, "text/html"), strings.HasPrefix(a.ContentType, svgrenderer.ContentTypeSVG):
		signature = "<svg"
	default:
		return &ValidationError{Reason: fmt.Sprintf("unsupported content type %q", a.ContentType)}
	}
	if !bytes.Contains(a.Bytes, []byte(signature)) || !bytes.Contains(a.Bytes, []byte("</svg>")) {
		return &ValidationError{Reason: "svg document is missing"}
	}
	return nil
}
