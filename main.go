// Command vellum 将翻译后的纯文本排版为带 SVG 的 HTML 文档或 PDF。
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/logging"
	"github.com/ByLCY/vellum/pipeline"
	"github.com/ByLCY/vellum/renderer"
	canvasrenderer "github.com/ByLCY/vellum/renderer/canvas"
	svgrenderer "github.com/ByLCY/vellum/renderer/svg"
	"github.com/ByLCY/vellum/source"
)

const version = "0.1.0"

// CLI defines the command-line interface for vellum.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"日志级别"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"日志格式"`

	Render  RenderCmd  `cmd:"" help:"将文本文件排版为文档"`
	Sample  SampleCmd  `cmd:"" help:"用模拟翻译内容生成示例文档"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// GenerateFlags 是 render 与 sample 共用的输出选项。
type GenerateFlags struct {
	Out        string `short:"o" type:"path" help:"输出路径，默认与来源同名、扩展名随格式变化"`
	Format     string `short:"f" default:"svg" enum:"svg,pdf" help:"输出格式（svg 为含 SVG 的 HTML 页面）"`
	Profile    string `short:"p" default:"decorated" help:"内置配置名称（decorated/plain）或 .profile 文件路径"`
	PageWidth  string `name:"page-width" help:"页面宽度，如 595、210mm"`
	PageHeight string `name:"page-height" help:"页面高度，如 842、297mm"`
	Font       string `type:"path" help:"PDF 使用的字体文件"`
	BoldFont   string `name:"bold-font" type:"path" help:"PDF 使用的粗体字体文件"`
	Standalone bool   `help:"svg 格式只输出 SVG 文档，不包 HTML 页面"`
	Debug      string `type:"path" help:"布局调试 JSON 输出路径"`
}

// RenderCmd renders a text file.
type RenderCmd struct {
	Input string `arg:"" type:"existingfile" help:"纯文本输入文件"`
	Name  string `help:"页眉与页脚中显示的来源文件名，默认为输入文件名"`

	GenerateFlags `embed:""`
}

// SampleCmd renders the simulated translation.
type SampleCmd struct {
	Name string `default:"sample.pdf" help:"模拟的原始文件名"`

	GenerateFlags `embed:""`
}

// VersionCmd prints the version.
type VersionCmd struct{}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vellum"),
		kong.Description("将翻译后的纯文本排版为分页矢量文档"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(initLogging(CLI.LogLevel, CLI.LogFormat))

	err := ctx.Run(ctx)
	if err != nil {
		logging.Error("command_failed", "command", ctx.Command(), "error", err)
	}
	ctx.FatalIfErrorf(err)
}

// initLogging 按命令行参数配置全局日志。
func initLogging(levelName, formatName string) error {
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}
	logging.Init(level, format, os.Stderr)
	return nil
}

func (c *RenderCmd) Run() error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("无法读取输入文件 %s: %w", c.Input, err)
	}
	name := c.Name
	if name == "" {
		name = filepath.Base(c.Input)
	}
	out, err := c.generate(string(data), name, c.Input)
	if err != nil {
		return err
	}
	logging.Info("render_complete", "input", c.Input, "output", out)
	return nil
}

func (c *SampleCmd) Run() error {
	content := source.Placeholder(c.Name, time.Now())
	out, err := c.generate(content, c.Name, c.Name)
	if err != nil {
		return err
	}
	logging.Info("sample_complete", "name", c.Name, "output", out)
	return nil
}

func (c *VersionCmd) Run() error {
	fmt.Printf("vellum version %s\n", version)
	return nil
}

// generate 串联配置、排版、渲染与校验，返回写入的路径。
func (f *GenerateFlags) generate(content, name, basePath string) (string, error) {
	profile, err := layout.LoadProfile(f.Profile)
	if err != nil {
		return "", fmt.Errorf("加载配置失败: %w", err)
	}
	page, err := resolvePage(profile.Page, f.PageWidth, f.PageHeight)
	if err != nil {
		return "", err
	}
	logging.Debug("profile_loaded", "profile", profile.Name, "page_width", page.Width, "page_height", page.Height, "format", f.Format)

	opts := []pipeline.Option{
		pipeline.WithRenderer(renderer.FormatPDF, canvasrenderer.NewRenderer(canvasrenderer.Options{
			FontFile:     f.Font,
			BoldFontFile: f.BoldFont,
		})),
	}
	if f.Standalone {
		opts = append(opts, pipeline.WithRenderer(renderer.FormatSVG, svgrenderer.New(svgrenderer.Options{Standalone: true})))
	}
	gen := pipeline.New(opts...)

	res, err := gen.Generate(pipeline.Request{
		Content:    content,
		SourceName: name,
		Page:       &page,
		Profile:    &profile,
		Format:     f.Format,
	})
	if err != nil {
		return "", err
	}
	for _, w := range res.Warnings {
		logging.Warn("generation_warning", "source", name, "warning", w.Error())
	}
	if err := pipeline.Validate(res.Artifact); err != nil {
		return "", err
	}

	if f.Debug != "" {
		if err := writeDebug(res.Container, f.Debug); err != nil {
			return "", err
		}
	}

	out := f.Out
	if out == "" {
		out = strings.TrimSuffix(basePath, filepath.Ext(basePath)) + res.Artifact.Extension
	}
	if err := writeArtifact(out, res.Artifact); err != nil {
		return "", err
	}
	logging.ArtifactWritten(out, res.Artifact.ContentType, len(res.Artifact.Bytes), "id", res.Container.Meta.ID)
	return out, nil
}

// resolvePage 用命令行中的长度覆盖配置的页面尺寸。
func resolvePage(base layout.PageSize, width, height string) (layout.PageSize, error) {
	page := base
	if width != "" {
		l, err := layout.ParseLength(width)
		if err != nil {
			return page, fmt.Errorf("页面宽度无效: %w", err)
		}
		page.Width = l.ToPT()
	}
	if height != "" {
		l, err := layout.ParseLength(height)
		if err != nil {
			return page, fmt.Errorf("页面高度无效: %w", err)
		}
		page.Height = l.ToPT()
	}
	return page, nil
}

func writeArtifact(path string, art *renderer.Artifact) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, art.Bytes, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	return nil
}

func writeDebug(c *layout.Container, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(c, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
