// Package svgrenderer 将布局图元序列化为 SVG，并包进可直接浏览/打印的 HTML 页面。
package svgrenderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/renderer"
)

// Content types.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeSVG  = "image/svg+xml"
)

// Options configures the serializer.
type Options struct {
	Lang     string
	Labels   Labels
	Location *time.Location // 页眉时间所用时区，为空时使用本地时区
	// Standalone 只输出 SVG 文档，不包 HTML 容器。
	Standalone bool
}

// Renderer 是无状态的 SVG/HTML 序列化器。
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 返回序列化器，未设置的选项使用默认值。
func New(opts Options) *Renderer {
	if opts.Lang == "" {
		opts.Lang = "zh-TW"
	}
	if opts.Labels == (Labels{}) {
		opts.Labels = DefaultLabels
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Renderer{opts: opts}
}

// Render 输出 HTML 容器（或独立 SVG）。
func (r *Renderer) Render(c *layout.Container) (*renderer.Artifact, error) {
	if c == nil || c.Document == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}

	var svg bytes.Buffer
	if r.opts.Standalone {
		svg.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
		writeSVG(&svg, c.Document, "")
		return &renderer.Artifact{Bytes: svg.Bytes(), ContentType: ContentTypeSVG, Extension: ".svg"}, nil
	}

	writeSVG(&svg, c.Document, "svg-page")
	data, err := renderContainer(r.buildContainer(c, svg.Bytes()))
	if err != nil {
		return nil, err
	}
	return &renderer.Artifact{Bytes: data, ContentType: ContentTypeHTML, Extension: ".html"}, nil
}
