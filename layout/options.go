package layout

import (
	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/classify"
	"github.com/ByLCY/vellum/wrap"
)

// BuildOptions 配置布局阶段所需的依赖；为空的字段使用默认实现。
type BuildOptions struct {
	Profile    *Profile
	Classifier Classifier
	Wrapper    Wrapper
	Vars       binding.Vars // 页脚模板可用的额外变量
}

// Classifier 为一行文本给出语义类别。
type Classifier interface {
	Classify(line classify.Line) classify.Category
}

// Wrapper 负责把一行文本按宽度约束切成可绘制的片段。
type Wrapper interface {
	Wrap(text string, fontSize, maxWidth float64) []wrap.Segment
}
