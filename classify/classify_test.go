package classify

import "testing"

func TestClassifyTable(t *testing.T) {
	c := Default()
	cases := []struct {
		text  string
		index int
		want  Category
	}{
		{"1. 文檔概述", 3, Title},
		{"12. Appendix", 5, Title},
		{"1.no space", 5, Body},
		{"翻譯文檔", 7, Title},
		{"翻譯文檔：report.pdf", 0, Title},
		{"翻譯文檔：report.pdf", 4, Body},
		{"一. 背景", 2, Subheading},
		{"十二、範圍", 2, Subheading},
		{"A. Overview", 2, Subheading},
		{"AB. Overview", 2, Body},
		{"注意事項：", 9, Warning},
		{"This is IMPORTANT to read", 9, Warning},
		{"- 本翻譯僅供參考使用", 10, BulletPoint},
		{"   - 文檔格式：PDF", 10, BulletPoint},
		{"-no space", 10, Body},
		{"plain body text", 1, Body},
		{"", 1, Body},
		{"   ", 1, Body},
	}
	for _, tc := range cases {
		if got := c.Classify(Line{Text: tc.text, Index: tc.index}); got != tc.want {
			t.Errorf("Classify(%q, %d) = %s, want %s", tc.text, tc.index, got, tc.want)
		}
	}
}

// 标题规则优先于提示关键词，提示关键词优先于项目符号。
func TestClassifyPriority(t *testing.T) {
	c := Default()
	if got := c.Classify(Line{Text: "2. 重要說明"}); got != Title {
		t.Fatalf("numbered line with keyword: got %s want Title", got)
	}
	if got := c.Classify(Line{Text: "- warning: hot surface"}); got != Warning {
		t.Fatalf("bullet with keyword: got %s want Warning", got)
	}
}

func TestCustomOptions(t *testing.T) {
	c := New(Options{TitleMarkers: []string{"REPORT"}, WarningKeywords: []string{"Achtung"}})
	if got := c.Classify(Line{Text: "REPORT"}); got != Title {
		t.Fatalf("custom marker: got %s", got)
	}
	if got := c.Classify(Line{Text: "ACHTUNG bitte"}); got != Warning {
		t.Fatalf("custom keyword should fold case: got %s", got)
	}
	if got := c.Classify(Line{Text: "注意事項"}); got != Body {
		t.Fatalf("default keywords must be replaced: got %s", got)
	}
}

func TestRulesIndependentlyMatch(t *testing.T) {
	samples := map[string]string{
		"numbered-title": "3. 內容摘要",
		"title-marker":   "翻譯文檔",
		"cjk-ordinal":    "二. 方法",
		"latin-ordinal":  "B. Method",
		"notice-keyword": "Notice: read me",
		"dash-bullet":    "- item",
	}
	rules := Default().Rules()
	if len(rules) != len(samples) {
		t.Fatalf("rule count = %d, want %d", len(rules), len(samples))
	}
	for _, r := range rules {
		s, ok := samples[r.Name]
		if !ok {
			t.Fatalf("no sample for rule %s", r.Name)
		}
		if !r.Match(Line{Text: s}) {
			t.Errorf("rule %s did not match %q", r.Name, s)
		}
		if r.Match(Line{Text: "ordinary words"}) {
			t.Errorf("rule %s matched ordinary text", r.Name)
		}
	}
}

func TestStripBullet(t *testing.T) {
	if got := StripBullet("  - 文檔格式：PDF"); got != "文檔格式：PDF" {
		t.Fatalf("StripBullet = %q", got)
	}
	if got := StripBullet("no bullet"); got != "no bullet" {
		t.Fatalf("StripBullet changed non-bullet: %q", got)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{Title, Subheading, BulletPoint, Warning, Body} {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCategory("Footer"); ok {
		t.Fatalf("unknown category accepted")
	}
}
