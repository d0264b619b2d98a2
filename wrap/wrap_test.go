package wrap

import (
	"math"
	"strings"
	"testing"
)

func TestClassifyTiers(t *testing.T) {
	cases := map[rune]Tier{
		'文': Wide,
		'：': Wide,
		'Ａ': Wide,
		' ': Space,
		'\t': Space,
		'a': Medium,
		'Z': Medium,
		'7': Medium,
		'.': Narrow,
		'-': Narrow,
		'<': Narrow,
	}
	for r, want := range cases {
		if got := Classify(r); got != want {
			t.Errorf("Classify(%q) = %s, want %s", r, got, want)
		}
	}
}

func TestEmptyLineYieldsOneEmptySegment(t *testing.T) {
	segs := New().Wrap("", 14, 100)
	if len(segs) != 1 || segs[0].Text != "" || segs[0].Width != 0 {
		t.Fatalf("empty input: got %#v", segs)
	}
}

func TestWrapCJKNeverExceedsMaxWidth(t *testing.T) {
	text := strings.Repeat("這是一份經過專業翻譯的文檔", 8)
	const fontSize, maxWidth = 14.0, 100.0
	segs := New().Wrap(text, fontSize, maxWidth)
	if len(segs) < 2 {
		t.Fatalf("expected wrapping, got %d segments", len(segs))
	}
	var joined strings.Builder
	for i, s := range segs {
		if s.Width-maxWidth > 1e-9 {
			t.Fatalf("segment %d width %g exceeds %g", i, s.Width, maxWidth)
		}
		if math.Abs(s.Width-Measure(s.Text, fontSize)) > 1e-9 {
			t.Fatalf("segment %d width %g disagrees with Measure", i, s.Width)
		}
		joined.WriteString(s.Text)
	}
	if joined.String() != text {
		t.Fatalf("segments do not reassemble the input")
	}
}

func TestWrapIsGreedy(t *testing.T) {
	// 每个汉字 10，宽度 35 时每段恰好三个字。
	segs := New().Wrap("一二三四五六七", 10, 35)
	want := []string{"一二三", "四五六", "七"}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i := range want {
		if segs[i].Text != want[i] {
			t.Fatalf("segment %d = %q, want %q", i, segs[i].Text, want[i])
		}
	}
}

func TestOversizedRuneKeepsOwnSegment(t *testing.T) {
	segs := New().Wrap("文字", 20, 5)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	for _, s := range segs {
		if s.Text == "" {
			t.Fatalf("empty segment produced")
		}
	}
}

func TestNoWrapWhenWidthUnbounded(t *testing.T) {
	segs := New().Wrap("hello world", 12, 0)
	if len(segs) != 1 || segs[0].Text != "hello world" {
		t.Fatalf("got %#v", segs)
	}
}

func TestMeasureMixed(t *testing.T) {
	// 文(1.0) a(0.6) 空格(0.3) .(0.4)
	got := Measure("文a .", 10)
	if math.Abs(got-23) > 1e-9 {
		t.Fatalf("Measure = %g, want 23", got)
	}
}

func TestWrapKeepsInvalidBytes(t *testing.T) {
	// a、b、c、d 各 6，非法字节按窄字符 4 计，宽度 15 时切为三段。
	text := "ab\xffcd"
	segs := New().Wrap(text, 10, 15)
	want := []string{"ab", "\xffc", "d"}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	var joined strings.Builder
	for i := range want {
		if segs[i].Text != want[i] {
			t.Fatalf("segment %d = %q, want %q", i, segs[i].Text, want[i])
		}
		joined.WriteString(segs[i].Text)
	}
	if joined.String() != text {
		t.Fatalf("segments must keep the original bytes, got %q", joined.String())
	}
	if strings.ContainsRune(joined.String(), '\uFFFD') {
		t.Fatalf("invalid byte was replaced with U+FFFD")
	}
}
