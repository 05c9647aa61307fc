package shape_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/folio-layout/folio/shape"
)

// fixedFace 给每个字符固定 10pt 的宽度，便于心算换行结果。
type fixedFace struct{}

func (fixedFace) TextWidth(s string) float64 { return float64(len([]rune(s))) * 10 }

func (fixedFace) Metrics() shape.Metrics {
	return shape.Metrics{Ascent: 8, Descent: 2, LineHeight: 12}
}

func lineTexts(lines []shape.Line) []string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return texts
}

func TestTokenize(t *testing.T) {
	tokens := shape.Tokenize(fixedFace{}, "ab  cd\r\nef")
	want := []shape.Token{
		{Text: "ab", Width: 20},
		{Text: "  ", Width: 20},
		{Text: "cd", Width: 20},
		{Text: "\n"},
		{Text: "ef", Width: 20},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("分词不符 (-want +got):\n%s", diff)
	}
}

func TestWrapNormalBreaksAtWhitespace(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "aaa bb cccc", 60, shape.WrapNormal)
	want := []string{"aaa bb", "cccc"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Fatalf("换行不符 (-want +got):\n%s", diff)
	}
}

func TestWrapNormalSplitsOversizedToken(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "abcdefgh", 30, shape.WrapNormal)
	want := []string{"abc", "def", "gh"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Fatalf("长词切分不符 (-want +got):\n%s", diff)
	}
}

func TestWrapNoneHonorsOnlyNewlines(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "a very long line\nshort", 30, shape.WrapNone)
	want := []string{"a very long line", "short"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Fatalf("WrapNone 不符 (-want +got):\n%s", diff)
	}
}

func TestWrapBreakWordIgnoresWhitespaceOpportunities(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "ab cd", 30, shape.WrapBreakWord)
	want := []string{"ab ", "cd"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Fatalf("WrapBreakWord 不符 (-want +got):\n%s", diff)
	}
}

func TestWrapTrailingWhitespaceWidths(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "ab  ", 0, shape.WrapNone)
	if len(lines) != 1 {
		t.Fatalf("期望 1 行，得到 %d", len(lines))
	}
	l := lines[0]
	if l.Width != 20 {
		t.Fatalf("Width 应剔除行尾空白，得到 %v", l.Width)
	}
	if l.FullWidth != 40 {
		t.Fatalf("FullWidth 应包含行尾空白，得到 %v", l.FullWidth)
	}
}

func TestWrapExplicitBlankLine(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "a\n\nb", 0, shape.WrapNormal)
	want := []string{"a", "", "b"}
	if diff := cmp.Diff(want, lineTexts(lines)); diff != "" {
		t.Fatalf("空行应被保留 (-want +got):\n%s", diff)
	}
}

func TestWrapNonPositiveWidthDisablesBreaking(t *testing.T) {
	lines := shape.Wrap(fixedFace{}, "many words in one line", 0, shape.WrapNormal)
	if len(lines) != 1 {
		t.Fatalf("非正宽度不应按宽换行，得到 %d 行", len(lines))
	}
}

func TestWithSpacingWidensAdvances(t *testing.T) {
	face := shape.WithSpacing(fixedFace{}, shape.Spacing{CharPt: 1, WordPt: 4})
	if got := face.TextWidth("aaa bb"); got != 70 {
		t.Fatalf("字距应逐字累加，得到 %v", got)
	}
	if got := face.Metrics(); got != (fixedFace{}).Metrics() {
		t.Fatalf("字距不应改变竖直度量: %+v", got)
	}
	if same := shape.WithSpacing(fixedFace{}, shape.Spacing{}); same != (fixedFace{}) {
		t.Fatalf("零字距应返回原字体")
	}
}
