package element_test

import (
	"testing"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/layout/element"
	"github.com/folio-layout/folio/shape"
)

// fakeFonts 给每个字符 sizePt 的宽度，行高为 sizePt+2。
type fakeFonts struct{}

func (fakeFonts) Face(_ string, _ layout.FontStyle, sizePt float64) (shape.Face, error) {
	return sizedFace{size: sizePt}, nil
}

type sizedFace struct{ size float64 }

func (f sizedFace) TextWidth(s string) float64 { return float64(len([]rune(s))) * f.size }

func (f sizedFace) Metrics() shape.Metrics {
	return shape.Metrics{Ascent: f.size, Descent: 2, LineHeight: f.size + 2}
}

func newShaper() *shape.Shaper { return shape.NewShaper(fakeFonts{}, nil) }

func TestTextWrapsAndMeasures(t *testing.T) {
	txt := element.Text{Shaper: newShaper(), Content: "aaa bb cccc", Family: "body", SizePt: 10}
	size := txt.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 60},
		FirstHeight: 1000,
	})
	if got := size.Height.Or(-1); got != 24 {
		t.Fatalf("两行文本高度期望 24，得到 %v", got)
	}
	if got := size.Width.Or(-1); got != 60 {
		t.Fatalf("宽度应为最宽行，得到 %v", got)
	}
}

func TestTextBreaksPerLine(t *testing.T) {
	txt := element.Text{Shaper: newShaper(), Content: "one\ntwo", Family: "body", SizePt: 10}

	ctx, breaks := measureBreakable(15, 100, layout.WidthConstraint{Max: 200})
	size := txt.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("第二行放不下时应换页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 12 {
		t.Fatalf("换页后高度只计末页的行，得到 %v", got)
	}

	o := newOracle()
	txt.Draw(drawBreakable(o, 15, 100, layout.WidthConstraint{Max: 200}))
	if len(o.surfaces[0].spans) != 1 || o.surfaces[0].spans[0].Text != "one" {
		t.Fatalf("首页应只有第一行: %+v", o.surfaces[0].spans)
	}
	if len(o.surfaces[1].spans) != 1 || o.surfaces[1].spans[0].Text != "two" {
		t.Fatalf("次页应只有第二行: %+v", o.surfaces[1].spans)
	}
}

func TestTextFirstLocationUsage(t *testing.T) {
	txt := element.Text{Shaper: newShaper(), Content: "hi", Family: "body", SizePt: 10}
	if got := txt.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 5,
		FullHeight:  100,
	}); got != layout.WillSkip {
		t.Fatalf("一行都放不下时应换页，得到 %v", got)
	}
}

func TestTextSpanCarriesStyle(t *testing.T) {
	txt := element.Text{
		Shaper:    newShaper(),
		Content:   "hi",
		Family:    "head",
		Style:     layout.FontBold,
		SizePt:    10,
		Underline: true,
	}
	o := newOracle()
	txt.Draw(drawBreakable(o, 100, 100, layout.WidthConstraint{Max: 100}))
	span := o.surfaces[0].spans[0]
	if span.Family != "head" || span.Style != layout.FontBold || !span.Underline {
		t.Fatalf("文本片段样式不符: %+v", span)
	}
}

func TestTextSpacingWidensLines(t *testing.T) {
	plain := element.Text{Shaper: newShaper(), Content: "aaa bb", Family: "body", SizePt: 10}
	spaced := plain
	spaced.Spacing = shape.Spacing{CharPt: 2, WordPt: 5}

	ctx := layout.MeasureCtx{Width: layout.WidthConstraint{Max: 70}, FirstHeight: 1000}
	if got := plain.Measure(ctx).Height.Or(-1); got != 12 {
		t.Fatalf("无字距时应为一行，得到 %v", got)
	}
	if got := spaced.Measure(ctx).Height.Or(-1); got != 24 {
		t.Fatalf("字距应计入行宽并触发换行，得到 %v", got)
	}

	o := newOracle()
	spaced.Draw(drawBreakable(o, 1000, 1000, layout.WidthConstraint{Max: 70}))
	span := o.surfaces[0].spans[0]
	if span.Width != 36 {
		t.Fatalf("行宽应包含字距: %+v", span)
	}
	if span.CharSpacingPt != 2 || span.WordSpacingPt != 5 {
		t.Fatalf("字距应随片段下发: %+v", span)
	}
}

func TestRichTextLineHeightIsTallestSpan(t *testing.T) {
	r := element.RichText{Shaper: newShaper(), Spans: []element.RichSpan{
		{Text: "big ", Family: "body", SizePt: 20},
		{Text: "small", Family: "body", SizePt: 10},
	}}
	size := r.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 200},
		FirstHeight: 1000,
	})
	if got := size.Height.Or(-1); got != 22 {
		t.Fatalf("行高应取最大片段，得到 %v", got)
	}
	if got := size.Width.Or(-1); got != 3*20+20+5*10 {
		t.Fatalf("单行宽度为各片段之和，得到 %v", got)
	}
}

func TestRichTextWrapsAcrossSpans(t *testing.T) {
	r := element.RichText{Shaper: newShaper(), Spans: []element.RichSpan{
		{Text: "big ", Family: "body", SizePt: 20},
		{Text: "small", Family: "body", SizePt: 10},
	}}
	size := r.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 70},
		FirstHeight: 1000,
	})
	if got := size.Height.Or(-1); got != 22+12 {
		t.Fatalf("换行后高度为两行之和，得到 %v", got)
	}

	o := newOracle()
	r.Draw(drawBreakable(o, 1000, 1000, layout.WidthConstraint{Max: 70}))
	spans := o.surfaces[0].spans
	if len(spans) != 2 {
		t.Fatalf("空白片段不应产生输出，得到 %d 段", len(spans))
	}
	if spans[0].Text != "big" || spans[1].Text != "small" {
		t.Fatalf("片段内容不符: %+v", spans)
	}
	if spans[0].SizePt != 20 || spans[1].SizePt != 10 {
		t.Fatalf("片段应保留各自的字号: %+v", spans)
	}
}
