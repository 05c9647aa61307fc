package element

import (
	"image/color"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/shape"
)

// Text 渲染单一样式的一段文本。换行、推进宽度与竖直度量都来自 shape
// 缓存，因此同一内容反复 Measure/Draw 只做一次整形。逐行分页：一行放
// 不下当前位置就整行挪到下一页，行内不再拆分。
type Text struct {
	Shaper *shape.Shaper

	Content string
	Family  string
	Style   layout.FontStyle
	SizePt  float64
	Color   color.RGBA

	Underline       bool
	Align           Alignment
	ExtraLineHeight float64
	Wrap            shape.WrapMode
	Spacing         shape.Spacing
}

func (t Text) lineHeight(m shape.Metrics) float64 {
	return m.LineHeight + t.ExtraLineHeight
}

func (t Text) lines(maxWidth float64) ([]shape.Line, shape.Metrics) {
	lines, metrics, err := t.Shaper.Lines(t.Family, t.Style, t.SizePt, t.Content, maxWidth, t.Wrap, t.Spacing)
	if err != nil {
		// 字体解析失败属于配置错误，构造期应当已经拦截；这里退化为
		// 不产生任何行。
		return nil, shape.Metrics{}
	}
	return lines, metrics
}

func (t Text) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	_, metrics := t.lines(ctx.Width.Max)
	if t.lineHeight(metrics) > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (t Text) Measure(ctx layout.MeasureCtx) layout.Size {
	lines, metrics := t.lines(ctx.Width.Max)
	lh := t.lineHeight(metrics)

	maxWidth := 0.0
	height := 0.0
	available := ctx.FirstHeight
	for i, line := range lines {
		if ctx.Breakable != nil && available < lh {
			*ctx.Breakable.BreakCount++
			available = ctx.Breakable.FullHeight
			height = 0
		}
		w := line.Width
		if i == len(lines)-1 {
			w = line.FullWidth
		}
		if w > maxWidth {
			maxWidth = w
		}
		available -= lh
		height += lh
	}

	return layout.Size{
		Width:  layout.SomeExtent(ctx.Width.Constrain(maxWidth)),
		Height: layout.SomeExtent(height),
	}
}

func (t Text) Draw(ctx layout.DrawCtx) layout.Size {
	lines, metrics := t.lines(ctx.Width.Max)
	lh := t.lineHeight(metrics)

	// 居中与右对齐需要先知道段落宽度；左对齐的 x 偏移恒为零。
	alignWidth := 0.0
	switch {
	case ctx.Width.Expand:
		alignWidth = ctx.Width.Max
	case t.Align != AlignLeft:
		for _, line := range lines {
			if line.Width > alignWidth {
				alignWidth = line.Width
			}
		}
	}

	maxWidth := alignWidth
	height := 0.0
	available := ctx.FirstHeight
	breakIndex := 0
	loc := ctx.Location

	y := loc.Y
	for i, line := range lines {
		if ctx.Breakable != nil && available < lh {
			next := ctx.Breakable.GetLocation(breakIndex)
			breakIndex++
			loc = next
			y = next.Y
			available = ctx.Breakable.FullHeight
			height = 0
		}

		xOffset := 0.0
		switch t.Align {
		case AlignCenter:
			xOffset = (alignWidth - line.Width) / 2
		case AlignRight:
			xOffset = alignWidth - line.Width
		}

		if line.Text != "" {
			loc.Surface.Text(layout.TextSpan{
				Text:          line.Text,
				Family:        t.Family,
				Style:         t.Style,
				SizePt:        t.SizePt,
				Color:         t.Color,
				Underline:     t.Underline,
				Width:         line.Width,
				CharSpacingPt: t.Spacing.CharPt,
				WordSpacingPt: t.Spacing.WordPt,
			}, loc.X+xOffset, y+metrics.Ascent+t.ExtraLineHeight/2)
		}

		w := line.Width
		if i == len(lines)-1 {
			w = line.FullWidth
		}
		if w > maxWidth {
			maxWidth = w
		}

		y += lh
		available -= lh
		height += lh
	}

	return layout.Size{
		Width:  layout.SomeExtent(ctx.Width.Constrain(maxWidth)),
		Height: layout.SomeExtent(height),
	}
}
