package element

import "github.com/folio-layout/folio/layout"

// Stack 把子元素叠放在同一位置，后加入的在上层。尺寸取各子元素的
// 分量最大值；分页数更多的子元素决定高度。Expand 为 true 时先测一遍，
// 把最大高度作为 PreferredHeight 传给每个子元素。
type Stack struct {
	Expand  bool
	Content func(content *StackContent)
}

func (s Stack) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	content := StackContent{pass: passFirstLocationUsage, fluCtx: ctx, fluRet: layout.NoneHeight}
	s.Content(&content)
	return content.fluRet
}

func (s Stack) Measure(ctx layout.MeasureCtx) layout.Size {
	content := StackContent{pass: passMeasure, measureCtx: ctx}
	s.Content(&content)
	return content.size
}

func (s Stack) Draw(ctx layout.DrawCtx) layout.Size {
	if s.Expand {
		breakCount := 0
		extraMin := 0.0
		mctx := layout.MeasureCtx{Width: ctx.Width, FirstHeight: ctx.FirstHeight}
		if b := ctx.Breakable; b != nil {
			mctx.Breakable = &layout.BreakableMeasure{
				FullHeight:             b.FullHeight,
				BreakCount:             &breakCount,
				ExtraLocationMinHeight: &extraMin,
			}
		}
		probe := StackContent{pass: passMeasure, measureCtx: mctx}
		s.Content(&probe)

		if b := ctx.Breakable; b != nil {
			switch {
			case breakCount == b.PreferredHeightBreakCount:
				ctx.PreferredHeight = layout.MaxExtent(ctx.PreferredHeight, probe.size.Height)
			case breakCount > b.PreferredHeightBreakCount:
				b.PreferredHeightBreakCount = breakCount
				ctx.PreferredHeight = probe.size.Height
			}
		} else {
			ctx.PreferredHeight = layout.MaxExtent(ctx.PreferredHeight, probe.size.Height)
		}
	} else {
		ctx.PreferredHeight = layout.Extent{}
		if ctx.Breakable != nil {
			ctx.Breakable.PreferredHeightBreakCount = 0
		}
	}

	content := StackContent{pass: passDraw, drawCtx: ctx}
	s.Content(&content)
	return content.size
}

// StackContent 是 Stack 在一遍操作中的状态。
type StackContent struct {
	pass columnPass

	fluCtx layout.FirstLocationUsageCtx
	fluRet layout.FirstLocationUsage

	measureCtx layout.MeasureCtx
	drawCtx    layout.DrawCtx

	size          layout.Size
	maxBreakCount int
}

// Add 提交一层。
func (c *StackContent) Add(el layout.Element) {
	switch c.pass {
	case passFirstLocationUsage:
		usage := el.FirstLocationUsage(c.fluCtx)
		switch c.fluRet {
		case layout.WillUse:
		case layout.NoneHeight:
			c.fluRet = usage
		case layout.WillSkip:
			if usage == layout.WillUse {
				c.fluRet = layout.WillUse
			}
		}

	case passMeasure:
		breakCount := 0
		extraMin := 0.0
		ctx := layout.MeasureCtx{Width: c.measureCtx.Width, FirstHeight: c.measureCtx.FirstHeight}
		if b := c.measureCtx.Breakable; b != nil {
			ctx.Breakable = &layout.BreakableMeasure{
				FullHeight:             b.FullHeight,
				BreakCount:             &breakCount,
				ExtraLocationMinHeight: &extraMin,
			}
		}
		size := el.Measure(ctx)
		c.size.Width = layout.MaxExtent(c.size.Width, size.Width)
		if b := c.measureCtx.Breakable; b != nil {
			switch {
			case breakCount < *b.BreakCount:
			case breakCount == *b.BreakCount:
				c.size.Height = layout.MaxExtent(c.size.Height, size.Height)
			default:
				*b.BreakCount = breakCount
				c.size.Height = size.Height
			}
		} else {
			c.size.Height = layout.MaxExtent(c.size.Height, size.Height)
		}

	default:
		breakCount := 0
		ctx := c.drawCtx
		if b := c.drawCtx.Breakable; b != nil {
			ctx.Breakable = &layout.BreakableDraw{
				FullHeight:                b.FullHeight,
				PreferredHeightBreakCount: b.PreferredHeightBreakCount,
				GetLocation: func(index int) layout.Location {
					if index+1 > breakCount {
						breakCount = index + 1
					}
					return b.GetLocation(index)
				},
			}
		}
		size := el.Draw(ctx)
		c.size.Width = layout.MaxExtent(c.size.Width, size.Width)
		if c.drawCtx.Breakable != nil {
			switch {
			case breakCount < c.maxBreakCount:
			case breakCount == c.maxBreakCount:
				c.size.Height = layout.MaxExtent(c.size.Height, size.Height)
			default:
				c.maxBreakCount = breakCount
				c.size.Height = size.Height
			}
		} else {
			c.size.Height = layout.MaxExtent(c.size.Height, size.Height)
		}
	}
}
