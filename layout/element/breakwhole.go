package element

import "github.com/folio-layout/folio/layout"

// BreakWhole 让子元素整体不跨首位置：若子元素从当前位置开始会发生换页，
// 就先换一页，让它从整页高度起排。换页后仍然放不下的子元素照常继续分页。
type BreakWhole struct {
	Inner layout.Element
}

// breakWholeLayout 是预量的结论。首高等于整页高时换页无利可图，直接
// 跳过预量（noPreBreak），避免一次多余的 Measure。
type breakWholeLayout struct {
	noPreBreak bool
	preBreak   bool
	breakCount int
	size       layout.Size
}

func (b BreakWhole) layout(width layout.WidthConstraint, firstHeight, fullHeight float64) breakWholeLayout {
	if firstHeight == fullHeight {
		return breakWholeLayout{noPreBreak: true}
	}

	breakCount := 0
	extraMin := 0.0
	size := b.Inner.Measure(layout.MeasureCtx{
		Width:       width,
		FirstHeight: fullHeight,
		Breakable: &layout.BreakableMeasure{
			FullHeight:             fullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		},
	})

	return breakWholeLayout{
		preBreak:   breakCount > 0 || (size.Height.Valid && size.Height.Value > firstHeight),
		breakCount: breakCount,
		size:       size,
	}
}

func (b BreakWhole) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	l := b.layout(ctx.Width, ctx.FirstHeight, ctx.FullHeight)
	switch {
	case l.noPreBreak:
		return b.Inner.FirstLocationUsage(ctx)
	case l.preBreak:
		return layout.WillSkip
	case !l.size.Height.Valid:
		return layout.NoneHeight
	default:
		// 想跳过首位置就必须换页，而换页会让 preBreak 为真，所以
		// 走到这里只能是 WillUse。
		return layout.WillUse
	}
}

func (b BreakWhole) Measure(ctx layout.MeasureCtx) layout.Size {
	if ctx.Breakable == nil {
		return b.Inner.Measure(ctx)
	}

	l := b.layout(ctx.Width, ctx.FirstHeight, ctx.Breakable.FullHeight)
	if l.noPreBreak {
		return b.Inner.Measure(ctx)
	}

	*ctx.Breakable.BreakCount = l.breakCount
	if l.preBreak {
		*ctx.Breakable.BreakCount++
	}
	return l.size
}

func (b BreakWhole) Draw(ctx layout.DrawCtx) layout.Size {
	ctx.PreferredHeight = layout.Extent{}
	if ctx.Breakable == nil {
		return b.Inner.Draw(ctx)
	}

	outer := ctx.Breakable
	l := b.layout(ctx.Width, ctx.FirstHeight, outer.FullHeight)
	if l.noPreBreak || !l.preBreak {
		ctx.Breakable = &layout.BreakableDraw{
			FullHeight:  outer.FullHeight,
			GetLocation: outer.GetLocation,
		}
		return b.Inner.Draw(ctx)
	}

	ctx.Location = outer.GetLocation(0)
	ctx.FirstHeight = outer.FullHeight
	ctx.Breakable = &layout.BreakableDraw{
		FullHeight: outer.FullHeight,
		GetLocation: func(index int) layout.Location {
			return outer.GetLocation(index + 1)
		},
	}
	return b.Inner.Draw(ctx)
}
