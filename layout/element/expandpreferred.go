package element

import "github.com/folio-layout/folio/layout"

// ExpandToPreferredHeight 把子元素上报的高度抬到等高上下文给的首选高度。
// 子元素换页数少于首选换页数时补齐缺的页，使它与同组最高的元素占用同样
// 的位置序列。
type ExpandToPreferredHeight struct {
	Inner layout.Element
}

func (e ExpandToPreferredHeight) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return e.Inner.FirstLocationUsage(ctx)
}

func (e ExpandToPreferredHeight) Measure(ctx layout.MeasureCtx) layout.Size {
	return e.Inner.Measure(ctx)
}

func (e ExpandToPreferredHeight) Draw(ctx layout.DrawCtx) layout.Size {
	preferredHeight := ctx.PreferredHeight

	if ctx.Breakable == nil {
		size := e.Inner.Draw(ctx)
		size.Height = layout.MaxExtent(size.Height, preferredHeight)
		return size
	}

	b := ctx.Breakable
	preferredBreaks := b.PreferredHeightBreakCount
	breakCount := 0

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
	size := e.Inner.Draw(ctx)

	switch {
	case breakCount < preferredBreaks:
		// 把剩下的位置也都占上，不然同组元素的页数对不齐。
		for i := breakCount; i < preferredBreaks; i++ {
			b.GetLocation(i)
		}
		size.Height = preferredHeight
	case breakCount == preferredBreaks:
		size.Height = layout.MaxExtent(size.Height, preferredHeight)
	}
	return size
}
