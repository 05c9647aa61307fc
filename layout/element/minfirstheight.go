package element

import "github.com/folio-layout/folio/layout"

// MinFirstHeight 要求子元素的首位置至少有 MinHeight 的高度；不够就先换
// 页。子元素折叠时不换页，整体保持折叠。未换页且子元素没有分页时，上报
// 高度至少为 MinHeight。
type MinFirstHeight struct {
	Inner     layout.Element
	MinHeight float64
}

func (m MinFirstHeight) preBreak(firstHeight, fullHeight float64) bool {
	return firstHeight < fullHeight && firstHeight < m.MinHeight
}

func (m MinFirstHeight) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if !m.preBreak(ctx.FirstHeight, ctx.FullHeight) {
		return m.Inner.FirstLocationUsage(ctx)
	}
	usage := m.Inner.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FullHeight,
		FullHeight:  ctx.FullHeight,
	})
	if usage == layout.NoneHeight {
		return layout.NoneHeight
	}
	return layout.WillSkip
}

func (m MinFirstHeight) Measure(ctx layout.MeasureCtx) layout.Size {
	locationOffset := 0
	breakCount := 0
	var size layout.Size

	if b := ctx.Breakable; b != nil {
		firstHeight := ctx.FirstHeight
		if m.preBreak(ctx.FirstHeight, b.FullHeight) {
			firstHeight = b.FullHeight
			locationOffset = 1
		}

		size = m.Inner.Measure(layout.MeasureCtx{
			Width:       ctx.Width,
			FirstHeight: firstHeight,
			Breakable: &layout.BreakableMeasure{
				FullHeight:             b.FullHeight,
				BreakCount:             &breakCount,
				ExtraLocationMinHeight: b.ExtraLocationMinHeight,
			},
		})

		if !size.Height.Valid && breakCount == 0 {
			return size
		}
		*b.BreakCount = breakCount + locationOffset
	} else {
		size = m.Inner.Measure(ctx)
	}

	if size.Height.Valid && locationOffset == 0 && breakCount == 0 {
		size.Height = layout.SomeExtent(max(size.Height.Value, m.MinHeight))
	}
	return size
}

func (m MinFirstHeight) Draw(ctx layout.DrawCtx) layout.Size {
	locationOffset := 0
	breakCount := 0
	var size layout.Size

	if b := ctx.Breakable; b != nil {
		location := ctx.Location
		firstHeight := ctx.FirstHeight
		preferredHeight := ctx.PreferredHeight

		// 折叠的子元素不值得换页，先问一次 FirstLocationUsage。
		if m.preBreak(ctx.FirstHeight, b.FullHeight) &&
			m.Inner.FirstLocationUsage(layout.FirstLocationUsageCtx{
				Width:       ctx.Width,
				FirstHeight: b.FullHeight,
				FullHeight:  b.FullHeight,
			}) != layout.NoneHeight {
			location = b.GetLocation(0)
			locationOffset = 1
			firstHeight = b.FullHeight
			if b.PreferredHeightBreakCount == 0 {
				preferredHeight = layout.Extent{}
			}
		}

		size = m.Inner.Draw(layout.DrawCtx{
			Location:        location,
			Width:           ctx.Width,
			FirstHeight:     firstHeight,
			PreferredHeight: preferredHeight,
			Breakable: &layout.BreakableDraw{
				FullHeight:                b.FullHeight,
				PreferredHeightBreakCount: max(b.PreferredHeightBreakCount-locationOffset, 0),
				GetLocation: func(index int) layout.Location {
					if index+1 > breakCount {
						breakCount = index + 1
					}
					return b.GetLocation(index + locationOffset)
				},
			},
		})
	} else {
		size = m.Inner.Draw(ctx)
	}

	if size.Height.Valid && locationOffset == 0 && breakCount == 0 {
		size.Height = layout.SomeExtent(max(size.Height.Value, m.MinHeight))
	}
	return size
}
