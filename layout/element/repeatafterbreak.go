package element

import "github.com/folio-layout/folio/layout"

// RepeatAfterBreak 与 Titled 类似，但标题在内容占用的每一个位置上都
// 重画一遍，内容的整页高度也相应扣掉标题的高度。表头跨页重复就是它。
type RepeatAfterBreak struct {
	Title   layout.Element
	Content layout.Element
	Gap     float64

	CollapseOnEmptyContent bool
}

func (r RepeatAfterBreak) yOffset(titleSize layout.Size) float64 {
	if titleSize.Height.Valid {
		return titleSize.Height.Value + r.Gap
	}
	return 0
}

func (r RepeatAfterBreak) collapse(breakCount int, contentSize layout.Size) bool {
	return r.CollapseOnEmptyContent && breakCount == 0 && !contentSize.Height.Valid
}

func (r RepeatAfterBreak) size(titleSize, contentSize layout.Size, collapse bool) layout.Size {
	if collapse {
		return layout.Size{Width: contentSize.Width}
	}
	return layout.Size{
		Width:  layout.MaxExtent(titleSize.Width, contentSize.Width),
		Height: layout.AddExtentGap(titleSize.Height, contentSize.Height, r.Gap),
	}
}

func (r RepeatAfterBreak) preBreak(width layout.WidthConstraint, firstHeight, fullHeight, yOffset float64) bool {
	if firstHeight >= fullHeight {
		return false
	}
	if yOffset > firstHeight {
		return true
	}
	return r.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       width,
		FirstHeight: firstHeight - yOffset,
		FullHeight:  fullHeight,
	}) == layout.WillSkip
}

func (r RepeatAfterBreak) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	titleSize := r.Title.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FullHeight,
	})

	collapse := r.CollapseOnEmptyContent || !titleSize.Height.Valid
	if !collapse && ctx.FirstHeight == ctx.FullHeight {
		return layout.WillUse
	}

	yOffset := r.yOffset(titleSize)
	flu := r.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FirstHeight - yOffset,
		FullHeight:  ctx.FullHeight,
	})

	switch {
	case collapse && flu == layout.NoneHeight:
		return layout.NoneHeight
	case ctx.FirstHeight < ctx.FullHeight && (yOffset > ctx.FirstHeight || flu == layout.WillSkip):
		return layout.WillSkip
	default:
		return layout.WillUse
	}
}

func (r RepeatAfterBreak) Measure(ctx layout.MeasureCtx) layout.Size {
	titleFirstHeight := ctx.FirstHeight
	if ctx.Breakable != nil {
		titleFirstHeight = ctx.Breakable.FullHeight
	}
	titleSize := r.Title.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: titleFirstHeight,
	})
	yOffset := r.yOffset(titleSize)

	breakCount := 0
	var contentSize layout.Size

	if b := ctx.Breakable; b != nil {
		fullHeight := b.FullHeight - yOffset
		firstHeight := ctx.FirstHeight - yOffset
		if r.preBreak(ctx.Width, ctx.FirstHeight, b.FullHeight, yOffset) {
			firstHeight = fullHeight
			*b.BreakCount = 1
		}

		contentSize = r.Content.Measure(layout.MeasureCtx{
			Width:       ctx.Width,
			FirstHeight: firstHeight,
			Breakable: &layout.BreakableMeasure{
				FullHeight:             fullHeight,
				BreakCount:             &breakCount,
				ExtraLocationMinHeight: b.ExtraLocationMinHeight,
			},
		})
		*b.BreakCount += breakCount
	} else {
		contentSize = r.Content.Measure(layout.MeasureCtx{
			Width:       ctx.Width,
			FirstHeight: ctx.FirstHeight - yOffset,
		})
	}

	return r.size(titleSize, contentSize, r.collapse(breakCount, contentSize))
}

func (r RepeatAfterBreak) Draw(ctx layout.DrawCtx) layout.Size {
	titleFirstHeight := ctx.FirstHeight
	if ctx.Breakable != nil {
		titleFirstHeight = ctx.Breakable.FullHeight
	}
	titleSize := r.Title.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: titleFirstHeight,
	})
	yOffset := r.yOffset(titleSize)

	drawTitle := func(loc layout.Location) {
		r.Title.Draw(layout.DrawCtx{
			Location:    loc,
			Width:       ctx.Width,
			FirstHeight: titleFirstHeight,
		})
	}

	location := ctx.Location
	lastLocationIdx := 0
	var contentSize layout.Size

	if b := ctx.Breakable; b != nil {
		fullHeight := b.FullHeight - yOffset
		firstHeight := ctx.FirstHeight - yOffset
		locationOffset := 0
		if r.preBreak(ctx.Width, ctx.FirstHeight, b.FullHeight, yOffset) {
			firstHeight = fullHeight
			location = b.GetLocation(0)
			locationOffset = 1
		}

		contentSize = r.Content.Draw(layout.DrawCtx{
			Location: layout.Location{
				PageIndex: location.PageIndex,
				Surface:   location.Surface,
				X:         location.X,
				Y:         location.Y + yOffset,
			},
			Width:       ctx.Width,
			FirstHeight: firstHeight,
			Breakable: &layout.BreakableDraw{
				FullHeight: fullHeight,
				GetLocation: func(index int) layout.Location {
					next := b.GetLocation(index + locationOffset)

					// 跳过的中间位置也要补上标题。
					if lastLocationIdx <= index {
						for i := lastLocationIdx + 1; i <= index; i++ {
							drawTitle(b.GetLocation(i + locationOffset - 1))
						}
						drawTitle(next)
						lastLocationIdx = index + 1
					}

					next.Y += yOffset
					return next
				},
			},
		})
	} else {
		contentSize = r.Content.Draw(layout.DrawCtx{
			Location: layout.Location{
				PageIndex: location.PageIndex,
				Surface:   location.Surface,
				X:         location.X,
				Y:         location.Y + yOffset,
			},
			Width:       ctx.Width,
			FirstHeight: ctx.FirstHeight - yOffset,
		})
	}

	collapse := r.collapse(lastLocationIdx, contentSize)

	// 换过页的话标题已经在后续位置画过，这里补第一个位置的。
	if !collapse {
		drawTitle(location)
	}

	return r.size(titleSize, contentSize, collapse)
}
