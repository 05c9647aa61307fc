package element

import "github.com/folio-layout/folio/layout"

// Titled 给内容加一个不分页的标题，两者之间留 Gap。标题绝不单独留在
// 页尾：标题加上内容首行放不进首高时整体先换页。CollapseOnEmptyContent
// 为真且内容折叠时标题也不画。
type Titled struct {
	Title   layout.Element
	Content layout.Element
	Gap     float64

	CollapseOnEmptyContent bool
}

func (t Titled) yOffset(titleSize layout.Size) float64 {
	if titleSize.Height.Valid {
		return titleSize.Height.Value + t.Gap
	}
	return 0
}

func (t Titled) collapse(breakCount int, contentSize layout.Size) bool {
	return t.CollapseOnEmptyContent && breakCount == 0 && !contentSize.Height.Valid
}

func (t Titled) size(titleSize, contentSize layout.Size, breakCount int, collapse bool) layout.Size {
	var size layout.Size
	if collapse {
		size.Width = contentSize.Width
		return size
	}
	size.Width = layout.MaxExtent(titleSize.Width, contentSize.Width)
	if breakCount == 0 {
		size.Height = layout.AddExtentGap(titleSize.Height, contentSize.Height, t.Gap)
	} else {
		size.Height = contentSize.Height
	}
	return size
}

// preBreak 判断标题加内容首行是否应该整体挪到下一页。
func (t Titled) preBreak(width layout.WidthConstraint, firstHeight, fullHeight, yOffset float64) bool {
	if firstHeight >= fullHeight {
		return false
	}
	if yOffset > firstHeight {
		return true
	}
	return t.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       width,
		FirstHeight: firstHeight - yOffset,
		FullHeight:  fullHeight,
	}) == layout.WillSkip
}

func (t Titled) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	titleSize := t.Title.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: ctx.FullHeight,
	})

	collapse := t.CollapseOnEmptyContent || !titleSize.Height.Valid
	if !collapse && ctx.FirstHeight == ctx.FullHeight {
		return layout.WillUse
	}

	yOffset := t.yOffset(titleSize)
	flu := t.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
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

func (t Titled) Measure(ctx layout.MeasureCtx) layout.Size {
	titleFirstHeight := ctx.FirstHeight
	if ctx.Breakable != nil {
		titleFirstHeight = ctx.Breakable.FullHeight
	}
	titleSize := t.Title.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: titleFirstHeight,
	})
	yOffset := t.yOffset(titleSize)

	breakCount := 0
	var contentSize layout.Size

	if b := ctx.Breakable; b != nil {
		firstHeight := ctx.FirstHeight - yOffset
		if t.preBreak(ctx.Width, ctx.FirstHeight, b.FullHeight, yOffset) {
			firstHeight = b.FullHeight - yOffset
			*b.BreakCount = 1
		}

		contentSize = t.Content.Measure(layout.MeasureCtx{
			Width:       ctx.Width,
			FirstHeight: firstHeight,
			Breakable: &layout.BreakableMeasure{
				FullHeight:             b.FullHeight,
				BreakCount:             &breakCount,
				ExtraLocationMinHeight: b.ExtraLocationMinHeight,
			},
		})
		*b.BreakCount += breakCount
	} else {
		contentSize = t.Content.Measure(layout.MeasureCtx{
			Width:       ctx.Width,
			FirstHeight: ctx.FirstHeight - yOffset,
		})
	}

	return t.size(titleSize, contentSize, breakCount, t.collapse(breakCount, contentSize))
}

func (t Titled) Draw(ctx layout.DrawCtx) layout.Size {
	titleFirstHeight := ctx.FirstHeight
	if ctx.Breakable != nil {
		titleFirstHeight = ctx.Breakable.FullHeight
	}
	titleSize := t.Title.Measure(layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: titleFirstHeight,
	})
	yOffset := t.yOffset(titleSize)

	location := ctx.Location
	breakCount := 0
	var contentSize layout.Size

	if b := ctx.Breakable; b != nil {
		firstHeight := ctx.FirstHeight - yOffset
		locationOffset := 0
		if t.preBreak(ctx.Width, ctx.FirstHeight, b.FullHeight, yOffset) {
			firstHeight = b.FullHeight - yOffset
			location = b.GetLocation(0)
			locationOffset = 1
		}

		contentSize = t.Content.Draw(layout.DrawCtx{
			Location: layout.Location{
				PageIndex: location.PageIndex,
				Surface:   location.Surface,
				X:         location.X,
				Y:         location.Y + yOffset,
			},
			Width:       ctx.Width,
			FirstHeight: firstHeight,
			Breakable: &layout.BreakableDraw{
				FullHeight: b.FullHeight,
				GetLocation: func(index int) layout.Location {
					if index+1 > breakCount {
						breakCount = index + 1
					}
					return b.GetLocation(index + locationOffset)
				},
			},
		})
	} else {
		contentSize = t.Content.Draw(layout.DrawCtx{
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

	collapse := t.collapse(breakCount, contentSize)
	if !collapse {
		t.Title.Draw(layout.DrawCtx{
			Location:    location,
			Width:       ctx.Width,
			FirstHeight: titleFirstHeight,
		})
	}

	return t.size(titleSize, contentSize, breakCount, collapse)
}
