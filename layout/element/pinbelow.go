package element

import "github.com/folio-layout/folio/layout"

// PinBelow 在内容的最后一个位置下方钉一个不分页的元素。内容的可用高度
// 先扣掉钉住元素的高度和间距，保证它总能跟在内容后面。Collapse 为真且
// 内容折叠时整体折叠，钉住元素也不画。
type PinBelow struct {
	Content  layout.Element
	Pinned   layout.Element
	Gap      float64
	Collapse bool
}

type pinBelowCommon struct {
	firstHeight  float64
	fullHeight   layout.Extent
	bottomSize   layout.Size
	bottomHeight float64
	preBreak     bool
	contentFLU   *layout.FirstLocationUsage
}

func (p PinBelow) common(width layout.WidthConstraint, firstHeight float64, fullHeight layout.Extent) pinBelowCommon {
	bottomSize := p.Pinned.Measure(layout.MeasureCtx{
		Width:       width,
		FirstHeight: fullHeight.Or(firstHeight),
	})

	bottomHeight := 0.0
	if bottomSize.Height.Valid {
		bottomHeight = bottomSize.Height.Value + p.Gap
	}

	c := pinBelowCommon{
		firstHeight:  firstHeight - bottomHeight,
		bottomSize:   bottomSize,
		bottomHeight: bottomHeight,
	}
	if fullHeight.Valid {
		c.fullHeight = layout.SomeExtent(fullHeight.Value - bottomHeight)
	}

	if c.fullHeight.Valid && c.firstHeight < c.fullHeight.Value && !p.Collapse {
		if bottomSize.Height.Valid && bottomSize.Height.Value > c.firstHeight {
			c.preBreak = true
		} else {
			flu := p.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
				Width:       width,
				FirstHeight: c.firstHeight,
				FullHeight:  c.fullHeight.Value,
			})
			c.contentFLU = &flu
			c.preBreak = flu == layout.WillSkip
		}
	}
	if c.preBreak {
		c.firstHeight = c.fullHeight.Value
	}
	return c
}

// contentOffset 把内容高度换算成钉住元素的竖直偏移。内容折叠而又不允许
// 整体折叠时按零高处理。
func (p PinBelow) contentOffset(contentHeight layout.Extent) layout.Extent {
	if contentHeight.Valid {
		return layout.SomeExtent(contentHeight.Value + p.Gap)
	}
	if !p.Collapse {
		return layout.SomeExtent(0)
	}
	return layout.Extent{}
}

func (p PinBelow) size(c pinBelowCommon, contentSize layout.Size) layout.Size {
	var height layout.Extent
	if offset := p.contentOffset(contentSize.Height); offset.Valid {
		height = layout.AddExtent(offset, c.bottomSize.Height)
	}
	return layout.Size{
		Width:  layout.MaxExtent(contentSize.Width, c.bottomSize.Width),
		Height: height,
	}
}

func (p PinBelow) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	c := p.common(ctx.Width, ctx.FirstHeight, layout.SomeExtent(ctx.FullHeight))
	if c.preBreak {
		return layout.WillSkip
	}

	var flu layout.FirstLocationUsage
	if c.contentFLU != nil {
		flu = *c.contentFLU
	} else {
		flu = p.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
			Width:       ctx.Width,
			FirstHeight: c.firstHeight,
			FullHeight:  c.fullHeight.Value,
		})
	}

	if flu == layout.NoneHeight && !p.Collapse {
		if !c.bottomSize.Height.Valid {
			return layout.NoneHeight
		}
		return layout.WillUse
	}
	return flu
}

func (p PinBelow) Measure(ctx layout.MeasureCtx) layout.Size {
	var fullHeight layout.Extent
	if ctx.Breakable != nil {
		fullHeight = layout.SomeExtent(ctx.Breakable.FullHeight)
	}
	c := p.common(ctx.Width, ctx.FirstHeight, fullHeight)

	breakCount := 0
	extraMin := 0.0

	mctx := layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: c.firstHeight,
	}
	if ctx.Breakable != nil {
		mctx.Breakable = &layout.BreakableMeasure{
			FullHeight:             c.fullHeight.Value,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		}
	}
	size := p.Content.Measure(mctx)

	if b := ctx.Breakable; b != nil {
		*b.BreakCount = breakCount
		if c.preBreak {
			*b.BreakCount++
		}
		if extraMin > 0 {
			*b.ExtraLocationMinHeight = extraMin + c.bottomHeight
		}
	}
	return p.size(c, size)
}

func (p PinBelow) Draw(ctx layout.DrawCtx) layout.Size {
	var fullHeight layout.Extent
	if ctx.Breakable != nil {
		fullHeight = layout.SomeExtent(ctx.Breakable.FullHeight)
	}
	c := p.common(ctx.Width, ctx.FirstHeight, fullHeight)

	currentLocation := ctx.Location
	preferredHeight := ctx.PreferredHeight
	if preferredHeight.Valid {
		preferredHeight = layout.SomeExtent(preferredHeight.Value - c.bottomHeight)
	}

	var size layout.Size
	if b := ctx.Breakable; b != nil {
		breakCount := 0
		location := ctx.Location
		locationOffset := 0
		if c.preBreak {
			currentLocation = b.GetLocation(0)
			location = currentLocation
			locationOffset = 1
		}

		size = p.Content.Draw(layout.DrawCtx{
			Location:        location,
			Width:           ctx.Width,
			FirstHeight:     c.firstHeight,
			PreferredHeight: preferredHeight,
			Breakable: &layout.BreakableDraw{
				FullHeight:                c.fullHeight.Value,
				PreferredHeightBreakCount: b.PreferredHeightBreakCount,
				GetLocation: func(index int) layout.Location {
					next := b.GetLocation(index + locationOffset)
					if index >= breakCount {
						breakCount = index + 1
						currentLocation = next
					}
					return next
				},
			},
		})
	} else {
		size = p.Content.Draw(layout.DrawCtx{
			Location:        ctx.Location,
			Width:           ctx.Width,
			FirstHeight:     c.firstHeight,
			PreferredHeight: preferredHeight,
		})
	}

	offset := p.contentOffset(size.Height)
	if offset.Valid && c.bottomSize.Height.Valid {
		p.Pinned.Draw(layout.DrawCtx{
			Location: layout.Location{
				PageIndex: currentLocation.PageIndex,
				Surface:   currentLocation.Surface,
				X:         currentLocation.X,
				Y:         currentLocation.Y + offset.Value,
			},
			Width:       ctx.Width,
			FirstHeight: c.bottomSize.Height.Value,
		})
	}

	return p.size(c, size)
}
