package element

import "github.com/folio-layout/folio/layout"

// ChangingTitle 在内容的第一个位置上方画 FirstTitle，换页后的每个位置
// 上方画 RemainingTitle，标题与内容之间留 Gap。"续表"样式的表头就用它。
// Collapse 为真且内容折叠时标题都不画，整体折叠。
type ChangingTitle struct {
	FirstTitle     layout.Element
	RemainingTitle layout.Element
	Content        layout.Element
	Gap            float64
	Collapse       bool
}

type changingTitleBreakable struct {
	fullHeight           float64
	preBreak             bool
	remainingTitleSize   layout.Size
	totalRemainingHeight float64
	contentFLU           *layout.FirstLocationUsage
}

type changingTitleCommon struct {
	firstHeight      float64
	firstTitleSize   layout.Size
	totalFirstHeight float64
	breakable        *changingTitleBreakable
}

func (c ChangingTitle) common(width layout.WidthConstraint, firstHeight float64, fullHeight layout.Extent) changingTitleCommon {
	firstTitleSize := c.FirstTitle.Measure(layout.MeasureCtx{
		Width:       width,
		FirstHeight: fullHeight.Or(firstHeight),
	})

	totalFirst := 0.0
	if firstTitleSize.Height.Valid {
		totalFirst = firstTitleSize.Height.Value + c.Gap
	}
	firstHeight -= totalFirst

	common := changingTitleCommon{
		firstTitleSize:   firstTitleSize,
		totalFirstHeight: totalFirst,
	}

	if fullHeight.Valid {
		remainingTitleSize := c.RemainingTitle.Measure(layout.MeasureCtx{
			Width:       width,
			FirstHeight: fullHeight.Value,
		})
		totalRemaining := 0.0
		if remainingTitleSize.Height.Valid {
			totalRemaining = remainingTitleSize.Height.Value + c.Gap
		}
		fullH := fullHeight.Value - totalRemaining

		b := &changingTitleBreakable{
			fullHeight:           fullH,
			remainingTitleSize:   remainingTitleSize,
			totalRemainingHeight: totalRemaining,
		}

		if firstHeight < fullH && !c.Collapse {
			if firstTitleSize.Height.Valid && firstTitleSize.Height.Value > firstHeight {
				b.preBreak = true
			} else {
				flu := c.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
					Width:       width,
					FirstHeight: firstHeight,
					FullHeight:  fullH,
				})
				b.contentFLU = &flu
				b.preBreak = flu == layout.WillSkip
			}
		}

		if b.preBreak {
			firstHeight = fullH
		} else {
			// 首高不允许超过扣掉标题后的整页高。
			firstHeight = min(firstHeight, fullH)
		}
		common.breakable = b
	}

	common.firstHeight = firstHeight
	return common
}

func (c ChangingTitle) height(titleHeight, contentHeight layout.Extent) layout.Extent {
	var h layout.Extent
	switch {
	case contentHeight.Valid:
		h = layout.SomeExtent(contentHeight.Value + c.Gap)
	case !c.Collapse:
		h = layout.SomeExtent(0)
	default:
		return layout.Extent{}
	}
	return layout.AddExtent(h, titleHeight)
}

func (c ChangingTitle) size(common changingTitleCommon, breakCount int, contentSize layout.Size) layout.Size {
	firstWidth := layout.MaxExtent(contentSize.Width, common.firstTitleSize.Width)
	if breakCount == 0 {
		return layout.Size{
			Width:  firstWidth,
			Height: c.height(common.firstTitleSize.Height, contentSize.Height),
		}
	}
	b := common.breakable
	return layout.Size{
		Width:  layout.MaxExtent(firstWidth, b.remainingTitleSize.Width),
		Height: c.height(b.remainingTitleSize.Height, contentSize.Height),
	}
}

func (c ChangingTitle) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	common := c.common(ctx.Width, ctx.FirstHeight, layout.SomeExtent(ctx.FullHeight))
	b := common.breakable

	if b.preBreak {
		return layout.WillSkip
	}

	var flu layout.FirstLocationUsage
	if b.contentFLU != nil {
		flu = *b.contentFLU
	} else {
		flu = c.Content.FirstLocationUsage(layout.FirstLocationUsageCtx{
			Width:       ctx.Width,
			FirstHeight: common.firstHeight,
			FullHeight:  b.fullHeight,
		})
	}

	if flu == layout.NoneHeight && !c.Collapse {
		if !common.firstTitleSize.Height.Valid {
			return layout.NoneHeight
		}
		return layout.WillUse
	}
	return flu
}

func (c ChangingTitle) Measure(ctx layout.MeasureCtx) layout.Size {
	var fullHeight layout.Extent
	if ctx.Breakable != nil {
		fullHeight = layout.SomeExtent(ctx.Breakable.FullHeight)
	}
	common := c.common(ctx.Width, ctx.FirstHeight, fullHeight)

	breakCount := 0
	extraMin := 0.0

	mctx := layout.MeasureCtx{
		Width:       ctx.Width,
		FirstHeight: common.firstHeight,
	}
	if ctx.Breakable != nil {
		mctx.Breakable = &layout.BreakableMeasure{
			FullHeight:             common.breakable.fullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		}
	}
	size := c.Content.Measure(mctx)

	if b := ctx.Breakable; b != nil {
		*b.BreakCount = breakCount
		if common.breakable.preBreak {
			*b.BreakCount++
		}
		if extraMin > 0 {
			*b.ExtraLocationMinHeight = extraMin + common.breakable.totalRemainingHeight
		}
	}

	return c.size(common, breakCount, size)
}

func (c ChangingTitle) Draw(ctx layout.DrawCtx) layout.Size {
	var fullHeight layout.Extent
	if ctx.Breakable != nil {
		fullHeight = layout.SomeExtent(ctx.Breakable.FullHeight)
	}
	common := c.common(ctx.Width, ctx.FirstHeight, fullHeight)

	drawTitle := func(el layout.Element, loc layout.Location, height float64) {
		el.Draw(layout.DrawCtx{
			Location:    loc,
			Width:       ctx.Width,
			FirstHeight: height,
		})
	}

	currentLocation := ctx.Location
	breakCount := 0
	var size layout.Size

	if b := ctx.Breakable; b != nil {
		cb := common.breakable

		location := ctx.Location
		locationOffset := 0
		if cb.preBreak {
			currentLocation = b.GetLocation(0)
			location = currentLocation
			locationOffset = 1
		}

		preferredHeight := ctx.PreferredHeight
		if preferredHeight.Valid {
			sub := cb.totalRemainingHeight
			if b.PreferredHeightBreakCount > 0 {
				sub = common.totalFirstHeight
			}
			preferredHeight = layout.SomeExtent(preferredHeight.Value - sub)
		}

		size = c.Content.Draw(layout.DrawCtx{
			Location: layout.Location{
				PageIndex: location.PageIndex,
				Surface:   location.Surface,
				X:         location.X,
				Y:         location.Y + common.totalFirstHeight,
			},
			Width:           ctx.Width,
			FirstHeight:     common.firstHeight,
			PreferredHeight: preferredHeight,
			Breakable: &layout.BreakableDraw{
				FullHeight:                cb.fullHeight,
				PreferredHeightBreakCount: b.PreferredHeightBreakCount,
				GetLocation: func(index int) layout.Location {
					var next layout.Location
					if index >= breakCount {
						if breakCount == 0 && common.firstTitleSize.Height.Valid {
							drawTitle(c.FirstTitle, location, common.firstTitleSize.Height.Value)
						}

						if cb.remainingTitleSize.Height.Valid && index > 0 {
							firstIdx := index
							if !c.Collapse {
								firstIdx = max(breakCount, 1)
							}
							// i 是要画标题的位置，不是换出它的位置。
							for i := firstIdx; i <= index; i++ {
								titleLoc := currentLocation
								if i != breakCount {
									titleLoc = b.GetLocation(locationOffset + i - 1)
								}
								drawTitle(c.RemainingTitle, titleLoc, cb.remainingTitleSize.Height.Value)
							}
						}

						breakCount = index + 1
						currentLocation = b.GetLocation(locationOffset + index)
						next = currentLocation
					} else {
						next = b.GetLocation(locationOffset + index)
					}

					next.Y += cb.totalRemainingHeight
					return next
				},
			},
		})
	} else {
		preferredHeight := ctx.PreferredHeight
		if preferredHeight.Valid {
			preferredHeight = layout.SomeExtent(preferredHeight.Value - common.totalFirstHeight)
		}
		size = c.Content.Draw(layout.DrawCtx{
			Location: layout.Location{
				PageIndex: ctx.Location.PageIndex,
				Surface:   ctx.Location.Surface,
				X:         ctx.Location.X,
				Y:         ctx.Location.Y + common.totalFirstHeight,
			},
			Width:           ctx.Width,
			FirstHeight:     common.firstHeight,
			PreferredHeight: preferredHeight,
		})
	}

	// 最后一个位置上的标题在这里补画；中间位置的已经在换页回调里画过。
	var titleHeight layout.Extent
	if breakCount == 0 {
		titleHeight = common.firstTitleSize.Height
	} else {
		titleHeight = common.breakable.remainingTitleSize.Height
	}
	if titleHeight.Valid && (size.Height.Valid || !c.Collapse) {
		if breakCount == 0 {
			drawTitle(c.FirstTitle, currentLocation, titleHeight.Value)
		} else {
			drawTitle(c.RemainingTitle, currentLocation, titleHeight.Value)
		}
	}

	return c.size(common, breakCount, size)
}
