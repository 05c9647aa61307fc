package element

import "github.com/folio-layout/folio/layout"

// ShrinkToFit 在首高放不下子元素时整体等比缩小，使它恰好占满可用高度；
// 缩小不低于 MinHeight 对应的比例。可分页上下文里首高小于 MinHeight 时
// 先换页，换页后按整页高度缩放；不可分页时宁可溢出也不缩得更小。
type ShrinkToFit struct {
	Inner     layout.Element
	MinHeight float64
}

type shrinkLayout struct {
	preBreak    bool
	scaleFactor float64
	size        layout.Size
	scaledSize  layout.Size
	height      float64
}

func (s ShrinkToFit) layout(width layout.WidthConstraint, firstHeight float64, fullHeight layout.Extent) shrinkLayout {
	preBreak := false
	available := firstHeight
	if firstHeight < s.MinHeight {
		preBreak = fullHeight.Valid
		// 可用高度为负会把元素翻转，下限取 MinHeight。
		available = max(fullHeight.Or(firstHeight), s.MinHeight)
	}

	size := s.Inner.Measure(layout.MeasureCtx{
		Width:       width,
		FirstHeight: available,
	})

	height := available
	scaleFactor := 1.0
	if size.Height.Valid && size.Height.Value > available {
		height = size.Height.Value
		scaleFactor = available / size.Height.Value
	}

	scaled := size
	if scaled.Width.Valid {
		scaled.Width = layout.SomeExtent(scaled.Width.Value * scaleFactor)
	}
	if scaled.Height.Valid {
		scaled.Height = layout.SomeExtent(scaled.Height.Value * scaleFactor)
	}

	return shrinkLayout{
		preBreak:    preBreak,
		scaleFactor: scaleFactor,
		size:        size,
		scaledSize:  scaled,
		height:      height,
	}
}

func (s ShrinkToFit) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	l := s.layout(ctx.Width, ctx.FirstHeight, layout.SomeExtent(ctx.FullHeight))
	switch {
	case l.preBreak:
		return layout.WillSkip
	case l.size.Height.Valid:
		return layout.WillUse
	default:
		return layout.NoneHeight
	}
}

func (s ShrinkToFit) Measure(ctx layout.MeasureCtx) layout.Size {
	var fullHeight layout.Extent
	if ctx.Breakable != nil {
		fullHeight = layout.SomeExtent(ctx.Breakable.FullHeight)
	}
	l := s.layout(ctx.Width, ctx.FirstHeight, fullHeight)
	if l.preBreak {
		*ctx.Breakable.BreakCount = 1
	}
	return l.scaledSize
}

func (s ShrinkToFit) Draw(ctx layout.DrawCtx) layout.Size {
	var fullHeight layout.Extent
	if ctx.Breakable != nil {
		fullHeight = layout.SomeExtent(ctx.Breakable.FullHeight)
	}
	l := s.layout(ctx.Width, ctx.FirstHeight, fullHeight)

	location := ctx.Location
	if l.preBreak {
		location = ctx.Breakable.GetLocation(0)
	}

	// 子元素在缩放坐标系里画，位置除以比例抵消变换。
	location.Surface.PushTransform(layout.ScaleAffine(l.scaleFactor))
	s.Inner.Draw(layout.DrawCtx{
		Location: layout.Location{
			PageIndex: location.PageIndex,
			Surface:   location.Surface,
			X:         location.X / l.scaleFactor,
			Y:         location.Y / l.scaleFactor,
		},
		Width:       ctx.Width,
		FirstHeight: l.height,
	})
	location.Surface.Pop()

	return l.scaledSize
}
