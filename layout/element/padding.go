package element

import "github.com/folio-layout/folio/layout"

// Padding 在子元素四周留白：收窄宽度约束、缩短每个位置的可用高度，并把
// 子元素的尺寸加回留白后上报。
type Padding struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	Inner  layout.Element
}

// Pad 给四边相同的留白。
func Pad(all float64, inner layout.Element) Padding {
	return Padding{Left: all, Right: all, Top: all, Bottom: all, Inner: inner}
}

func (p Padding) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return p.Inner.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       p.innerWidth(ctx.Width),
		FirstHeight: p.innerHeight(ctx.FirstHeight),
		FullHeight:  p.innerHeight(ctx.FullHeight),
	})
}

func (p Padding) Measure(ctx layout.MeasureCtx) layout.Size {
	inner := layout.MeasureCtx{
		Width:       p.innerWidth(ctx.Width),
		FirstHeight: p.innerHeight(ctx.FirstHeight),
	}
	if b := ctx.Breakable; b != nil {
		inner.Breakable = &layout.BreakableMeasure{
			FullHeight:             p.innerHeight(b.FullHeight),
			BreakCount:             b.BreakCount,
			ExtraLocationMinHeight: b.ExtraLocationMinHeight,
		}
	}
	return p.outerSize(p.Inner.Measure(inner))
}

func (p Padding) Draw(ctx layout.DrawCtx) layout.Size {
	loc := ctx.Location
	loc.X += p.Left
	loc.Y += p.Top

	inner := layout.DrawCtx{
		Location:        loc,
		Width:           p.innerWidth(ctx.Width),
		FirstHeight:     p.innerHeight(ctx.FirstHeight),
		PreferredHeight: ctx.PreferredHeight,
	}
	if inner.PreferredHeight.Valid {
		inner.PreferredHeight = layout.SomeExtent(p.innerHeight(inner.PreferredHeight.Value))
	}
	if b := ctx.Breakable; b != nil {
		inner.Breakable = &layout.BreakableDraw{
			FullHeight:                p.innerHeight(b.FullHeight),
			PreferredHeightBreakCount: b.PreferredHeightBreakCount,
			GetLocation: func(index int) layout.Location {
				next := b.GetLocation(index)
				next.X += p.Left
				next.Y += p.Top
				return next
			},
		}
	}
	return p.outerSize(p.Inner.Draw(inner))
}

func (p Padding) innerWidth(c layout.WidthConstraint) layout.WidthConstraint {
	return layout.WidthConstraint{Max: c.Max - p.Left - p.Right, Expand: c.Expand}
}

func (p Padding) innerHeight(h float64) float64 {
	return h - p.Top - p.Bottom
}

func (p Padding) outerSize(size layout.Size) layout.Size {
	if size.Width.Valid {
		size.Width = layout.SomeExtent(size.Width.Value + p.Left + p.Right)
	}
	if size.Height.Valid {
		size.Height = layout.SomeExtent(size.Height.Value + p.Top + p.Bottom)
	}
	return size
}
