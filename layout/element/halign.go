package element

import "github.com/folio-layout/folio/layout"

// Alignment 是水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// HAlign 在展开的宽度约束内按对齐方式摆放子元素。非展开约束下它是
// 透明的：没有多余空间可以分配。
type HAlign struct {
	Align Alignment
	Inner layout.Element
}

func (h HAlign) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	ctx.Width = layout.WidthConstraint{Max: ctx.Width.Max}
	return h.Inner.FirstLocationUsage(ctx)
}

func (h HAlign) Measure(ctx layout.MeasureCtx) layout.Size {
	constraint := ctx.Width
	ctx.Width = layout.WidthConstraint{Max: constraint.Max}
	size := h.Inner.Measure(ctx)
	if size.Width.Valid {
		size.Width = layout.SomeExtent(constraint.Constrain(size.Width.Value))
	}
	return size
}

func (h HAlign) Draw(ctx layout.DrawCtx) layout.Size {
	constraint := ctx.Width
	if !constraint.Expand {
		size := h.Inner.Draw(ctx)
		if size.Width.Valid {
			size.Width = layout.SomeExtent(constraint.Constrain(size.Width.Value))
		}
		return size
	}

	// 先用自然宽度量一遍，才知道往哪边挪。
	breakCount := 0
	extraMin := 0.0
	mctx := layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: constraint.Max},
		FirstHeight: ctx.FirstHeight,
	}
	if b := ctx.Breakable; b != nil {
		mctx.Breakable = &layout.BreakableMeasure{
			FullHeight:             b.FullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		}
	}
	measured := h.Inner.Measure(mctx)

	xOffset := 0.0
	elementWidth := constraint.Max
	if measured.Width.Valid {
		elementWidth = measured.Width.Value
		switch h.Align {
		case AlignCenter:
			xOffset = (constraint.Max - elementWidth) / 2
		case AlignRight:
			xOffset = constraint.Max - elementWidth
		}
	}

	ctx.Location.X += xOffset
	ctx.Width = layout.WidthConstraint{Max: elementWidth, Expand: true}
	if b := ctx.Breakable; b != nil {
		ctx.Breakable = &layout.BreakableDraw{
			FullHeight:                b.FullHeight,
			PreferredHeightBreakCount: b.PreferredHeightBreakCount,
			GetLocation: func(index int) layout.Location {
				next := b.GetLocation(index)
				next.X += xOffset
				return next
			},
		}
	}

	size := h.Inner.Draw(ctx)
	if size.Width.Valid {
		size.Width = layout.SomeExtent(constraint.Constrain(size.Width.Value))
	}
	return size
}
