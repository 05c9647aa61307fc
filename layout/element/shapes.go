package element

import (
	"image/color"

	"github.com/folio-layout/folio/layout"
)

// Rectangle 是固定尺寸的矩形，可填充、可描边。描边在形状外侧各占半个
// 线宽，因此上报尺寸包含整个线宽。整体放不进首高且换页有意义时先换页。
type Rectangle struct {
	Width   float64
	Height  float64
	Fill    *color.RGBA
	Outline *layout.LineStyle
}

func (r Rectangle) outlineThickness() float64 {
	if r.Outline == nil {
		return 0
	}
	return r.Outline.Thickness
}

func (r Rectangle) size() layout.Size {
	t := r.outlineThickness()
	return layout.Size{
		Width:  layout.SomeExtent(r.Width + t),
		Height: layout.SomeExtent(r.Height + t),
	}
}

func (r Rectangle) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	h := r.Height + r.outlineThickness()
	if h > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (r Rectangle) Measure(ctx layout.MeasureCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(r.Height + r.outlineThickness())
	return r.size()
}

func (r Rectangle) Draw(ctx layout.DrawCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(r.Height + r.outlineThickness())

	inset := r.outlineThickness() / 2
	path := new(layout.Path).Rect(ctx.Location.X+inset, ctx.Location.Y+inset, r.Width, r.Height)
	if r.Fill != nil {
		ctx.Location.Surface.FillPath(path, *r.Fill)
	}
	if r.Outline != nil {
		ctx.Location.Surface.StrokePath(path, *r.Outline)
	}
	return r.size()
}

// Circle 是半径固定的圆，可填充、可描边。
type Circle struct {
	Radius  float64
	Fill    *color.RGBA
	Outline *layout.LineStyle
}

func (c Circle) outlineThickness() float64 {
	if c.Outline == nil {
		return 0
	}
	return c.Outline.Thickness
}

func (c Circle) size() layout.Size {
	d := c.Radius*2 + c.outlineThickness()
	return layout.Size{Width: layout.SomeExtent(d), Height: layout.SomeExtent(d)}
}

func (c Circle) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	h := c.Radius*2 + c.outlineThickness()
	if h > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (c Circle) Measure(ctx layout.MeasureCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(c.Radius*2 + c.outlineThickness())
	return c.size()
}

func (c Circle) Draw(ctx layout.DrawCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(c.Radius*2 + c.outlineThickness())

	inset := c.outlineThickness() / 2
	cx := ctx.Location.X + inset + c.Radius
	cy := ctx.Location.Y + inset + c.Radius
	path := new(layout.Path).Circle(cx, cy, c.Radius)
	if c.Fill != nil {
		ctx.Location.Surface.FillPath(path, *c.Fill)
	}
	if c.Outline != nil {
		ctx.Location.Surface.StrokePath(path, *c.Outline)
	}
	return c.size()
}

// Line 是一条横贯可用宽度的水平线。只有在展开的宽度约束下才有长度可画；
// 高度始终等于线宽。
type Line struct {
	Style layout.LineStyle
}

// HRule 返回给定线宽的黑色实线。
func HRule(thickness float64) Line {
	return Line{Style: layout.LineStyle{
		Thickness: thickness,
		Color:     color.RGBA{A: 255},
	}}
}

func (l Line) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if l.Style.Thickness > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (l Line) Measure(ctx layout.MeasureCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(l.Style.Thickness)
	return l.size(ctx.Width)
}

func (l Line) Draw(ctx layout.DrawCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(l.Style.Thickness)

	if ctx.Width.Expand {
		y := ctx.Location.Y + l.Style.Thickness/2
		path := new(layout.Path).
			MoveTo(ctx.Location.X, y).
			LineTo(ctx.Location.X+ctx.Width.Max, y)
		ctx.Location.Surface.StrokePath(path, l.Style)
	}
	return l.size(ctx.Width)
}

func (l Line) size(width layout.WidthConstraint) layout.Size {
	return layout.Size{
		Width:  layout.SomeExtent(width.Constrain(0)),
		Height: layout.SomeExtent(l.Style.Thickness),
	}
}
