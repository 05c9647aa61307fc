package element

import (
	"image/color"

	"github.com/folio-layout/folio/layout"
)

// Placeholder 是资源构造失败后的兜底元素：一个打叉的红框，让缺失的
// 图片或字体在产出的页面上一眼可见，而不是悄悄消失。
type Placeholder struct {
	// Width/Height 缺省为 32pt 见方。
	Width  layout.Extent
	Height layout.Extent
}

const placeholderDefaultSize = 32.0

var placeholderStyle = layout.LineStyle{
	Thickness: 1,
	Color:     color.RGBA{R: 200, A: 255},
}

func (p Placeholder) dims() (w, h float64) {
	return p.Width.Or(placeholderDefaultSize), p.Height.Or(placeholderDefaultSize)
}

func (p Placeholder) size() layout.Size {
	w, h := p.dims()
	return layout.Size{Width: layout.SomeExtent(w), Height: layout.SomeExtent(h)}
}

func (p Placeholder) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	_, h := p.dims()
	if h > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (p Placeholder) Measure(ctx layout.MeasureCtx) layout.Size {
	_, h := p.dims()
	ctx.BreakIfAppropriateForMinHeight(h)
	return p.size()
}

func (p Placeholder) Draw(ctx layout.DrawCtx) layout.Size {
	w, h := p.dims()
	ctx.BreakIfAppropriateForMinHeight(h)

	x, y := ctx.Location.X, ctx.Location.Y
	box := new(layout.Path).Rect(x, y, w, h)
	cross := new(layout.Path).
		MoveTo(x, y).LineTo(x+w, y+h).
		MoveTo(x+w, y).LineTo(x, y+h)
	ctx.Location.Surface.StrokePath(box, placeholderStyle)
	ctx.Location.Surface.StrokePath(cross, placeholderStyle)
	return p.size()
}
