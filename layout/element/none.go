package element

import "github.com/folio-layout/folio/layout"

// None 在两个轴上都折叠，不占任何空间。放进支持折叠的容器（如 Column）
// 时，它前后的 gap 会合并；全员折叠的容器自身也折叠。适合做条件布局里
// "什么都不放" 的那个分支。
type None struct{}

func (None) FirstLocationUsage(layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.NoneHeight
}

func (None) Measure(layout.MeasureCtx) layout.Size { return layout.Size{} }

func (None) Draw(layout.DrawCtx) layout.Size { return layout.Size{} }

// VGap 产生一段固定高度的空白，超出首高时被截到首高。宽度折叠。
type VGap struct {
	Height float64
}

func (v VGap) FirstLocationUsage(layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.WillUse
}

func (v VGap) Measure(ctx layout.MeasureCtx) layout.Size {
	return v.size(ctx.FirstHeight)
}

func (v VGap) Draw(ctx layout.DrawCtx) layout.Size {
	return v.size(ctx.FirstHeight)
}

func (v VGap) size(firstHeight float64) layout.Size {
	h := v.Height
	if firstHeight < h {
		h = firstHeight
	}
	return layout.Size{Height: layout.SomeExtent(h)}
}
