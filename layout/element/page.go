package element

import (
	"math"

	"github.com/folio-layout/folio/layout"
)

// Page 把每个位置当成一整页用：主内容缩进四边留白排版，每一页再叠加一
// 层装饰（页眉、页脚、页码）。装饰回调拿到页序号和总页数，放在内容之后
// 才调用，所以页码能写成 "第 i 页 / 共 n 页"。
type Page struct {
	Primary layout.Element

	BorderLeft   float64
	BorderRight  float64
	BorderTop    float64
	BorderBottom float64

	// Decorate 在每个占用的位置上调用一次。为 nil 时不画装饰。
	Decorate func(d *PageDecorations, pageIndex, pageCount int)
}

func (p Page) innerWidth(width layout.WidthConstraint) float64 {
	return width.Max - p.BorderLeft - p.BorderRight
}

func (p Page) innerHeight(fullHeight float64) float64 {
	return fullHeight - p.BorderTop - p.BorderBottom
}

func (p Page) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	// 用过的页不再进新内容，首高不满就整页跳过。
	if ctx.FirstHeight < ctx.FullHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (p Page) Measure(ctx layout.MeasureCtx) layout.Size {
	if b := ctx.Breakable; b != nil {
		breakCount := 0
		extraMin := 0.0
		primaryHeight := p.innerHeight(b.FullHeight)

		p.Primary.Measure(layout.MeasureCtx{
			Width:       layout.WidthConstraint{Max: p.innerWidth(ctx.Width), Expand: true},
			FirstHeight: primaryHeight,
			Breakable: &layout.BreakableMeasure{
				FullHeight:             primaryHeight,
				BreakCount:             &breakCount,
				ExtraLocationMinHeight: &extraMin,
			},
		})

		if ctx.FirstHeight < b.FullHeight {
			breakCount++
		}
		*b.BreakCount = breakCount

		return layout.Size{
			Width:  layout.SomeExtent(ctx.Width.Max),
			Height: layout.SomeExtent(b.FullHeight),
		}
	}

	return layout.Size{
		Width:  layout.SomeExtent(ctx.Width.Max),
		Height: layout.SomeExtent(ctx.FirstHeight),
	}
}

func (p Page) Draw(ctx layout.DrawCtx) layout.Size {
	height := ctx.FirstHeight
	if ctx.Breakable != nil {
		height = ctx.Breakable.FullHeight
	}
	primaryHeight := p.innerHeight(height)

	location := ctx.Location
	locationOffset := 0
	if b := ctx.Breakable; b != nil && ctx.FirstHeight < b.FullHeight {
		location = b.GetLocation(0)
		locationOffset = 1
	}

	breakCount := 0
	dctx := layout.DrawCtx{
		Location: layout.Location{
			PageIndex: location.PageIndex,
			Surface:   location.Surface,
			X:         location.X + p.BorderLeft,
			Y:         location.Y + p.BorderTop,
		},
		Width:       layout.WidthConstraint{Max: p.innerWidth(ctx.Width), Expand: true},
		FirstHeight: primaryHeight,
	}
	if b := ctx.Breakable; b != nil {
		dctx.Breakable = &layout.BreakableDraw{
			FullHeight: primaryHeight,
			GetLocation: func(index int) layout.Location {
				if index+1 > breakCount {
					breakCount = index + 1
				}
				next := b.GetLocation(index + locationOffset)
				next.X += p.BorderLeft
				next.Y += p.BorderTop
				return next
			},
		}
	}
	p.Primary.Draw(dctx)

	if p.Decorate != nil {
		if b := ctx.Breakable; b != nil {
			for i := 0; i <= breakCount; i++ {
				loc := location
				if i > 0 {
					loc = b.GetLocation(i + locationOffset - 1)
				}
				p.Decorate(&PageDecorations{
					location: loc,
					width:    ctx.Width.Max,
					height:   height,
				}, i, breakCount+1)
			}
		} else {
			p.Decorate(&PageDecorations{
				location: location,
				width:    ctx.Width.Max,
				height:   height,
			}, 0, 1)
		}
	}

	return layout.Size{
		Width:  layout.SomeExtent(ctx.Width.Max),
		Height: layout.SomeExtent(height),
	}
}

// PageDecorations 把装饰元素摆进一页。坐标带符号：非负的 x/y 从左上角
// 量起，负的从右下角量起（-0.0 也算负）。
type PageDecorations struct {
	location layout.Location
	width    float64
	height   float64
}

// Add 在 (x, y) 画一个不分页的装饰元素。width 给定时元素以展开约束拿到
// 这个宽度，否则宽度上限取到所在边缘的距离。
func (d *PageDecorations) Add(el layout.Element, x, y float64, width layout.Extent) {
	var drawX, maxWidth float64
	if math.Signbit(x) {
		drawX = d.location.X + d.width + x
		maxWidth = -x
	} else {
		drawX = d.location.X + x
		maxWidth = d.width - x
	}

	var drawY, firstHeight float64
	if math.Signbit(y) {
		drawY = d.location.Y + d.height + y
		firstHeight = -y
	} else {
		drawY = d.location.Y + y
		firstHeight = d.height - y
	}

	el.Draw(layout.DrawCtx{
		Location: layout.Location{
			PageIndex: d.location.PageIndex,
			Surface:   d.location.Surface,
			X:         drawX,
			Y:         drawY,
		},
		Width:       layout.WidthConstraint{Max: width.Or(maxWidth), Expand: width.Valid},
		FirstHeight: firstHeight,
	})
}
