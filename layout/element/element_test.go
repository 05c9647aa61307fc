package element_test

import (
	"image"
	"image/color"

	"github.com/folio-layout/folio/layout"
)

// recordSurface 记录输出调用，断言元素画了什么。
type recordSurface struct {
	page    int
	fills   []*layout.Path
	strokes []*layout.Path
	spans   []layout.TextSpan
	images  int
	pushes  int
	clips   []layout.Rect
	pops    int
}

func (s *recordSurface) FillPath(p *layout.Path, _ color.RGBA) { s.fills = append(s.fills, p) }

func (s *recordSurface) StrokePath(p *layout.Path, _ layout.LineStyle) {
	s.strokes = append(s.strokes, p)
}

func (s *recordSurface) Text(span layout.TextSpan, _, _ float64) { s.spans = append(s.spans, span) }

func (s *recordSurface) Image(image.Image, float64, float64, float64, float64) { s.images++ }

func (s *recordSurface) PushTransform(layout.Affine) { s.pushes++ }

func (s *recordSurface) PushClip(r layout.Rect) { s.clips = append(s.clips, r) }

func (s *recordSurface) Pop() { s.pops++ }

// oracle 是测试用的页位置来源：GetLocation(i) 幂等地返回第 i+1 页左上角，
// 页面按需补齐。
type oracle struct {
	surfaces []*recordSurface
	maxIndex int
}

func newOracle() *oracle {
	return &oracle{surfaces: []*recordSurface{{page: 0}}, maxIndex: -1}
}

func (o *oracle) first() layout.Location {
	return layout.Location{PageIndex: 0, Surface: o.surfaces[0]}
}

func (o *oracle) get(index int) layout.Location {
	for len(o.surfaces) <= index+1 {
		o.surfaces = append(o.surfaces, &recordSurface{page: len(o.surfaces)})
	}
	if index > o.maxIndex {
		o.maxIndex = index
	}
	return layout.Location{PageIndex: index + 1, Surface: o.surfaces[index+1]}
}

// pages 返回本次绘制用掉的页数。
func (o *oracle) pages() int { return o.maxIndex + 2 }

// probe 是固定尺寸的叶子元素，记录每次协议调用收到的上下文。
type probe struct {
	width  float64
	height float64

	drawCtxs *[]layout.DrawCtx
}

func (p probe) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	if p.height > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (p probe) size(width layout.WidthConstraint) layout.Size {
	return layout.Size{
		Width:  layout.SomeExtent(width.Constrain(p.width)),
		Height: layout.SomeExtent(p.height),
	}
}

func (p probe) Measure(ctx layout.MeasureCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(p.height)
	return p.size(ctx.Width)
}

func (p probe) Draw(ctx layout.DrawCtx) layout.Size {
	ctx.BreakIfAppropriateForMinHeight(p.height)
	if p.drawCtxs != nil {
		*p.drawCtxs = append(*p.drawCtxs, ctx)
	}
	return p.size(ctx.Width)
}

// measureBreakable 构造可分页测量上下文并返回 breakCount 的地址。
func measureBreakable(firstHeight, fullHeight float64, width layout.WidthConstraint) (layout.MeasureCtx, *int) {
	breakCount := 0
	extraMin := 0.0
	return layout.MeasureCtx{
		Width:       width,
		FirstHeight: firstHeight,
		Breakable: &layout.BreakableMeasure{
			FullHeight:             fullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		},
	}, &breakCount
}

// drawBreakable 构造可分页绘制上下文，页位置来自 o。
func drawBreakable(o *oracle, firstHeight, fullHeight float64, width layout.WidthConstraint) layout.DrawCtx {
	return layout.DrawCtx{
		Location:    o.first(),
		Width:       width,
		FirstHeight: firstHeight,
		Breakable: &layout.BreakableDraw{
			FullHeight:  fullHeight,
			GetLocation: o.get,
		},
	}
}
