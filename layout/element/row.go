package element

import "github.com/folio-layout/folio/layout"

// Row 水平排列子元素。子元素按 Flex 策略分宽：自然宽度、固定宽度或按
// 权重瓜分剩余空间。Row 自身不跨页；子元素的分页由各自处理并以最大页数
// 对齐。Expand 为 true 时所有子元素被拉到同一高度：最大高度与最大分页数
// 通过 PreferredHeight/PreferredHeightBreakCount 传给每个子元素，供底部
// 对齐和背景填充使用。
//
// Content 闭包至少被调用两遍（非扩展子元素要先量一遍宽度），昂贵的构造
// 应放在闭包外面。
type Row struct {
	Gap      float64
	Expand   bool
	Collapse bool
	Content  func(content *RowContent)
}

func (r Row) FirstLocationUsage(layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	return layout.WillUse
}

func (r Row) Measure(ctx layout.MeasureCtx) layout.Size {
	ml := newMeasureLayout(ctx.Width.Max, r.Gap)
	var maxHeight layout.Extent

	r.Content(&RowContent{
		width:       ctx.Width,
		firstHeight: ctx.FirstHeight,
		pass: rowPass{
			kind:       rowMeasureNonExpanded,
			mLayout:    ml,
			maxHeight:  &maxHeight,
			breakableM: ctx.Breakable,
		},
	})

	var width layout.Extent
	if w, ok := ml.noExpandTotal(); ok {
		width = layout.SomeExtent(w)
	}
	dl := ml.build()

	widthOut := &width
	if ctx.Width.Expand {
		widthOut = nil
	}
	r.Content(&RowContent{
		width:       ctx.Width,
		firstHeight: ctx.FirstHeight,
		pass: rowPass{
			kind:       rowMeasureExpanded,
			dLayout:    dl,
			maxHeight:  &maxHeight,
			width:      widthOut,
			gap:        r.Gap,
			breakableM: ctx.Breakable,
		},
	})

	return r.finish(ctx.Width, width, maxHeight)
}

func (r Row) Draw(ctx layout.DrawCtx) layout.Size {
	ml := newMeasureLayout(ctx.Width.Max, r.Gap)
	var maxHeight layout.Extent

	breakCount := 0
	extraMin := 0.0
	var measureBreakable *layout.BreakableMeasure
	if ctx.Breakable != nil {
		measureBreakable = &layout.BreakableMeasure{
			FullHeight:             ctx.Breakable.FullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		}
	}

	var nonExpandedHeight *layout.Extent
	if r.Expand {
		nonExpandedHeight = &maxHeight
	}
	r.Content(&RowContent{
		width:       ctx.Width,
		firstHeight: ctx.FirstHeight,
		pass: rowPass{
			kind:       rowMeasureNonExpanded,
			mLayout:    ml,
			maxHeight:  nonExpandedHeight,
			breakableM: measureBreakable,
		},
	})

	dl := ml.build()

	// 等高模式需要额外一遍测量拿到所有子元素的最大高度与分页数，
	// 这正是 Expand 不默认开启的原因之一。
	if r.Expand {
		r.Content(&RowContent{
			width:       ctx.Width,
			firstHeight: ctx.FirstHeight,
			pass: rowPass{
				kind:       rowMeasureExpanded,
				dLayout:    dl,
				maxHeight:  &maxHeight,
				gap:        r.Gap,
				breakableM: measureBreakable,
			},
		})

		if b := ctx.Breakable; b != nil {
			switch {
			case breakCount == b.PreferredHeightBreakCount:
				ctx.PreferredHeight = layout.MaxExtent(ctx.PreferredHeight, maxHeight)
			case breakCount > b.PreferredHeightBreakCount:
				b.PreferredHeightBreakCount = breakCount
				ctx.PreferredHeight = maxHeight
			}
		} else {
			ctx.PreferredHeight = layout.MaxExtent(ctx.PreferredHeight, maxHeight)
		}
	}

	var width layout.Extent
	r.Content(&RowContent{
		width:       ctx.Width,
		firstHeight: ctx.FirstHeight,
		pass: rowPass{
			kind:            rowDraw,
			dLayout:         dl,
			maxHeight:       &maxHeight,
			width:           &width,
			gap:             r.Gap,
			location:        ctx.Location,
			preferredHeight: ctx.PreferredHeight,
			breakableD:      ctx.Breakable,
		},
	})

	return r.finish(ctx.Width, width, maxHeight)
}

func (r Row) finish(constraint layout.WidthConstraint, width, maxHeight layout.Extent) layout.Size {
	if !r.Collapse {
		if !width.Valid {
			width = layout.SomeExtent(0)
		}
		if !maxHeight.Valid {
			maxHeight = layout.SomeExtent(0)
		}
	}
	if constraint.Expand {
		w := constraint.Max
		if width.Valid && width.Value > w {
			w = width.Value
		}
		width = layout.SomeExtent(w)
	}
	return layout.Size{Width: width, Height: maxHeight}
}

type rowPassKind int

const (
	rowMeasureNonExpanded rowPassKind = iota
	rowMeasureExpanded
	rowDraw
)

type rowPass struct {
	kind rowPassKind

	mLayout *measureLayout
	dLayout drawLayout

	maxHeight *layout.Extent
	width     *layout.Extent
	gap       float64

	breakableM *layout.BreakableMeasure

	location        layout.Location
	preferredHeight layout.Extent
	drawBreakCount  int
	breakableD      *layout.BreakableDraw
}

// RowContent 是 Row 在一遍操作中的游标状态。
type RowContent struct {
	width       layout.WidthConstraint
	firstHeight float64
	pass        rowPass
}

// FlexGap 插入一个按权重扩展的弹性空隙，用于推开或居中两侧内容。
func (c *RowContent) FlexGap(weight int) {
	c.Add(None{}, Expand(weight))
}

// addHeight 把一个子元素的测量结果并入行高：分页数更多的子元素获胜，
// 持平时取最大末页高度。
func (c *RowContent) addHeight(size layout.Size, breakCount int, extraMin float64) {
	p := &c.pass
	if b := p.breakableM; b != nil {
		if extraMin > *b.ExtraLocationMinHeight {
			*b.ExtraLocationMinHeight = extraMin
		}
		switch {
		case breakCount < *b.BreakCount:
		case breakCount == *b.BreakCount:
			*p.maxHeight = layout.MaxExtent(*p.maxHeight, size.Height)
		default:
			*b.BreakCount = breakCount
			*p.maxHeight = size.Height
		}
	} else {
		*p.maxHeight = layout.MaxExtent(*p.maxHeight, size.Height)
	}
}

func (c *RowContent) addWidth(w float64) {
	p := &c.pass
	if p.width.Valid {
		*p.width = layout.SomeExtent(p.width.Value + p.gap + w)
	} else {
		*p.width = layout.SomeExtent(w)
	}
}

func (c *RowContent) measureChild(el layout.Element, constraint layout.WidthConstraint, wantHeight bool) layout.Size {
	ctx := layout.MeasureCtx{Width: constraint, FirstHeight: c.firstHeight}
	if !wantHeight {
		return el.Measure(ctx)
	}
	breakCount := 0
	extraMin := 0.0
	if b := c.pass.breakableM; b != nil {
		ctx.Breakable = &layout.BreakableMeasure{
			FullHeight:             b.FullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		}
	}
	size := el.Measure(ctx)
	c.addHeight(size, breakCount, extraMin)
	return size
}

// Add 以给定的 Flex 策略提交一个子元素。
func (c *RowContent) Add(el layout.Element, flex Flex) {
	p := &c.pass
	switch p.kind {
	case rowMeasureNonExpanded:
		switch flex.mode {
		case flexExpand:
			p.mLayout.addExpand(flex.weight)
		case flexSelfSized:
			size := c.measureChild(el, layout.WidthConstraint{Max: c.width.Max}, p.maxHeight != nil)
			// 没有宽度的子元素视为折叠，不参与排布。
			if size.Width.Valid {
				p.mLayout.addFixed(size.Width.Value)
			}
		case flexFixed:
			p.mLayout.addFixed(flex.width)
			if p.maxHeight != nil {
				c.measureChild(el, layout.WidthConstraint{Max: flex.width, Expand: true}, true)
			}
		}

	case rowMeasureExpanded:
		if flex.mode != flexExpand {
			return
		}
		size := c.measureChild(el, layout.WidthConstraint{
			Max:    p.dLayout.expandWidth(flex.weight),
			Expand: c.width.Expand,
		}, true)
		if p.width != nil && size.Width.Valid {
			c.addWidth(size.Width.Value)
		}

	case rowDraw:
		c.drawChild(el, flex)
	}
}

func (c *RowContent) drawChild(el layout.Element, flex Flex) {
	p := &c.pass

	var constraint layout.WidthConstraint
	switch flex.mode {
	case flexExpand:
		constraint = layout.WidthConstraint{Max: p.dLayout.expandWidth(flex.weight), Expand: c.width.Expand}
	case flexSelfSized:
		constraint = layout.WidthConstraint{Max: c.width.Max}
	case flexFixed:
		constraint = layout.WidthConstraint{Max: flex.width, Expand: true}
	}

	xOffset := 0.0
	if p.width.Valid {
		xOffset = p.width.Value + p.gap
	}

	loc := p.location
	loc.X += xOffset

	ctx := layout.DrawCtx{
		Location:        loc,
		Width:           constraint,
		FirstHeight:     c.firstHeight,
		PreferredHeight: p.preferredHeight,
	}

	elementBreakCount := 0
	if b := p.breakableD; b != nil {
		ctx.Breakable = &layout.BreakableDraw{
			FullHeight:                b.FullHeight,
			PreferredHeightBreakCount: b.PreferredHeightBreakCount,
			GetLocation: func(index int) layout.Location {
				if index+1 > elementBreakCount {
					elementBreakCount = index + 1
				}
				next := b.GetLocation(index)
				next.X += xOffset
				return next
			},
		}
	}

	size := el.Draw(ctx)

	if p.breakableD != nil {
		switch {
		case elementBreakCount < p.drawBreakCount:
		case elementBreakCount == p.drawBreakCount:
			*p.maxHeight = layout.MaxExtent(*p.maxHeight, size.Height)
		default:
			p.drawBreakCount = elementBreakCount
			*p.maxHeight = size.Height
		}
	} else {
		*p.maxHeight = layout.MaxExtent(*p.maxHeight, size.Height)
	}

	switch {
	case flex.mode == flexFixed, flex.mode == flexExpand && c.width.Expand:
		c.addWidth(constraint.Max)
	default:
		if size.Width.Valid {
			c.addWidth(size.Width.Value)
		}
	}
}
