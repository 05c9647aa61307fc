// Package element 提供布局树的全部节点：容器、图元与分页控制元素。
// 所有元素无状态，坐标与尺寸单位为 pt。
package element

import "github.com/folio-layout/folio/layout"

// Column 自上而下排列子元素，子元素之间插入 Gap。高度折叠的子元素不占
// 位置，也不产生相邻的 gap。Content 闭包在每个协议操作中都会被调用一次，
// 通过 Add 逐个提交子元素；Add 返回 false 时应立即停止提交。
type Column struct {
	Gap     float64
	Content func(content *ColumnContent)
}

func (c Column) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	content := ColumnContent{gap: c.Gap, pass: passFirstLocationUsage, fluCtx: ctx, fluRet: layout.NoneHeight}
	c.Content(&content)
	return content.fluRet
}

func (c Column) Measure(ctx layout.MeasureCtx) layout.Size {
	content := ColumnContent{
		gap:             c.Gap,
		pass:            passMeasure,
		width:           ctx.Width,
		breakableM:      ctx.Breakable,
		heightAvailable: ctx.FirstHeight,
	}
	c.Content(&content)
	return layout.Size{Width: content.sizeWidth, Height: content.sizeHeight}
}

func (c Column) Draw(ctx layout.DrawCtx) layout.Size {
	content := ColumnContent{
		gap:             c.Gap,
		pass:            passDraw,
		width:           ctx.Width,
		location:        ctx.Location,
		breakableD:      ctx.Breakable,
		heightAvailable: ctx.FirstHeight,
	}
	c.Content(&content)
	return layout.Size{Width: content.sizeWidth, Height: content.sizeHeight}
}

type columnPass int

const (
	passFirstLocationUsage columnPass = iota
	passMeasure
	passDraw
)

// ColumnContent 是 Column 在一次协议操作中的游标状态。
type ColumnContent struct {
	gap  float64
	pass columnPass

	// first-location-usage 探针状态。
	fluCtx layout.FirstLocationUsageCtx
	fluRet layout.FirstLocationUsage
	fluHit bool

	// measure/draw 共享的游标。heightAvailable 起始为 FirstHeight，
	// 发生分页后变为 FullHeight。
	width           layout.WidthConstraint
	heightAvailable float64
	sizeWidth       layout.Extent
	sizeHeight      layout.Extent

	breakableM *layout.BreakableMeasure

	location       layout.Location
	locationOffset int
	breakableD     *layout.BreakableDraw
}

// Add 提交一个子元素并推进游标。返回 false 表示本次操作不再需要后续
// 子元素（探针已得到答案），调用方应停止提交。
func (c *ColumnContent) Add(el layout.Element) bool {
	switch c.pass {
	case passFirstLocationUsage:
		if c.fluHit {
			return false
		}
		usage := el.FirstLocationUsage(c.fluCtx)
		if usage == layout.NoneHeight {
			return true
		}
		c.fluRet = usage
		c.fluHit = true
		return false

	case passMeasure:
		c.measureChild(el)
		return true

	default:
		c.drawChild(el)
		return true
	}
}

// childFirstHeight 是下一个子元素可用的首高：当前可用高度减去已经占用
// 的高度，若前面已有内容则再减去一个 gap。gap 在这里预扣，只有当子元素
// 真的在该位置产生高度时才会被提交。
func (c *ColumnContent) childFirstHeight() float64 {
	h := c.heightAvailable - c.sizeHeight.Or(0)
	if c.sizeHeight.Valid {
		h -= c.gap
	}
	return h
}

func (c *ColumnContent) accumulate(size layout.Size) {
	if size.Height.Valid {
		if c.sizeHeight.Valid {
			c.sizeHeight = layout.SomeExtent(c.sizeHeight.Value + c.gap + size.Height.Value)
		} else {
			c.sizeHeight = size.Height
		}
	}
	c.sizeWidth = layout.MaxExtent(c.sizeWidth, size.Width)
}

func (c *ColumnContent) measureChild(el layout.Element) {
	ctx := layout.MeasureCtx{
		Width:       c.width,
		FirstHeight: c.childFirstHeight(),
	}

	var size layout.Size
	if b := c.breakableM; b != nil {
		breakCount := 0
		// 不向子元素传 preferred height，因此也忽略它的
		// extra-location 最小高度。
		extraMin := 0.0
		ctx.Breakable = &layout.BreakableMeasure{
			FullHeight:             b.FullHeight,
			BreakCount:             &breakCount,
			ExtraLocationMinHeight: &extraMin,
		}
		size = el.Measure(ctx)
		if breakCount > 0 {
			c.heightAvailable = b.FullHeight
			c.sizeHeight = layout.Extent{}
			*b.BreakCount += breakCount
		}
	} else {
		size = el.Measure(ctx)
	}

	c.accumulate(size)
}

func (c *ColumnContent) drawChild(el layout.Element) {
	loc := c.location
	if c.sizeHeight.Valid {
		loc.Y += c.sizeHeight.Value + c.gap
	}
	ctx := layout.DrawCtx{
		Location:    loc,
		Width:       c.width,
		FirstHeight: c.childFirstHeight(),
	}

	var size layout.Size
	if b := c.breakableD; b != nil {
		breakCount := 0
		ctx.Breakable = &layout.BreakableDraw{
			FullHeight: b.FullHeight,
			GetLocation: func(index int) layout.Location {
				c.heightAvailable = b.FullHeight
				newLocation := b.GetLocation(index + c.locationOffset)
				if index+1 > breakCount {
					breakCount = index + 1
					c.location = newLocation
				}
				return newLocation
			},
		}
		size = el.Draw(ctx)
		if breakCount > 0 {
			c.locationOffset += breakCount
			c.heightAvailable = b.FullHeight
			c.sizeHeight = layout.Extent{}
		}
	} else {
		size = el.Draw(ctx)
	}

	c.accumulate(size)
}
