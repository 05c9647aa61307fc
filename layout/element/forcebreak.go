package element

import "github.com/folio-layout/folio/layout"

// ForceBreak 无条件消费一个分页位置，自身没有尺寸。在不可分页的上下文
// 中它是空操作。
type ForceBreak struct{}

func (ForceBreak) FirstLocationUsage(layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	// 不是 WillSkip：WillSkip 意味着给足整页首高结果也一样，而强制
	// 换页在整页首高下依然换页。
	return layout.WillUse
}

func (ForceBreak) Measure(ctx layout.MeasureCtx) layout.Size {
	if ctx.Breakable != nil {
		*ctx.Breakable.BreakCount = 1
	}
	return layout.Size{}
}

func (ForceBreak) Draw(ctx layout.DrawCtx) layout.Size {
	if ctx.Breakable != nil {
		ctx.Breakable.GetLocation(0)
	}
	return layout.Size{}
}
