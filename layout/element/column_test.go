package element_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/layout/element"
)

func column(gap float64, children ...layout.Element) element.Column {
	return element.Column{Gap: gap, Content: func(content *element.ColumnContent) {
		for _, child := range children {
			if !content.Add(child) {
				return
			}
		}
	}}
}

func TestColumnGapBetweenChildren(t *testing.T) {
	col := column(5, element.VGap{Height: 10}, element.VGap{Height: 20}, element.VGap{Height: 30})
	size := col.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 1000,
	})
	want := layout.Size{Height: layout.SomeExtent(10 + 5 + 20 + 5 + 30)}
	if diff := cmp.Diff(want, size); diff != "" {
		t.Fatalf("尺寸不符 (-want +got):\n%s", diff)
	}
}

func TestColumnElidesGapAroundCollapsed(t *testing.T) {
	col := column(5, element.VGap{Height: 10}, element.None{}, element.VGap{Height: 30})
	size := col.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 1000,
	})
	if got := size.Height.Or(-1); got != 10+5+30 {
		t.Fatalf("折叠子元素不应产生 gap，高度 %v", got)
	}
}

func TestColumnAllCollapsedIsCollapsed(t *testing.T) {
	col := column(5, element.None{}, element.None{})
	size := col.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 1000,
	})
	if size.Height.Valid || size.Width.Valid {
		t.Fatalf("全员折叠的列应当折叠: %+v", size)
	}
	if got := col.FirstLocationUsage(layout.FirstLocationUsageCtx{FirstHeight: 100, FullHeight: 100}); got != layout.NoneHeight {
		t.Fatalf("全员折叠的列 FirstLocationUsage 应为 NoneHeight，得到 %v", got)
	}
}

func TestColumnFirstLocationUsageSkipsCollapsed(t *testing.T) {
	col := column(5, element.None{}, probe{width: 10, height: 200})
	got := col.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 50,
		FullHeight:  300,
	})
	if got != layout.WillSkip {
		t.Fatalf("首个有高度的子元素决定结果，期望 WillSkip，得到 %v", got)
	}
}

func TestColumnBreakResetsHeight(t *testing.T) {
	col := column(4, element.VGap{Height: 10}, element.ForceBreak{}, element.VGap{Height: 20})

	ctx, breaks := measureBreakable(100, 100, layout.WidthConstraint{Max: 100})
	size := col.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("期望 1 次分页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 20 {
		t.Fatalf("分页后高度只计末页内容，期望 20，得到 %v", got)
	}
}

func TestColumnDrawMatchesMeasure(t *testing.T) {
	build := func() element.Column {
		return column(4,
			element.VGap{Height: 30},
			probe{width: 40, height: 25},
			element.ForceBreak{},
			probe{width: 60, height: 45},
		)
	}
	width := layout.WidthConstraint{Max: 100, Expand: true}

	mctx, breaks := measureBreakable(120, 120, width)
	measured := build().Measure(mctx)

	o := newOracle()
	drawn := build().Draw(drawBreakable(o, 120, 120, width))

	if diff := cmp.Diff(measured, drawn); diff != "" {
		t.Fatalf("Measure 与 Draw 的尺寸不一致 (-measure +draw):\n%s", diff)
	}
	if o.pages() != *breaks+1 {
		t.Fatalf("分页数与页数不一致: breaks=%d pages=%d", *breaks, o.pages())
	}
}

func TestColumnDrawAdvancesLocations(t *testing.T) {
	var ctxs []layout.DrawCtx
	col := column(5,
		element.VGap{Height: 10},
		probe{width: 10, height: 20, drawCtxs: &ctxs},
		element.ForceBreak{},
		probe{width: 10, height: 30, drawCtxs: &ctxs},
	)
	o := newOracle()
	col.Draw(drawBreakable(o, 200, 200, layout.WidthConstraint{Max: 100}))

	if len(ctxs) != 2 {
		t.Fatalf("期望两次子元素绘制，得到 %d", len(ctxs))
	}
	first := ctxs[0]
	if first.Location.PageIndex != 0 || first.Location.Y != 10+5 {
		t.Fatalf("第二个子元素应在首页 gap 之后: %+v", first.Location)
	}
	second := ctxs[1]
	if second.Location.PageIndex != 1 || second.Location.Y != 0 {
		t.Fatalf("分页后的子元素应从次页顶部开始: %+v", second.Location)
	}
	if second.FirstHeight != 200 {
		t.Fatalf("分页后的首高应为整页高度，得到 %v", second.FirstHeight)
	}
}
