package element_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/layout/element"
)

func stack(expand bool, children ...layout.Element) element.Stack {
	return element.Stack{Expand: expand, Content: func(content *element.StackContent) {
		for _, child := range children {
			content.Add(child)
		}
	}}
}

func TestStackSizeIsComponentwiseMax(t *testing.T) {
	s := stack(false, probe{width: 30, height: 20}, probe{width: 50, height: 10})
	size := s.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 100,
	})
	want := layout.Size{Width: layout.SomeExtent(50), Height: layout.SomeExtent(20)}
	if diff := cmp.Diff(want, size); diff != "" {
		t.Fatalf("尺寸不符 (-want +got):\n%s", diff)
	}
}

func TestStackBreakingLayerDominatesHeight(t *testing.T) {
	s := stack(false, probe{width: 10, height: 20}, probe{width: 10, height: 60})
	ctx, breaks := measureBreakable(30, 100, layout.WidthConstraint{Max: 100})
	size := s.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("期望 1 次分页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 60 {
		t.Fatalf("分页更多的层决定高度，得到 %v", got)
	}
}

func TestStackFirstLocationUsageFavorsUse(t *testing.T) {
	s := stack(false, probe{width: 10, height: 200}, probe{width: 10, height: 10})
	got := s.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 50,
		FullHeight:  100,
	})
	if got != layout.WillUse {
		t.Fatalf("有层能用首位置时应为 WillUse，得到 %v", got)
	}

	empty := stack(false, element.None{})
	if got := empty.FirstLocationUsage(layout.FirstLocationUsageCtx{FirstHeight: 50, FullHeight: 100}); got != layout.NoneHeight {
		t.Fatalf("全员折叠的叠层应为 NoneHeight，得到 %v", got)
	}
}

func TestTitledComposesSizes(t *testing.T) {
	ti := element.Titled{Title: probe{width: 40, height: 10}, Content: probe{width: 60, height: 30}, Gap: 5}
	size := ti.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 100,
	})
	want := layout.Size{Width: layout.SomeExtent(60), Height: layout.SomeExtent(10 + 5 + 30)}
	if diff := cmp.Diff(want, size); diff != "" {
		t.Fatalf("尺寸不符 (-want +got):\n%s", diff)
	}
}

func TestTitledNeverStrandsTitle(t *testing.T) {
	ti := element.Titled{Title: probe{width: 40, height: 10}, Content: probe{width: 60, height: 50}}

	if got := ti.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 30,
		FullHeight:  100,
	}); got != layout.WillSkip {
		t.Fatalf("标题加首行放不下时应整体换页，得到 %v", got)
	}

	ctx, breaks := measureBreakable(30, 100, layout.WidthConstraint{Max: 100})
	size := ti.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("期望 1 次分页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 60 {
		t.Fatalf("换页后高度为标题加内容，得到 %v", got)
	}

	var titleCtxs, contentCtxs []layout.DrawCtx
	td := element.Titled{
		Title:   probe{width: 40, height: 10, drawCtxs: &titleCtxs},
		Content: probe{width: 60, height: 50, drawCtxs: &contentCtxs},
	}
	o := newOracle()
	td.Draw(drawBreakable(o, 30, 100, layout.WidthConstraint{Max: 100}))
	if titleCtxs[0].Location.PageIndex != 1 || titleCtxs[0].Location.Y != 0 {
		t.Fatalf("标题应画在换页后的页顶: %+v", titleCtxs[0].Location)
	}
	if contentCtxs[0].Location.PageIndex != 1 || contentCtxs[0].Location.Y != 10 {
		t.Fatalf("内容应紧跟标题之下: %+v", contentCtxs[0].Location)
	}
}

func TestTitledCollapsesWithEmptyContent(t *testing.T) {
	var titleCtxs []layout.DrawCtx
	ti := element.Titled{
		Title:                  probe{width: 40, height: 10, drawCtxs: &titleCtxs},
		Content:                element.None{},
		CollapseOnEmptyContent: true,
	}
	size := ti.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 100,
	})
	if size.Height.Valid {
		t.Fatalf("内容折叠时整体应折叠: %+v", size)
	}

	ti.Draw(layout.DrawCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 100})
	if len(titleCtxs) != 0 {
		t.Fatalf("折叠时不应画标题")
	}
}

func TestRepeatAfterBreakRedrawsTitle(t *testing.T) {
	var titleCtxs, contentCtxs []layout.DrawCtx
	r := element.RepeatAfterBreak{
		Title: probe{width: 40, height: 10, drawCtxs: &titleCtxs},
		Content: column(0,
			element.VGap{Height: 80},
			element.ForceBreak{},
			probe{width: 20, height: 20, drawCtxs: &contentCtxs},
		),
	}

	ctx, breaks := measureBreakable(100, 100, layout.WidthConstraint{Max: 100})
	size := r.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("期望 1 次分页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 10+20 {
		t.Fatalf("高度为标题加末页内容，得到 %v", got)
	}

	o := newOracle()
	r.Draw(drawBreakable(o, 100, 100, layout.WidthConstraint{Max: 100}))
	if len(titleCtxs) != 2 {
		t.Fatalf("标题应在每个位置重画，画了 %d 次", len(titleCtxs))
	}
	pages := []int{titleCtxs[0].Location.PageIndex, titleCtxs[1].Location.PageIndex}
	if !(pages[0] == 1 && pages[1] == 0) {
		t.Fatalf("标题应覆盖两页页顶，得到 %v", pages)
	}
	if titleCtxs[0].Location.Y != 0 || titleCtxs[1].Location.Y != 0 {
		t.Fatalf("标题都应画在页顶: %+v", titleCtxs)
	}
	if contentCtxs[0].Location.PageIndex != 1 || contentCtxs[0].Location.Y != 10 {
		t.Fatalf("换页后的内容应排在重画标题之下: %+v", contentCtxs[0].Location)
	}
}

func TestChangingTitleSwitchesAfterBreak(t *testing.T) {
	var firstCtxs, restCtxs, contentCtxs []layout.DrawCtx
	c := element.ChangingTitle{
		FirstTitle:     probe{width: 40, height: 10, drawCtxs: &firstCtxs},
		RemainingTitle: probe{width: 40, height: 8, drawCtxs: &restCtxs},
		Content: column(0,
			element.VGap{Height: 80},
			element.ForceBreak{},
			probe{width: 20, height: 20, drawCtxs: &contentCtxs},
		),
	}

	o := newOracle()
	size := c.Draw(drawBreakable(o, 100, 100, layout.WidthConstraint{Max: 100}))

	if len(firstCtxs) != 1 || firstCtxs[0].Location.PageIndex != 0 {
		t.Fatalf("首页应画 FirstTitle: %+v", firstCtxs)
	}
	if len(restCtxs) != 1 || restCtxs[0].Location.PageIndex != 1 || restCtxs[0].Location.Y != 0 {
		t.Fatalf("次页应画 RemainingTitle: %+v", restCtxs)
	}
	if contentCtxs[0].Location.PageIndex != 1 || contentCtxs[0].Location.Y != 8 {
		t.Fatalf("次页内容应排在续页标题之下: %+v", contentCtxs[0].Location)
	}
	if got := size.Height.Or(-1); got != 8+20 {
		t.Fatalf("末页高度为续页标题加内容，得到 %v", got)
	}
}

func TestPinBelowFollowsContent(t *testing.T) {
	var contentCtxs, pinnedCtxs []layout.DrawCtx
	p := element.PinBelow{
		Content: probe{width: 50, height: 40, drawCtxs: &contentCtxs},
		Pinned:  probe{width: 30, height: 10, drawCtxs: &pinnedCtxs},
		Gap:     5,
	}
	size := p.Draw(layout.DrawCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 100})

	if got := contentCtxs[0].FirstHeight; got != 100-10-5 {
		t.Fatalf("内容可用高度应扣掉钉住元素，得到 %v", got)
	}
	if got := pinnedCtxs[0].Location.Y; got != 40+5 {
		t.Fatalf("钉住元素应排在内容之下，得到 %v", got)
	}
	want := layout.Size{Width: layout.SomeExtent(50), Height: layout.SomeExtent(40 + 5 + 10)}
	if diff := cmp.Diff(want, size); diff != "" {
		t.Fatalf("尺寸不符 (-want +got):\n%s", diff)
	}
}

func TestPinBelowPreBreaks(t *testing.T) {
	p := element.PinBelow{
		Content: probe{width: 50, height: 80},
		Pinned:  probe{width: 30, height: 10},
	}
	ctx, breaks := measureBreakable(50, 100, layout.WidthConstraint{Max: 100})
	size := p.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("扣掉钉住高度后放不下时应换页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 80+10 {
		t.Fatalf("高度为内容加钉住元素，得到 %v", got)
	}
}

func TestPinBelowCollapses(t *testing.T) {
	var pinnedCtxs []layout.DrawCtx
	p := element.PinBelow{
		Content:  element.None{},
		Pinned:   probe{width: 30, height: 10, drawCtxs: &pinnedCtxs},
		Collapse: true,
	}
	size := p.Measure(layout.MeasureCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 100})
	if size.Height.Valid {
		t.Fatalf("内容折叠时整体应折叠: %+v", size)
	}

	p.Draw(layout.DrawCtx{Width: layout.WidthConstraint{Max: 100}, FirstHeight: 100})
	if len(pinnedCtxs) != 0 {
		t.Fatalf("折叠时不应画钉住元素")
	}
}

func TestShrinkToFitScalesDown(t *testing.T) {
	s := element.ShrinkToFit{Inner: probe{width: 40, height: 200}, MinHeight: 50}
	size := s.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 100,
	})
	want := layout.Size{Width: layout.SomeExtent(20), Height: layout.SomeExtent(100)}
	if diff := cmp.Diff(want, size); diff != "" {
		t.Fatalf("缩放尺寸不符 (-want +got):\n%s", diff)
	}
}

func TestShrinkToFitNoopWhenFits(t *testing.T) {
	s := element.ShrinkToFit{Inner: probe{width: 40, height: 30}, MinHeight: 20}
	size := s.Measure(layout.MeasureCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 100,
	})
	want := layout.Size{Width: layout.SomeExtent(40), Height: layout.SomeExtent(30)}
	if diff := cmp.Diff(want, size); diff != "" {
		t.Fatalf("放得下时不应缩放 (-want +got):\n%s", diff)
	}
}

func TestShrinkToFitPreBreaksBelowMinHeight(t *testing.T) {
	s := element.ShrinkToFit{Inner: probe{width: 40, height: 200}, MinHeight: 50}

	if got := s.FirstLocationUsage(layout.FirstLocationUsageCtx{
		Width:       layout.WidthConstraint{Max: 100},
		FirstHeight: 30,
		FullHeight:  100,
	}); got != layout.WillSkip {
		t.Fatalf("首高低于下限时应换页，得到 %v", got)
	}

	ctx, breaks := measureBreakable(30, 100, layout.WidthConstraint{Max: 100})
	size := s.Measure(ctx)
	if *breaks != 1 {
		t.Fatalf("期望 1 次分页，得到 %d", *breaks)
	}
	if got := size.Height.Or(-1); got != 100 {
		t.Fatalf("换页后按整页高度缩放，得到 %v", got)
	}

	o := newOracle()
	s.Draw(drawBreakable(o, 30, 100, layout.WidthConstraint{Max: 100}))
	next := o.surfaces[1]
	if next.pushes != 1 || next.pops != 1 {
		t.Fatalf("缩放应包在一对变换里: pushes=%d pops=%d", next.pushes, next.pops)
	}
}

func TestExpandToPreferredHeightLiftsHeight(t *testing.T) {
	e := element.ExpandToPreferredHeight{Inner: probe{width: 10, height: 30}}
	size := e.Draw(layout.DrawCtx{
		Width:           layout.WidthConstraint{Max: 100},
		FirstHeight:     100,
		PreferredHeight: layout.SomeExtent(80),
	})
	if got := size.Height.Or(-1); got != 80 {
		t.Fatalf("上报高度应抬到首选高度，得到 %v", got)
	}
}

func TestExpandToPreferredHeightCatchesUpBreaks(t *testing.T) {
	e := element.ExpandToPreferredHeight{Inner: probe{width: 10, height: 10}}
	o := newOracle()
	size := e.Draw(layout.DrawCtx{
		Location:        o.first(),
		Width:           layout.WidthConstraint{Max: 100},
		FirstHeight:     100,
		PreferredHeight: layout.SomeExtent(80),
		Breakable: &layout.BreakableDraw{
			FullHeight:                100,
			PreferredHeightBreakCount: 1,
			GetLocation:               o.get,
		},
	})
	if o.pages() != 2 {
		t.Fatalf("应补齐同组元素占用的页数，得到 %d", o.pages())
	}
	if got := size.Height.Or(-1); got != 80 {
		t.Fatalf("补页后高度为首选高度，得到 %v", got)
	}
}
