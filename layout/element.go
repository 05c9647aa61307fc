package layout

// Element 是布局树节点的三操作协议。元素是无状态的：相同的上下文必须
// 产生相同的输出，draw 额外向 Surface 写入内容。
//
// 协议本身不返回错误。会失败的资源（字体、图片、SVG）在构造元素时失败，
// 并降级为占位元素。
type Element interface {
	// FirstLocationUsage 是廉价的预判探针：在当前 FirstHeight 下绘制时，
	// 元素会占用当前位置、跳到下一页，还是完全没有高度。
	FirstLocationUsage(ctx FirstLocationUsageCtx) FirstLocationUsage

	// Measure 计算尺寸与分页数，不产生输出。幂等。
	Measure(ctx MeasureCtx) Size

	// Draw 输出内容并返回与 Measure 相同的尺寸。容器通过最后一次
	// GetLocation 的结果加上返回高度推算后续内容的位置。
	Draw(ctx DrawCtx) Size
}

// FirstLocationUsage 表示元素对当前位置的使用意向。
type FirstLocationUsage int

const (
	// NoneHeight 表示元素在该位置没有任何垂直占用。
	NoneHeight FirstLocationUsage = iota

	// WillUse 表示元素会在该位置开始输出。
	WillUse

	// WillSkip 表示元素选择先换页再输出。WillSkip 隐含一个约束：
	// 用整页首高绘制时结果必须与换页后相同。
	WillSkip
)

func (u FirstLocationUsage) String() string {
	switch u {
	case NoneHeight:
		return "NoneHeight"
	case WillUse:
		return "WillUse"
	case WillSkip:
		return "WillSkip"
	default:
		return "Unknown"
	}
}

// FirstLocationUsageCtx 携带探针所需的几何信息。FullHeight 始终有效，
// 即使调用方自身处于不可分页的上下文。
type FirstLocationUsageCtx struct {
	Width       WidthConstraint
	FirstHeight float64
	FullHeight  float64
}

// BreakableMeasure 在测量时描述可分页区域。BreakCount 由元素写入它跨越
// 的页边界数。ExtraLocationMinHeight 是元素对追加位置要求的最小高度，
// Row 的等高模式需要它来预测最后一页的高度。
type BreakableMeasure struct {
	FullHeight             float64
	BreakCount             *int
	ExtraLocationMinHeight *float64
}

// MeasureCtx 是 Measure 的输入。Breakable 为 nil 时元素不得分页。
type MeasureCtx struct {
	Width       WidthConstraint
	FirstHeight float64
	Breakable   *BreakableMeasure
}

// BreakIfAppropriateForMinHeight 在最小高度超过首高且换页有意义时记录
// 一次分页。返回是否发生了分页。
func (ctx *MeasureCtx) BreakIfAppropriateForMinHeight(height float64) bool {
	if b := ctx.Breakable; b != nil {
		if height > ctx.FirstHeight && b.FullHeight > ctx.FirstHeight {
			*b.BreakCount = 1
			return true
		}
	}
	return false
}

// BreakableDraw 在绘制时描述可分页区域。
//
// GetLocation 是页位置的 oracle：索引 i 返回第 i+1 个后继页上的位置。
// 它必须幂等、允许乱序访问，并在首次请求时立即物化页面（RepeatAfterBreak
// 可能先请求第 i 页再回填第 i-1 页）。
type BreakableDraw struct {
	FullHeight                float64
	PreferredHeightBreakCount int
	GetLocation               func(index int) Location
}

// DrawCtx 是 Draw 的输入。FirstHeight 是 Location 所在页剩余的垂直空间，
// 中途起笔时会小于 FullHeight。PreferredHeight 是父容器建议的目标高度，
// 只有 ExpandToPreferredHeight 这类元素才会理会它。
type DrawCtx struct {
	Location        Location
	Width           WidthConstraint
	FirstHeight     float64
	PreferredHeight Extent
	Breakable       *BreakableDraw
}

// BreakIfAppropriateForMinHeight 与 MeasureCtx 的同名方法对应：满足条件
// 时把 Location 推进到下一页并返回 true。
func (ctx *DrawCtx) BreakIfAppropriateForMinHeight(height float64) bool {
	if b := ctx.Breakable; b != nil {
		if height > ctx.FirstHeight && b.FullHeight > ctx.FirstHeight {
			ctx.Location = b.GetLocation(0)
			return true
		}
	}
	return false
}

// Location 标识某一页上的一个点。Y 从页面内容区顶部向下增长，向 PDF
// 原生坐标的转换是 Surface 的职责。
type Location struct {
	PageIndex int
	Surface   Surface
	X, Y      float64
}
