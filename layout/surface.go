package layout

import (
	"image"
	"image/color"
	"math"
)

// Surface 是绑定到单个页面的纯输出端：坐标为页面本地、y 向下的点制。
// 它不持有任何布局状态，按调用顺序写入内容流，因此同一页上后绘制的
// 内容覆盖先绘制的内容。
type Surface interface {
	// FillPath 以 c 填充路径。
	FillPath(p *Path, c color.RGBA)

	// StrokePath 按样式描边路径。
	StrokePath(p *Path, style LineStyle)

	// Text 在 (x, baselineY) 处放置一段已测量的同样式文本。
	Text(span TextSpan, x, baselineY float64)

	// Image 把已解码的位图放入轴对齐矩形。
	Image(img image.Image, x, y, w, h float64)

	// PushTransform 压入仿射变换。
	PushTransform(m Affine)

	// PushClip 压入裁剪矩形，与已生效的裁剪取交集。矩形坐标在当前
	// 变换下解释。
	PushClip(r Rect)

	// Pop 弹出最近一次 PushTransform 或 PushClip。
	Pop()
}

// Rect 是轴对齐矩形，(X, Y) 为左上角。
type Rect struct {
	X, Y, W, H float64
}

// Intersect 返回两矩形的交集，不相交时返回空矩形。
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty 报告矩形是否没有面积。
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Affine 是 2x3 仿射矩阵 [a b c d e f]：
//
//	x' = a*x + b*y + e
//	y' = c*x + d*y + f
type Affine [6]float64

// ScaleAffine returns a uniform scale about the origin.
func ScaleAffine(s float64) Affine {
	return Affine{s, 0, 0, s, 0, 0}
}

// TranslateAffine returns a translation.
func TranslateAffine(x, y float64) Affine {
	return Affine{1, 0, 0, 1, x, y}
}

// FontStyle 选择同族字体的四种变体之一。
type FontStyle int

const (
	FontRegular FontStyle = iota
	FontBold
	FontItalic
	FontBoldItalic
)

func (s FontStyle) String() string {
	switch s {
	case FontBold:
		return "bold"
	case FontItalic:
		return "italic"
	case FontBoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// TextSpan 是一段单一样式的文本。Width 是调用方已经量好的推进宽度，
// 其中已计入字距与词距，Surface 不再测量。
type TextSpan struct {
	Text          string
	Family        string
	Style         FontStyle
	SizePt        float64
	Color         color.RGBA
	Underline     bool
	Width         float64
	CharSpacingPt float64
	WordSpacingPt float64
}

// LineCap 对应 ISO 32000-1 8.4.3.3 的三种线帽。
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// DashPattern 控制描边的虚线样式。Offset 是进入虚线序列的起始距离，
// Dashes 是交替的线段与间隔长度。
type DashPattern struct {
	Offset float64
	Dashes [2]float64
}

// LineStyle 是描边的完整样式。
type LineStyle struct {
	Thickness float64
	Color     color.RGBA
	Dash      *DashPattern
	Cap       LineCap
}

type pathVerb int

const (
	verbMove pathVerb = iota
	verbLine
	verbCubic
	verbClose
)

type pathSeg struct {
	verb pathVerb
	pts  [3][2]float64
}

// Path 是 move/line/cubic 段的序列，坐标与 Surface 一致。
type Path struct {
	segs []pathSeg
}

func (p *Path) MoveTo(x, y float64) *Path {
	p.segs = append(p.segs, pathSeg{verb: verbMove, pts: [3][2]float64{{x, y}}})
	return p
}

func (p *Path) LineTo(x, y float64) *Path {
	p.segs = append(p.segs, pathSeg{verb: verbLine, pts: [3][2]float64{{x, y}}})
	return p
}

func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	p.segs = append(p.segs, pathSeg{verb: verbCubic, pts: [3][2]float64{{c1x, c1y}, {c2x, c2y}, {x, y}}})
	return p
}

func (p *Path) Close() *Path {
	p.segs = append(p.segs, pathSeg{verb: verbClose})
	return p
}

// Rect appends an axis-aligned rectangle subpath.
func (p *Path) Rect(x, y, w, h float64) *Path {
	return p.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// circleKappa is the cubic Bézier approximation constant for a quarter arc.
const circleKappa = 0.5522847498307936

// Circle appends a circle subpath of radius r centered at (cx, cy).
func (p *Path) Circle(cx, cy, r float64) *Path {
	k := circleKappa * r
	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	p.CubicTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	p.CubicTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	p.CubicTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	return p.Close()
}

// Visit 依次回调每个路径段，供 Surface 实现转换到底层路径模型。
func (p *Path) Visit(
	move func(x, y float64),
	line func(x, y float64),
	cubic func(c1x, c1y, c2x, c2y, x, y float64),
	closePath func(),
) {
	for _, s := range p.segs {
		switch s.verb {
		case verbMove:
			move(s.pts[0][0], s.pts[0][1])
		case verbLine:
			line(s.pts[0][0], s.pts[0][1])
		case verbCubic:
			cubic(s.pts[0][0], s.pts[0][1], s.pts[1][0], s.pts[1][1], s.pts[2][0], s.pts[2][1])
		case verbClose:
			closePath()
		}
	}
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool { return len(p.segs) == 0 }
