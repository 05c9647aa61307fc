package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/folio-layout/folio/layout"
)

const (
	opTransform = iota
	opClip
)

// pageSurface 把 layout.Surface 的 pt 坐标命令翻译成画布上的 mm 绘制。
// 设置样式或变换的命令都包在 Push/Pop 里，样式不在命令之间泄漏。裁剪矩形不进画布
// 状态，由各命令在落笔前自行求交：填充与描边做路径布尔交，文本整段
// 取舍，位图按像素裁切。
type pageSurface struct {
	ctx   *canvas.Context
	fonts *Library

	// clips 里每一项都已与更早的裁剪取过交集，栈顶即当前生效矩形。
	clips []layout.Rect
	ops   []int
}

func toMM(pt float64) float64 { return pt * layout.PtToMm }

func (s *pageSurface) activeClip() (layout.Rect, bool) {
	if len(s.clips) == 0 {
		return layout.Rect{}, false
	}
	return s.clips[len(s.clips)-1], true
}

func (s *pageSurface) FillPath(p *layout.Path, c color.RGBA) {
	if p.Empty() {
		return
	}
	path := canvasPath(p)
	if clip, ok := s.activeClip(); ok {
		path = path.And(clipPathMM(clip))
		if path.Empty() {
			return
		}
	}
	s.ctx.Push()
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(canvas.Transparent)
	s.ctx.DrawPath(0, 0, path)
	s.ctx.Pop()
}

func (s *pageSurface) StrokePath(p *layout.Path, style layout.LineStyle) {
	if p.Empty() {
		return
	}
	var capper canvas.Capper
	switch style.Cap {
	case layout.CapRound:
		capper = canvas.RoundCap
	case layout.CapSquare:
		capper = canvas.SquareCap
	default:
		capper = canvas.ButtCap
	}

	if clip, ok := s.activeClip(); ok {
		// 先把描边展开成轮廓面，再与裁剪矩形求交，边界处的线段被
		// 截断而不是整条消失。
		path := canvasPath(p)
		if d := style.Dash; d != nil {
			path = path.Dash(toMM(d.Offset), toMM(d.Dashes[0]), toMM(d.Dashes[1]))
		}
		outline := path.Stroke(toMM(style.Thickness), capper, canvas.RoundJoin, 0.01)
		outline = outline.And(clipPathMM(clip))
		if outline.Empty() {
			return
		}
		s.ctx.Push()
		s.ctx.SetFillColor(style.Color)
		s.ctx.SetStrokeColor(canvas.Transparent)
		s.ctx.DrawPath(0, 0, outline)
		s.ctx.Pop()
		return
	}

	s.ctx.Push()
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(style.Color)
	s.ctx.SetStrokeWidth(toMM(style.Thickness))
	s.ctx.SetStrokeCapper(capper)
	if d := style.Dash; d != nil {
		s.ctx.SetDashes(toMM(d.Offset), toMM(d.Dashes[0]), toMM(d.Dashes[1]))
	}
	s.ctx.DrawPath(0, 0, canvasPath(p))
	s.ctx.Pop()
}

func (s *pageSurface) Text(span layout.TextSpan, x, baselineY float64) {
	if span.Text == "" {
		return
	}
	if clip, ok := s.activeClip(); ok {
		// 文本整段取舍：跨出裁剪框的行完全在外才丢弃。
		box := layout.Rect{X: x, Y: baselineY - span.SizePt, W: span.Width, H: 2 * span.SizePt}
		if box.Intersect(clip).Empty() {
			return
		}
	}
	face, err := s.fonts.canvasFace(span.Family, span.Style, span.SizePt, span.Color, span.Underline)
	if err != nil {
		return
	}
	if span.CharSpacingPt == 0 && span.WordSpacingPt == 0 {
		line := canvas.NewTextLine(face, span.Text, canvas.Left)
		s.ctx.DrawText(toMM(x), toMM(baselineY), line)
		return
	}
	// 有字距或词距时逐字落笔，推进量与整形端一致。
	pen := x
	for _, r := range span.Text {
		ch := string(r)
		s.ctx.DrawText(toMM(pen), toMM(baselineY), canvas.NewTextLine(face, ch, canvas.Left))
		pen += face.TextWidth(ch)*layout.MmToPt + span.CharSpacingPt
		if r == ' ' {
			pen += span.WordSpacingPt
		}
	}
}

func (s *pageSurface) Image(img image.Image, x, y, w, h float64) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	if clip, ok := s.activeClip(); ok {
		visible := layout.Rect{X: x, Y: y, W: w, H: h}.Intersect(clip)
		if visible.Empty() {
			return
		}
		if visible != (layout.Rect{X: x, Y: y, W: w, H: h}) {
			if cropped, cx, cy, cw, ch := cropImage(img, x, y, w, h, visible); cropped != nil {
				img, x, y, w, h = cropped, cx, cy, cw, ch
				bounds = img.Bounds()
				if bounds.Dx() == 0 || bounds.Dy() == 0 || w <= 0 || h <= 0 {
					return
				}
			}
		}
	}
	wMM, hMM := toMM(w), toMM(h)
	dpmm := float64(bounds.Dx()) / wMM
	naturalH := float64(bounds.Dy()) / dpmm
	if math.Abs(naturalH-hMM) < 1e-6 {
		s.ctx.DrawImage(toMM(x), toMM(y), img, canvas.DPMM(dpmm))
		return
	}
	// 宽高比不一致时沿 y 轴补一个缩放。
	s.ctx.Push()
	s.ctx.ComposeView(canvas.Identity.Translate(toMM(x), toMM(y)).Scale(1, hMM/naturalH))
	s.ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
	s.ctx.Pop()
}

// cropImage 把目标矩形缩到 visible 并裁掉对应像素。位图不支持 SubImage
// 或裁后为空时返回 nil，调用方退回整幅绘制。
func cropImage(img image.Image, x, y, w, h float64, visible layout.Rect) (image.Image, float64, float64, float64, float64) {
	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return nil, 0, 0, 0, 0
	}
	b := img.Bounds()
	sx := float64(b.Dx()) / w
	sy := float64(b.Dy()) / h
	px0 := b.Min.X + int(math.Floor((visible.X-x)*sx))
	py0 := b.Min.Y + int(math.Floor((visible.Y-y)*sy))
	px1 := b.Min.X + int(math.Ceil((visible.X+visible.W-x)*sx))
	py1 := b.Min.Y + int(math.Ceil((visible.Y+visible.H-y)*sy))
	r := image.Rect(px0, py0, px1, py1).Intersect(b)
	if r.Empty() {
		return nil, 0, 0, 0, 0
	}
	cropped := sub.SubImage(r)
	nx := x + float64(r.Min.X-b.Min.X)/sx
	ny := y + float64(r.Min.Y-b.Min.Y)/sy
	return cropped, nx, ny, float64(r.Dx()) / sx, float64(r.Dy()) / sy
}

func (s *pageSurface) PushTransform(m layout.Affine) {
	s.ctx.Push()
	s.ctx.ComposeView(canvas.Matrix{
		{m[0], m[1], toMM(m[4])},
		{m[2], m[3], toMM(m[5])},
	})
	s.ops = append(s.ops, opTransform)
}

func (s *pageSurface) PushClip(r layout.Rect) {
	if top, ok := s.activeClip(); ok {
		r = r.Intersect(top)
	}
	s.clips = append(s.clips, r)
	s.ops = append(s.ops, opClip)
}

func (s *pageSurface) Pop() {
	if len(s.ops) == 0 {
		return
	}
	op := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]
	if op == opClip {
		s.clips = s.clips[:len(s.clips)-1]
		return
	}
	s.ctx.Pop()
}

func canvasPath(p *layout.Path) *canvas.Path {
	out := &canvas.Path{}
	p.Visit(
		func(x, y float64) { out.MoveTo(toMM(x), toMM(y)) },
		func(x, y float64) { out.LineTo(toMM(x), toMM(y)) },
		func(c1x, c1y, c2x, c2y, x, y float64) {
			out.CubeTo(toMM(c1x), toMM(c1y), toMM(c2x), toMM(c2y), toMM(x), toMM(y))
		},
		func() { out.Close() },
	)
	return out
}

func clipPathMM(r layout.Rect) *canvas.Path {
	out := &canvas.Path{}
	out.MoveTo(toMM(r.X), toMM(r.Y))
	out.LineTo(toMM(r.X+r.W), toMM(r.Y))
	out.LineTo(toMM(r.X+r.W), toMM(r.Y+r.H))
	out.LineTo(toMM(r.X), toMM(r.Y+r.H))
	out.Close()
	return out
}
