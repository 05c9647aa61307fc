package element

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/folio-layout/folio/layout"
)

// svgRasterScale 是栅格化时每 pt 对应的像素数。2 像素/pt 约 144 DPI，
// 在常见缩放下不见锯齿，又不至于把页面文件撑大。
const svgRasterScale = 2.0

// svgMaxRasterDim 限制栅格化位图的最大边长，防止巨大 viewBox 把内存
// 吃光。
const svgMaxRasterDim = 8192

// SVG 把一幅矢量图放入布局。解析在构造期完成，栅格化推迟到 Draw；
// 自然尺寸取 viewBox，1 单位 = 1 pt。显式宽或高的语义与 Image 相同。
type SVG struct {
	Icon *oksvg.SvgIcon

	// Width/Height 可选的显式尺寸（pt）。
	Width  layout.Extent
	Height layout.Extent
}

// ParseSVG 解析 SVG 数据。解析失败是构造期错误，调用方通常以
// Placeholder 兜底。
func ParseSVG(data []byte) (SVG, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return SVG{}, fmt.Errorf("解析 SVG 失败: %w", err)
	}
	return SVG{Icon: icon}, nil
}

func (e SVG) natural() (w, h float64) {
	w = e.Icon.ViewBox.W
	h = e.Icon.ViewBox.H
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if e.Width.Valid && e.Height.Valid {
		return e.Width.Value, e.Height.Value
	}
	if e.Width.Valid {
		return e.Width.Value, h * e.Width.Value / w
	}
	if e.Height.Valid {
		return w * e.Height.Value / h, e.Height.Value
	}
	return w, h
}

func (e SVG) fitted(constraint layout.WidthConstraint) (w, h float64) {
	nw, nh := e.natural()
	w = constraint.Constrain(nw)
	h = nh * w / nw
	return w, h
}

func (e SVG) rasterize(w, h float64) image.Image {
	pw := int(math.Ceil(w * svgRasterScale))
	ph := int(math.Ceil(h * svgRasterScale))
	pw = max(pw, 1)
	ph = max(ph, 1)
	if pw > svgMaxRasterDim || ph > svgMaxRasterDim {
		s := min(float64(svgMaxRasterDim)/float64(pw), float64(svgMaxRasterDim)/float64(ph))
		pw = max(int(math.Round(float64(pw)*s)), 1)
		ph = max(int(math.Round(float64(ph)*s)), 1)
	}

	e.Icon.SetTarget(0, 0, float64(pw), float64(ph))
	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))
	scanner := rasterx.NewScannerGV(pw, ph, dst, dst.Bounds())
	dasher := rasterx.NewDasher(pw, ph, scanner)
	e.Icon.Draw(dasher, 1.0)
	return dst
}

func (e SVG) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	_, h := e.fitted(ctx.Width)
	if h > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (e SVG) Measure(ctx layout.MeasureCtx) layout.Size {
	w, h := e.fitted(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	return layout.Size{Width: layout.SomeExtent(w), Height: layout.SomeExtent(h)}
}

func (e SVG) Draw(ctx layout.DrawCtx) layout.Size {
	w, h := e.fitted(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	img := e.rasterize(w, h)
	ctx.Location.Surface.Image(img, ctx.Location.X, ctx.Location.Y, w, h)
	return layout.Size{Width: layout.SomeExtent(w), Height: layout.SomeExtent(h)}
}
