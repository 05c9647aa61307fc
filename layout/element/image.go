package element

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/folio-layout/folio/layout"
)

// Image 把已解码的位图放入布局。自然尺寸按 1 像素 = 1 pt 计；给了显式
// 宽或高则以其为准，缺的那一边按宽高比补齐。最终宽度收进宽度约束，
// 高度随比例缩放。
type Image struct {
	Img image.Image

	// Width/Height 可选的显式尺寸（pt）。
	Width  layout.Extent
	Height layout.Extent
}

// DecodeImage 从 r 解码一幅位图。支持 stdlib 注册的 PNG/JPEG/GIF。
func DecodeImage(r io.Reader) (Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return Image{}, fmt.Errorf("解码图片失败: %w", err)
	}
	_ = format
	return Image{Img: img}, nil
}

func (e Image) natural() (w, h float64) {
	b := e.Img.Bounds()
	w = float64(b.Dx())
	h = float64(b.Dy())
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

func (e Image) fitted(constraint layout.WidthConstraint) (w, h float64) {
	nw, nh := e.natural()
	w = constraint.Constrain(nw)
	h = nh * w / nw
	return w, h
}

func (e Image) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	_, h := e.fitted(ctx.Width)
	if h > ctx.FirstHeight && ctx.FullHeight > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (e Image) Measure(ctx layout.MeasureCtx) layout.Size {
	w, h := e.fitted(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	return layout.Size{Width: layout.SomeExtent(w), Height: layout.SomeExtent(h)}
}

func (e Image) Draw(ctx layout.DrawCtx) layout.Size {
	w, h := e.fitted(ctx.Width)
	ctx.BreakIfAppropriateForMinHeight(h)
	ctx.Location.Surface.Image(e.Img, ctx.Location.X, ctx.Location.Y, w, h)
	return layout.Size{Width: layout.SomeExtent(w), Height: layout.SomeExtent(h)}
}
