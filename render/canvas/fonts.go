package canvas

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/shape"
)

// Library 是字体族缓存。注册按族名加载字体数据，查询按族名与变体解析到
// 已加载的 canvas 字体面；缺失的变体降级到同族 regular，缺失的族降级到
// 内置 Go 字体族。
type Library struct {
	mu       sync.Mutex
	families map[string]*familyEntry

	fallbackOnce sync.Once
	fallback     *canvas.FontFamily
	fallbackErr  error
}

type familyEntry struct {
	family *canvas.FontFamily
	loaded map[layout.FontStyle]bool
}

// NewLibrary 创建空字体库。
func NewLibrary() *Library {
	return &Library{families: map[string]*familyEntry{}}
}

// Register 把字体数据注册为族 name 的 style 变体。
func (l *Library) Register(name string, style layout.FontStyle, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.families[name]
	if !ok {
		entry = &familyEntry{
			family: canvas.NewFontFamily(name),
			loaded: map[layout.FontStyle]bool{},
		}
		l.families[name] = entry
	}
	if err := entry.family.LoadFont(data, 0, canvasStyle(style)); err != nil {
		return fmt.Errorf("加载字体 %s (%s) 失败: %w", name, style, err)
	}
	entry.loaded[style] = true
	return nil
}

// RegisterFile 从文件注册字体变体。
func (l *Library) RegisterFile(name string, style layout.FontStyle, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
	}
	return l.Register(name, style, data)
}

// Face 实现 shape.FaceSource，返回按 pt 度量的字体面。
func (l *Library) Face(family string, style layout.FontStyle, sizePt float64) (shape.Face, error) {
	face, err := l.canvasFace(family, style, sizePt, color.RGBA{A: 255}, false)
	if err != nil {
		return nil, err
	}
	return ptFace{face: face}, nil
}

// canvasFace 解析族与变体并返回绘制用的 canvas 字体面。
func (l *Library) canvasFace(family string, style layout.FontStyle, sizePt float64, col color.RGBA, underline bool) (*canvas.FontFace, error) {
	fam, resolved, err := l.resolve(family, style)
	if err != nil {
		return nil, err
	}
	args := []interface{}{col, canvasStyle(resolved), canvas.FontNormal}
	if underline {
		args = append(args, canvas.FontUnderline)
	}
	return fam.Face(sizePt, args...), nil
}

func (l *Library) resolve(family string, style layout.FontStyle) (*canvas.FontFamily, layout.FontStyle, error) {
	l.mu.Lock()
	entry, ok := l.families[family]
	l.mu.Unlock()
	if ok {
		if entry.loaded[style] {
			return entry.family, style, nil
		}
		if entry.loaded[layout.FontRegular] {
			return entry.family, layout.FontRegular, nil
		}
	}
	fb, err := l.fallbackFamily()
	if err != nil {
		return nil, layout.FontRegular, err
	}
	return fb, style, nil
}

func (l *Library) fallbackFamily() (*canvas.FontFamily, error) {
	l.fallbackOnce.Do(func() {
		family := canvas.NewFontFamily("folio-fallback")
		for _, f := range []struct {
			data  []byte
			style canvas.FontStyle
		}{
			{goregular.TTF, canvas.FontRegular},
			{gobold.TTF, canvas.FontBold},
			{goitalic.TTF, canvas.FontItalic},
			{gobolditalic.TTF, canvas.FontBold | canvas.FontItalic},
		} {
			if err := family.LoadFont(f.data, 0, f.style); err != nil {
				l.fallbackErr = fmt.Errorf("加载回退字体失败: %w", err)
				return
			}
		}
		l.fallback = family
	})
	return l.fallback, l.fallbackErr
}

func canvasStyle(s layout.FontStyle) canvas.FontStyle {
	switch s {
	case layout.FontBold:
		return canvas.FontBold
	case layout.FontItalic:
		return canvas.FontItalic
	case layout.FontBoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

// ptFace 把 canvas 的 mm 度量换算回 pt。
type ptFace struct {
	face *canvas.FontFace
}

func (f ptFace) TextWidth(s string) float64 {
	return f.face.TextWidth(s) * layout.MmToPt
}

func (f ptFace) Metrics() shape.Metrics {
	m := f.face.Metrics()
	return shape.Metrics{
		Ascent:     m.Ascent * layout.MmToPt,
		Descent:    m.Descent * layout.MmToPt,
		LineHeight: m.LineHeight * layout.MmToPt,
	}
}
