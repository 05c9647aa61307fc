package doc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/render"
	"github.com/folio-layout/folio/shape"
)

// FontRegistrar 接收条目声明的字体。render/canvas 的 Library 满足它。
type FontRegistrar interface {
	Register(name string, style layout.FontStyle, data []byte) error
}

// Resources 是生成一份文档需要的外部能力。
type Resources struct {
	Shaper *shape.Shaper
	Fonts  FontRegistrar
	Load   func(path string) ([]byte, error)
	Data   any
	Log    *zap.Logger
}

// Metadata 提取文档元数据供 PDF 写入器使用。
func (d *Document) Metadata() render.Metadata {
	return render.Metadata{
		Title:    d.Title,
		Author:   d.Author,
		Subject:  d.Subject,
		Creator:  d.Creator,
		Keywords: d.Keywords,
	}
}

// Generate 依次渲染文档的全部条目，页面追加到 pages 上。返回总页数。
// 字体注册或元素构建失败立即返回错误，此时可能已经产生部分页面，调用
// 方不应再写出结果。
func (d *Document) Generate(res Resources, pages layout.PageSource) (int, error) {
	total := 0
	for i, entry := range d.Entries {
		families, err := registerFonts(entry, res)
		if err != nil {
			return total, fmt.Errorf("条目 %d: %w", i, err)
		}

		builder := &Builder{
			Shaper:   res.Shaper,
			Families: families,
			Load:     res.Load,
			Data:     res.Data,
			Log:      res.Log,
		}
		root, err := builder.Build(entry.Elem)
		if err != nil {
			return total, fmt.Errorf("条目 %d: %w", i, err)
		}

		margins := layout.Margins{}
		if m := entry.Margin; m != nil {
			margins = layout.Margins{
				Top:    m.Top.Pt(),
				Right:  m.Right.Pt(),
				Bottom: m.Bottom.Pt(),
				Left:   m.Left.Pt(),
			}
		}

		count, err := layout.DrawElement(pages, root,
			entry.Size[0].Pt(), entry.Size[1].Pt(), margins)
		if err != nil {
			return total, fmt.Errorf("条目 %d: %w", i, err)
		}
		total += count
	}
	return total, nil
}

func registerFonts(entry Entry, res Resources) (map[string]bool, error) {
	families := map[string]bool{}
	for name, spec := range entry.Fonts {
		variants := []struct {
			style layout.FontStyle
			path  string
		}{
			{layout.FontRegular, spec.Regular},
			{layout.FontBold, spec.Bold},
			{layout.FontItalic, spec.Italic},
			{layout.FontBoldItalic, spec.BoldItalic},
		}
		registered := false
		for _, v := range variants {
			if v.path == "" {
				continue
			}
			if res.Load == nil {
				return nil, fmt.Errorf("字体 %q 需要资源加载器", name)
			}
			data, err := res.Load(v.path)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %q (%s): %w", name, v.style, err)
			}
			if res.Fonts != nil {
				if err := res.Fonts.Register(name, v.style, data); err != nil {
					return nil, err
				}
			}
			registered = true
		}
		if !registered {
			return nil, fmt.Errorf("字体 %q 没有任何变体路径", name)
		}
		families[name] = true
	}
	return families, nil
}
