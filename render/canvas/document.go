// Package canvas 用 tdewolff/canvas 实现 render.Writer：每页在内存中积累为
// 一块画布，Finish 时统一经 renderers/pdf 编码。
package canvas

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/render"
)

// Document 是缓冲式的 PDF 文档。页面在 AddPage 时创建画布，绘制命令立即
// 写入对应画布，Finish 把全部画布按序渲染为 PDF 字节流。
type Document struct {
	meta     render.Metadata
	fonts    *Library
	pages    []*documentPage
	finished bool
}

type documentPage struct {
	widthPt  float64
	heightPt float64
	canvas   *canvas.Canvas
	surface  *pageSurface
}

// NewDocument 创建空文档。fonts 为 nil 时使用仅含回退字体的字体库。
func NewDocument(meta render.Metadata, fonts *Library) *Document {
	if fonts == nil {
		fonts = NewLibrary()
	}
	return &Document{meta: meta, fonts: fonts}
}

// AddPage 追加页面并返回索引。尺寸为 pt，内部画布以 mm 建立。
func (d *Document) AddPage(widthPt, heightPt float64) int {
	wMM := widthPt * layout.PtToMm
	hMM := heightPt * layout.PtToMm
	c := canvas.New(wMM, hMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 布局坐标以左上角为原点
	page := &documentPage{
		widthPt:  widthPt,
		heightPt: heightPt,
		canvas:   c,
		surface:  &pageSurface{ctx: ctx, fonts: d.fonts},
	}
	d.pages = append(d.pages, page)
	return len(d.pages) - 1
}

// Page 返回第 index 页的绘制表面。索引越界说明调用方有 bug，直接 panic。
func (d *Document) Page(index int) layout.Surface {
	return d.pages[index].surface
}

// PageCount 返回已创建的页面数。
func (d *Document) PageCount() int { return len(d.pages) }

// Finish 把所有页面渲染为 PDF 并返回字节流。文档至少要有一页。
func (d *Document) Finish() ([]byte, error) {
	if d.finished {
		return nil, fmt.Errorf("文档已经结束")
	}
	if len(d.pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	d.finished = true

	var buf bytes.Buffer
	first := d.pages[0]
	writer := pdf.New(&buf, first.widthPt*layout.PtToMm, first.heightPt*layout.PtToMm, nil)
	writer.SetInfo(d.meta.Title, d.meta.Subject, strings.Join(d.meta.Keywords, ", "), d.meta.Author, d.meta.Creator)
	for i, page := range d.pages {
		if i > 0 {
			writer.NewPage(page.widthPt*layout.PtToMm, page.heightPt*layout.PtToMm)
		}
		page.canvas.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
