package layout

import "fmt"

// PageSource 提供页面。render 包的 Writer 满足该接口。
type PageSource interface {
	// AddPage 追加一个给定尺寸（pt）的页面并返回其索引。
	AddPage(widthPt, heightPt float64) int

	// Page 返回已存在页面的 Surface。
	Page(index int) Surface
}

// PageStream 把 PageSource 包装成分页位置的 oracle：Location(i) 幂等地
// 返回第 i 页内容区左上角的位置，页面在首次请求时立即物化并按索引缓存，
// 乱序访问会把中间的页面一并补齐。
type PageStream struct {
	src     PageSource
	widthPt float64
	height  float64
	margins Margins
	pages   []int
}

// NewPageStream 创建页面流。所有长度均为 pt。
func NewPageStream(src PageSource, widthPt, heightPt float64, margins Margins) (*PageStream, error) {
	cw := widthPt - margins.Left - margins.Right
	ch := heightPt - margins.Top - margins.Bottom
	if cw <= 0 || ch <= 0 {
		return nil, fmt.Errorf("页面内容区尺寸无效: %.2f x %.2f pt", cw, ch)
	}
	return &PageStream{src: src, widthPt: widthPt, height: heightPt, margins: margins}, nil
}

// ContentWidth 返回内容区宽度。
func (s *PageStream) ContentWidth() float64 {
	return s.widthPt - s.margins.Left - s.margins.Right
}

// FullHeight 返回整页内容区高度，即顶边距之下、底边距之上的空间。
func (s *PageStream) FullHeight() float64 {
	return s.height - s.margins.Top - s.margins.Bottom
}

// Location 返回第 index 页内容区顶部的位置，必要时物化页面。
func (s *PageStream) Location(index int) Location {
	for len(s.pages) <= index {
		s.pages = append(s.pages, s.src.AddPage(s.widthPt, s.height))
	}
	page := s.pages[index]
	return Location{
		PageIndex: page,
		Surface:   s.src.Page(page),
		X:         s.margins.Left,
		Y:         s.margins.Top,
	}
}

// PageCount 返回已物化的页面数。
func (s *PageStream) PageCount() int { return len(s.pages) }

// DrawElement 在一个新的页面序列上绘制整棵元素树：根元素从第一页内容区
// 顶部开始，宽度约束展开到内容区宽度，后续页面由 PageStream 按需补齐。
// 返回本次绘制占用的页数。
func DrawElement(src PageSource, root Element, widthPt, heightPt float64, margins Margins) (int, error) {
	stream, err := NewPageStream(src, widthPt, heightPt, margins)
	if err != nil {
		return 0, err
	}

	fullHeight := stream.FullHeight()
	root.Draw(DrawCtx{
		Location:    stream.Location(0),
		Width:       WidthConstraint{Max: stream.ContentWidth(), Expand: true},
		FirstHeight: fullHeight,
		Breakable: &BreakableDraw{
			FullHeight: fullHeight,
			GetLocation: func(index int) Location {
				return stream.Location(index + 1)
			},
		},
	})

	return stream.PageCount(), nil
}
