package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/folio-layout/folio/binding"
	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/layout/element"
	"github.com/folio-layout/folio/shape"
)

// Node 是元素树的 JSON 节点："type" 字段选中元素种类，其余字段是该种
// 类的配置。解码时只剥出种类并保留原始字节，构建时再按种类二次解码。
type Node struct {
	Kind string
	raw  json.RawMessage
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Type == "" {
		return fmt.Errorf("元素缺少 type 字段")
	}
	n.Kind = head.Type
	n.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.raw == nil {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// NodeOf 把任意可序列化的值转成 Node，供程序化构造文档的调用方使用。
func NodeOf(v any) (Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Node{}, err
	}
	var n Node
	if err := n.UnmarshalJSON(data); err != nil {
		return Node{}, err
	}
	return n, nil
}

// Color 在 JSON 里写成 "#RGB"、"#RRGGBB" 或 "#RRGGBBAA"。
type Color struct {
	color.RGBA
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	c.RGBA = parsed
	return nil
}

// ParseColor 解析 "#RGB"、"#RRGGBB" 或 "#RRGGBBAA" 形式的颜色。
func ParseColor(s string) (color.RGBA, error) {
	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("无法解析颜色 %q", s)
	}
	digits := s[1:]
	var parts []uint8
	switch len(digits) {
	case 3:
		for i := 0; i < 3; i++ {
			v, ok := hexVal(digits[i])
			if !ok {
				return color.RGBA{}, fmt.Errorf("无法解析颜色 %q", s)
			}
			parts = append(parts, v*16+v)
		}
		parts = append(parts, 255)
	case 6, 8:
		for i := 0; i+1 < len(digits); i += 2 {
			hi, ok1 := hexVal(digits[i])
			lo, ok2 := hexVal(digits[i+1])
			if !ok1 || !ok2 {
				return color.RGBA{}, fmt.Errorf("无法解析颜色 %q", s)
			}
			parts = append(parts, hi*16+lo)
		}
		if len(parts) == 3 {
			parts = append(parts, 255)
		}
	default:
		return color.RGBA{}, fmt.Errorf("无法解析颜色 %q", s)
	}
	return color.RGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
}

// LineStyleSpec 是描边样式的 JSON 形式。
type LineStyleSpec struct {
	Thickness float64 `json:"thickness"`
	Color     *Color  `json:"color,omitempty"`
	Cap       string  `json:"cap,omitempty"`
	Dash      *struct {
		Offset float64    `json:"offset"`
		Dashes [2]float64 `json:"dashes"`
	} `json:"dash,omitempty"`
}

func (s LineStyleSpec) style() layout.LineStyle {
	out := layout.LineStyle{
		Thickness: s.Thickness,
		Color:     color.RGBA{A: 255},
	}
	if s.Color != nil {
		out.Color = s.Color.RGBA
	}
	switch s.Cap {
	case "round":
		out.Cap = layout.CapRound
	case "square":
		out.Cap = layout.CapSquare
	}
	if s.Dash != nil {
		out.Dash = &layout.DashPattern{Offset: s.Dash.Offset, Dashes: s.Dash.Dashes}
	}
	return out
}

// Builder 把 Node 构建成布局元素。资源错误分两类：引用错误（未知元素
// 种类、未声明的字体）终止构建，资源内容错误（图片解码失败）降级为
// 占位元素并记一条警告。
type Builder struct {
	Shaper   *shape.Shaper
	Families map[string]bool
	Load     func(path string) ([]byte, error)
	Data     any
	Log      *zap.Logger
}

func (b *Builder) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

func (b *Builder) interpolate(s string) string {
	if b.Data == nil {
		return s
	}
	return binding.Interpolate(s, b.Data)
}

func (b *Builder) family(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if b.Families != nil && !b.Families[name] {
		return "", fmt.Errorf("引用了未声明的字体 %q", name)
	}
	return name, nil
}

func (b *Builder) load(path string) ([]byte, error) {
	if b.Load == nil {
		return nil, fmt.Errorf("没有配置资源加载器")
	}
	return b.Load(path)
}

func decodeNode[T any](n Node) (T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader(n.raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("元素 %s 配置无效: %w", n.Kind, err)
	}
	return out, nil
}

func parseFontStyle(s string) (layout.FontStyle, error) {
	switch s {
	case "", "regular":
		return layout.FontRegular, nil
	case "bold":
		return layout.FontBold, nil
	case "italic":
		return layout.FontItalic, nil
	case "bold_italic":
		return layout.FontBoldItalic, nil
	}
	return layout.FontRegular, fmt.Errorf("未知的字体变体 %q", s)
}

func parseAlignment(s string) (element.Alignment, error) {
	switch s {
	case "", "left":
		return element.AlignLeft, nil
	case "center":
		return element.AlignCenter, nil
	case "right":
		return element.AlignRight, nil
	}
	return element.AlignLeft, fmt.Errorf("未知的对齐方式 %q", s)
}

func parseWrapMode(s string) (shape.WrapMode, error) {
	switch s {
	case "", "normal":
		return shape.WrapNormal, nil
	case "none":
		return shape.WrapNone, nil
	case "break_word":
		return shape.WrapBreakWord, nil
	}
	return shape.WrapNormal, fmt.Errorf("未知的换行策略 %q", s)
}

type typeTag struct {
	Type string `json:"type"`
}

type textNode struct {
	typeTag
	Text            string  `json:"text"`
	Font            string  `json:"font,omitempty"`
	Style           string  `json:"style,omitempty"`
	Size            float64 `json:"size"`
	Color           *Color  `json:"color,omitempty"`
	Underline       bool    `json:"underline,omitempty"`
	Align           string  `json:"align,omitempty"`
	Wrap            string  `json:"wrap,omitempty"`
	ExtraLineHeight float64 `json:"extra_line_height,omitempty"`
	CharSpacing     float64 `json:"char_spacing,omitempty"`
	WordSpacing     float64 `json:"word_spacing,omitempty"`
}

type richSpanNode struct {
	Text      string  `json:"text"`
	Font      string  `json:"font,omitempty"`
	Style     string  `json:"style,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Color     *Color  `json:"color,omitempty"`
	Underline bool    `json:"underline,omitempty"`
}

type richTextNode struct {
	typeTag
	Spans           []richSpanNode `json:"spans"`
	Font            string         `json:"font,omitempty"`
	Size            float64        `json:"size"`
	Align           string         `json:"align,omitempty"`
	ExtraLineHeight float64        `json:"extra_line_height,omitempty"`
	CharSpacing     float64        `json:"char_spacing,omitempty"`
	WordSpacing     float64        `json:"word_spacing,omitempty"`
}

type imageNode struct {
	typeTag
	Path   string   `json:"path"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

type rectangleNode struct {
	typeTag
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Fill    *Color         `json:"fill,omitempty"`
	Outline *LineStyleSpec `json:"outline,omitempty"`
}

type circleNode struct {
	typeTag
	Radius  float64        `json:"radius"`
	Fill    *Color         `json:"fill,omitempty"`
	Outline *LineStyleSpec `json:"outline,omitempty"`
}

type lineNode struct {
	typeTag
	Style LineStyleSpec `json:"style"`
}

type vgapNode struct {
	typeTag
	Height float64 `json:"height"`
}

type halignNode struct {
	typeTag
	Align   string `json:"align"`
	Element Node   `json:"element"`
}

type paddingNode struct {
	typeTag
	Left    float64 `json:"left,omitempty"`
	Right   float64 `json:"right,omitempty"`
	Top     float64 `json:"top,omitempty"`
	Bottom  float64 `json:"bottom,omitempty"`
	Element Node    `json:"element"`
}

type columnNode struct {
	typeTag
	Gap     float64 `json:"gap,omitempty"`
	Content []Node  `json:"content"`
}

type flexSpec struct {
	Mode   string  `json:"mode,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Weight int     `json:"weight,omitempty"`
}

func (f flexSpec) flex() (element.Flex, error) {
	switch f.Mode {
	case "", "self_sized":
		return element.SelfSized(), nil
	case "fixed":
		return element.Fixed(f.Width), nil
	case "expand":
		weight := f.Weight
		if weight == 0 {
			weight = 1
		}
		return element.Expand(weight), nil
	}
	return element.Flex{}, fmt.Errorf("未知的 flex 模式 %q", f.Mode)
}

type rowChildNode struct {
	Element Node     `json:"element"`
	Flex    flexSpec `json:"flex,omitempty"`
}

type rowNode struct {
	typeTag
	Gap      float64        `json:"gap,omitempty"`
	Expand   bool           `json:"expand,omitempty"`
	Collapse bool           `json:"collapse,omitempty"`
	Content  []rowChildNode `json:"content"`
}

type stackNode struct {
	typeTag
	Expand  bool   `json:"expand,omitempty"`
	Content []Node `json:"content"`
}

type wrapperNode struct {
	typeTag
	Element Node `json:"element"`
}

type minFirstHeightNode struct {
	typeTag
	Element   Node    `json:"element"`
	MinHeight float64 `json:"min_height"`
}

type shrinkToFitNode struct {
	typeTag
	Element   Node    `json:"element"`
	MinHeight float64 `json:"min_height,omitempty"`
}

type titledNode struct {
	typeTag
	Title                  Node    `json:"title"`
	Content                Node    `json:"content"`
	Gap                    float64 `json:"gap,omitempty"`
	CollapseOnEmptyContent bool    `json:"collapse_on_empty_content,omitempty"`
}

type changingTitleNode struct {
	typeTag
	FirstTitle     Node    `json:"first_title"`
	RemainingTitle Node    `json:"remaining_title"`
	Content        Node    `json:"content"`
	Gap            float64 `json:"gap,omitempty"`
	Collapse       bool    `json:"collapse,omitempty"`
}

type pinBelowNode struct {
	typeTag
	Content  Node    `json:"content"`
	Pinned   Node    `json:"pinned"`
	Gap      float64 `json:"gap,omitempty"`
	Collapse bool    `json:"collapse,omitempty"`
}

type decorationNode struct {
	Element Node     `json:"element"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   *float64 `json:"width,omitempty"`
}

type pageNode struct {
	typeTag
	Element     Node             `json:"element"`
	Border      *MarginSpec      `json:"border,omitempty"`
	Decorations []decorationNode `json:"decorations,omitempty"`
}

// Build 把节点构建成布局元素。
func (b *Builder) Build(n Node) (layout.Element, error) {
	switch n.Kind {
	case "None":
		return element.None{}, nil

	case "Text":
		spec, err := decodeNode[textNode](n)
		if err != nil {
			return nil, err
		}
		family, err := b.family(spec.Font)
		if err != nil {
			return nil, err
		}
		style, err := parseFontStyle(spec.Style)
		if err != nil {
			return nil, err
		}
		align, err := parseAlignment(spec.Align)
		if err != nil {
			return nil, err
		}
		wrap, err := parseWrapMode(spec.Wrap)
		if err != nil {
			return nil, err
		}
		col := color.RGBA{A: 255}
		if spec.Color != nil {
			col = spec.Color.RGBA
		}
		return element.Text{
			Shaper:          b.Shaper,
			Content:         b.interpolate(spec.Text),
			Family:          family,
			Style:           style,
			SizePt:          spec.Size,
			Color:           col,
			Underline:       spec.Underline,
			Align:           align,
			ExtraLineHeight: spec.ExtraLineHeight,
			Wrap:            wrap,
			Spacing:         shape.Spacing{CharPt: spec.CharSpacing, WordPt: spec.WordSpacing},
		}, nil

	case "RichText":
		spec, err := decodeNode[richTextNode](n)
		if err != nil {
			return nil, err
		}
		align, err := parseAlignment(spec.Align)
		if err != nil {
			return nil, err
		}
		spans := make([]element.RichSpan, 0, len(spec.Spans))
		for _, s := range spec.Spans {
			font := s.Font
			if font == "" {
				font = spec.Font
			}
			family, err := b.family(font)
			if err != nil {
				return nil, err
			}
			style, err := parseFontStyle(s.Style)
			if err != nil {
				return nil, err
			}
			size := s.Size
			if size == 0 {
				size = spec.Size
			}
			col := color.RGBA{A: 255}
			if s.Color != nil {
				col = s.Color.RGBA
			}
			spans = append(spans, element.RichSpan{
				Text:      b.interpolate(s.Text),
				Family:    family,
				Style:     style,
				SizePt:    size,
				Color:     col,
				Underline: s.Underline,
			})
		}
		return element.RichText{
			Shaper:          b.Shaper,
			Spans:           spans,
			Align:           align,
			ExtraLineHeight: spec.ExtraLineHeight,
			Spacing:         shape.Spacing{CharPt: spec.CharSpacing, WordPt: spec.WordSpacing},
		}, nil

	case "Image":
		spec, err := decodeNode[imageNode](n)
		if err != nil {
			return nil, err
		}
		data, err := b.load(spec.Path)
		if err != nil {
			return nil, err
		}
		img, err := element.DecodeImage(bytes.NewReader(data))
		if err != nil {
			b.logger().Warn("图片解码失败，使用占位元素",
				zap.String("path", spec.Path), zap.Error(err))
			return placeholderFor(spec.Width, spec.Height), nil
		}
		img.Width = optionalExtent(spec.Width)
		img.Height = optionalExtent(spec.Height)
		return img, nil

	case "SVG":
		spec, err := decodeNode[imageNode](n)
		if err != nil {
			return nil, err
		}
		data, err := b.load(spec.Path)
		if err != nil {
			return nil, err
		}
		svg, err := element.ParseSVG(data)
		if err != nil {
			b.logger().Warn("SVG 解析失败，使用占位元素",
				zap.String("path", spec.Path), zap.Error(err))
			return placeholderFor(spec.Width, spec.Height), nil
		}
		svg.Width = optionalExtent(spec.Width)
		svg.Height = optionalExtent(spec.Height)
		return svg, nil

	case "Rectangle":
		spec, err := decodeNode[rectangleNode](n)
		if err != nil {
			return nil, err
		}
		out := element.Rectangle{Width: spec.Width, Height: spec.Height}
		if spec.Fill != nil {
			out.Fill = &spec.Fill.RGBA
		}
		if spec.Outline != nil {
			style := spec.Outline.style()
			out.Outline = &style
		}
		return out, nil

	case "Circle":
		spec, err := decodeNode[circleNode](n)
		if err != nil {
			return nil, err
		}
		out := element.Circle{Radius: spec.Radius}
		if spec.Fill != nil {
			out.Fill = &spec.Fill.RGBA
		}
		if spec.Outline != nil {
			style := spec.Outline.style()
			out.Outline = &style
		}
		return out, nil

	case "Line":
		spec, err := decodeNode[lineNode](n)
		if err != nil {
			return nil, err
		}
		return element.Line{Style: spec.Style.style()}, nil

	case "VGap":
		spec, err := decodeNode[vgapNode](n)
		if err != nil {
			return nil, err
		}
		return element.VGap{Height: spec.Height}, nil

	case "HAlign":
		spec, err := decodeNode[halignNode](n)
		if err != nil {
			return nil, err
		}
		align, err := parseAlignment(spec.Align)
		if err != nil {
			return nil, err
		}
		inner, err := b.Build(spec.Element)
		if err != nil {
			return nil, err
		}
		return element.HAlign{Align: align, Inner: inner}, nil

	case "Padding":
		spec, err := decodeNode[paddingNode](n)
		if err != nil {
			return nil, err
		}
		inner, err := b.Build(spec.Element)
		if err != nil {
			return nil, err
		}
		return element.Padding{
			Left: spec.Left, Right: spec.Right,
			Top: spec.Top, Bottom: spec.Bottom,
			Inner: inner,
		}, nil

	case "Column":
		spec, err := decodeNode[columnNode](n)
		if err != nil {
			return nil, err
		}
		children, err := b.buildAll(spec.Content)
		if err != nil {
			return nil, err
		}
		return element.Column{
			Gap: spec.Gap,
			Content: func(content *element.ColumnContent) {
				for _, child := range children {
					if !content.Add(child) {
						return
					}
				}
			},
		}, nil

	case "Row":
		spec, err := decodeNode[rowNode](n)
		if err != nil {
			return nil, err
		}
		type rowChild struct {
			el   layout.Element
			flex element.Flex
		}
		children := make([]rowChild, 0, len(spec.Content))
		for _, c := range spec.Content {
			el, err := b.Build(c.Element)
			if err != nil {
				return nil, err
			}
			flex, err := c.Flex.flex()
			if err != nil {
				return nil, err
			}
			children = append(children, rowChild{el: el, flex: flex})
		}
		return element.Row{
			Gap:      spec.Gap,
			Expand:   spec.Expand,
			Collapse: spec.Collapse,
			Content: func(content *element.RowContent) {
				for _, child := range children {
					content.Add(child.el, child.flex)
				}
			},
		}, nil

	case "Stack":
		spec, err := decodeNode[stackNode](n)
		if err != nil {
			return nil, err
		}
		children, err := b.buildAll(spec.Content)
		if err != nil {
			return nil, err
		}
		return element.Stack{
			Expand: spec.Expand,
			Content: func(content *element.StackContent) {
				for _, child := range children {
					content.Add(child)
				}
			},
		}, nil

	case "ForceBreak":
		return element.ForceBreak{}, nil

	case "BreakWhole":
		spec, err := decodeNode[wrapperNode](n)
		if err != nil {
			return nil, err
		}
		inner, err := b.Build(spec.Element)
		if err != nil {
			return nil, err
		}
		return element.BreakWhole{Inner: inner}, nil

	case "MinFirstHeight":
		spec, err := decodeNode[minFirstHeightNode](n)
		if err != nil {
			return nil, err
		}
		inner, err := b.Build(spec.Element)
		if err != nil {
			return nil, err
		}
		return element.MinFirstHeight{Inner: inner, MinHeight: spec.MinHeight}, nil

	case "ShrinkToFit":
		spec, err := decodeNode[shrinkToFitNode](n)
		if err != nil {
			return nil, err
		}
		inner, err := b.Build(spec.Element)
		if err != nil {
			return nil, err
		}
		return element.ShrinkToFit{Inner: inner, MinHeight: spec.MinHeight}, nil

	case "ExpandToPreferredHeight":
		spec, err := decodeNode[wrapperNode](n)
		if err != nil {
			return nil, err
		}
		inner, err := b.Build(spec.Element)
		if err != nil {
			return nil, err
		}
		return element.ExpandToPreferredHeight{Inner: inner}, nil

	case "Titled", "RepeatAfterBreak":
		spec, err := decodeNode[titledNode](n)
		if err != nil {
			return nil, err
		}
		title, err := b.Build(spec.Title)
		if err != nil {
			return nil, err
		}
		content, err := b.Build(spec.Content)
		if err != nil {
			return nil, err
		}
		if n.Kind == "Titled" {
			return element.Titled{
				Title: title, Content: content, Gap: spec.Gap,
				CollapseOnEmptyContent: spec.CollapseOnEmptyContent,
			}, nil
		}
		return element.RepeatAfterBreak{
			Title: title, Content: content, Gap: spec.Gap,
			CollapseOnEmptyContent: spec.CollapseOnEmptyContent,
		}, nil

	case "ChangingTitle":
		spec, err := decodeNode[changingTitleNode](n)
		if err != nil {
			return nil, err
		}
		first, err := b.Build(spec.FirstTitle)
		if err != nil {
			return nil, err
		}
		remaining, err := b.Build(spec.RemainingTitle)
		if err != nil {
			return nil, err
		}
		content, err := b.Build(spec.Content)
		if err != nil {
			return nil, err
		}
		return element.ChangingTitle{
			FirstTitle:     first,
			RemainingTitle: remaining,
			Content:        content,
			Gap:            spec.Gap,
			Collapse:       spec.Collapse,
		}, nil

	case "PinBelow":
		spec, err := decodeNode[pinBelowNode](n)
		if err != nil {
			return nil, err
		}
		content, err := b.Build(spec.Content)
		if err != nil {
			return nil, err
		}
		pinned, err := b.Build(spec.Pinned)
		if err != nil {
			return nil, err
		}
		return element.PinBelow{
			Content: content, Pinned: pinned,
			Gap: spec.Gap, Collapse: spec.Collapse,
		}, nil

	case "Page":
		return b.buildPage(n)
	}
	return nil, fmt.Errorf("未知的元素种类 %q", n.Kind)
}

func (b *Builder) buildAll(nodes []Node) ([]layout.Element, error) {
	out := make([]layout.Element, 0, len(nodes))
	for _, n := range nodes {
		el, err := b.Build(n)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (b *Builder) buildPage(n Node) (layout.Element, error) {
	spec, err := decodeNode[pageNode](n)
	if err != nil {
		return nil, err
	}
	primary, err := b.Build(spec.Element)
	if err != nil {
		return nil, err
	}

	page := element.Page{Primary: primary}
	if border := spec.Border; border != nil {
		page.BorderLeft = border.Left.Pt()
		page.BorderRight = border.Right.Pt()
		page.BorderTop = border.Top.Pt()
		page.BorderBottom = border.Bottom.Pt()
	}

	if len(spec.Decorations) > 0 {
		decorations := spec.Decorations
		page.Decorate = func(d *element.PageDecorations, pageIndex, pageCount int) {
			// 装饰在这里逐页构建：页码占位符 ${page}/${pages} 只有
			// 此刻才有值。
			per := *b
			per.Data = b.pageData(pageIndex+1, pageCount)
			for _, deco := range decorations {
				el, err := per.Build(deco.Element)
				if err != nil {
					b.logger().Warn("页面装饰构建失败", zap.Error(err))
					continue
				}
				d.Add(el, deco.X, deco.Y, optionalExtent(deco.Width))
			}
		}
	}
	return page, nil
}

// pageData 在用户数据上叠加当前页码与总页数。
func (b *Builder) pageData(page, pages int) any {
	m := map[string]any{"page": page, "pages": pages}
	if orig, ok := b.Data.(map[string]any); ok {
		for k, v := range orig {
			if _, taken := m[k]; !taken {
				m[k] = v
			}
		}
	}
	return m
}

func optionalExtent(v *float64) layout.Extent {
	if v == nil {
		return layout.Extent{}
	}
	return layout.SomeExtent(*v)
}

func placeholderFor(w, h *float64) layout.Element {
	return element.Placeholder{
		Width:  optionalExtent(w),
		Height: optionalExtent(h),
	}
}
