package doc

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document 是声明式文档的根：元数据加若干条目，每个条目自带页面尺寸、
// 页边距、字体声明和一棵元素树。条目依次渲染，页面在同一个 PDF 里连续
// 追加。
type Document struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Lang     string   `json:"lang,omitempty"`

	Entries []Entry `json:"entries"`
}

// Entry 是一段独立排版的内容。Size 是页面宽高，Margin 缺省为零边距。
type Entry struct {
	Size   [2]Length           `json:"size"`
	Margin *MarginSpec         `json:"margin,omitempty"`
	Fonts  map[string]FontSpec `json:"fonts,omitempty"`
	Elem   Node                `json:"element"`
}

// MarginSpec 是四边页边距。
type MarginSpec struct {
	Top    Length `json:"top"`
	Right  Length `json:"right"`
	Bottom Length `json:"bottom"`
	Left   Length `json:"left"`
}

// FontSpec 声明一个字体族的来源。JSON 里可以写单个路径（仅 regular），
// 或按变体给出各自的路径。
type FontSpec struct {
	Regular    string `json:"regular,omitempty"`
	Bold       string `json:"bold,omitempty"`
	Italic     string `json:"italic,omitempty"`
	BoldItalic string `json:"bold_italic,omitempty"`
}

func (f *FontSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FontSpec{Regular: s}
		return nil
	}
	type plain FontSpec
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FontSpec(p)
	return nil
}

// Parse 从 r 读取并解析 JSON 文档。未知字段视为书写错误拒绝。
func Parse(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}
	if len(d.Entries) == 0 {
		return nil, fmt.Errorf("文档没有条目")
	}
	for i, e := range d.Entries {
		if e.Size[0].Pt() <= 0 || e.Size[1].Pt() <= 0 {
			return nil, fmt.Errorf("条目 %d 的页面尺寸无效", i)
		}
		if e.Elem.Kind == "" {
			return nil, fmt.Errorf("条目 %d 缺少元素", i)
		}
	}
	return &d, nil
}
