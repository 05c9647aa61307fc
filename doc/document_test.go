package doc_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/folio-layout/folio/doc"
)

const sampleJSON = `{
  "title": "Quarterly Report",
  "author": "Finance",
  "keywords": ["finance", "internal"],
  "lang": "en",
  "entries": [
    {
      "size": [210, 297],
      "margin": {"top": 15, "right": 12, "bottom": 15, "left": 12},
      "fonts": {
        "body": "builtin:go-regular",
        "head": {"regular": "builtin:go-regular", "bold": "builtin:go-bold"}
      },
      "element": {
        "type": "Column",
        "gap": 4,
        "content": [
          {"type": "Text", "font": "head", "size": 18, "text": "Summary"},
          {"type": "VGap", "height": 6}
        ]
      }
    }
  ]
}`

func TestParseDocument(t *testing.T) {
	d, err := doc.Parse(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	if d.Title != "Quarterly Report" || d.Author != "Finance" || d.Lang != "en" {
		t.Fatalf("元数据不符: %+v", d)
	}
	if diff := cmp.Diff([]string{"finance", "internal"}, d.Keywords); diff != "" {
		t.Fatalf("关键字不符 (-want +got):\n%s", diff)
	}

	if len(d.Entries) != 1 {
		t.Fatalf("期望 1 个条目，得到 %d", len(d.Entries))
	}
	entry := d.Entries[0]
	if diff := cmp.Diff([2]doc.Length{doc.MM(210), doc.MM(297)}, entry.Size); diff != "" {
		t.Fatalf("尺寸不符 (-want +got):\n%s", diff)
	}
	if entry.Margin == nil || entry.Margin.Top != doc.MM(15) || entry.Margin.Left != doc.MM(12) {
		t.Fatalf("边距不符: %+v", entry.Margin)
	}
	if got := entry.Fonts["body"].Regular; got != "builtin:go-regular" {
		t.Fatalf("单路径字体应落在 regular 变体: %+v", entry.Fonts["body"])
	}
	if got := entry.Fonts["head"].Bold; got != "builtin:go-bold" {
		t.Fatalf("变体字体不符: %+v", entry.Fonts["head"])
	}
	if entry.Elem.Kind != "Column" {
		t.Fatalf("根元素种类不符: %s", entry.Elem.Kind)
	}
}

func TestParseDocumentMetadata(t *testing.T) {
	d, err := doc.Parse(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	meta := d.Metadata()
	if meta.Title != "Quarterly Report" || meta.Author != "Finance" {
		t.Fatalf("元数据提取不符: %+v", meta)
	}
	if diff := cmp.Diff([]string{"finance", "internal"}, meta.Keywords); diff != "" {
		t.Fatalf("关键字不符 (-want +got):\n%s", diff)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unknown field", `{"entries": [], "banana": 1}`},
		{"no entries", `{"entries": []}`},
		{"zero size", `{"entries": [{"size": [0, 297], "element": {"type": "None"}}]}`},
		{"missing element", `{"entries": [{"size": [210, 297]}]}`},
		{"element without type", `{"entries": [{"size": [210, 297], "element": {"gap": 1}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := doc.Parse(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("期望解析错误")
			}
		})
	}
}

func TestParseLengthStringInJSON(t *testing.T) {
	input := `{"entries": [{"size": ["8.5in", "11in"], "element": {"type": "None"}}]}`
	d, err := doc.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got := d.Entries[0].Size[0].Pt(); got != 8.5*72 {
		t.Fatalf("8.5in 应为 %v pt，得到 %v", 8.5*72, got)
	}
}
