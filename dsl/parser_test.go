package dsl_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/folio-layout/folio/doc"
	"github.com/folio-layout/folio/dsl"
)

const sampleDSL = `
doc report {
  meta {
    title: "Quarterly Report"
    author: "Finance"
    keywords: [
      "finance"
      "internal"
    ]
  }

  entry a4 {
    margin: [15mm, 12mm, 15mm, 12mm]
    fonts: {
      body: "builtin:go-regular"
      head: {
        regular: "builtin:go-regular"
        bold: "builtin:go-bold"
      }
    }

    column gap=4 {
      text font=head size=18pt "Summary" // heading
      vgap 6
      text font=body size=11pt {
        "Revenue for ${quarter} was up."
      }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	ast, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if ast.Name != "report" {
		t.Fatalf("expected document name report, got %s", ast.Name)
	}
	if len(ast.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(ast.Sections))
	}

	meta := ast.Sections[0].Meta
	if meta == nil {
		t.Fatalf("meta section missing, got %s", ast.Sections[0].Kind())
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); got != "Quarterly Report" {
		t.Fatalf("expected title Quarterly Report, got %s", got)
	}
	keywords := meta.Block.Statements[2].Assignment
	if keywords == nil || keywords.Value.Array == nil {
		t.Fatalf("expected keywords array assignment")
	}
	if len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(keywords.Value.Array.Values))
	}

	entry := ast.Sections[1].Entry
	if entry == nil {
		t.Fatalf("entry section missing, got %s", ast.Sections[1].Kind())
	}
	if entry.Size != "a4" {
		t.Fatalf("expected entry size a4, got %s", entry.Size)
	}

	margin := entry.Block.Statements[0].Assignment
	if margin == nil || margin.Key != "margin" || margin.Value.Array == nil {
		t.Fatalf("expected margin array assignment, got %+v", entry.Block.Statements[0])
	}

	fonts := entry.Block.Statements[1].Assignment
	if fonts == nil || fonts.Key != "fonts" || fonts.Value.Object == nil {
		t.Fatalf("expected fonts object assignment, got %+v", entry.Block.Statements[1])
	}
	if len(fonts.Value.Object.Entries) != 2 {
		t.Fatalf("expected 2 font entries, got %d", len(fonts.Value.Object.Entries))
	}
	head := fonts.Value.Object.Entries[1]
	if head.Key != "head" || head.Value.Object == nil {
		t.Fatalf("expected head font object, got %+v", head)
	}

	root := entry.Block.Statements[2].Command
	if root == nil || root.Name != "column" {
		t.Fatalf("expected column command, got %+v", entry.Block.Statements[2])
	}
	if len(root.Args) < 3 || root.Args[0].Value != "gap" {
		t.Fatalf("unexpected column args: %+v", root.Args)
	}
	if root.Block == nil || len(root.Block.Statements) != 3 {
		t.Fatalf("column block missing statements: %+v", root.Block)
	}

	textCmd := root.Block.Statements[0].Command
	if textCmd == nil || textCmd.Name != "text" {
		t.Fatalf("expected text command, got %+v", root.Block.Statements[0])
	}
	last := textCmd.Args[len(textCmd.Args)-1]
	if last.Type != "String" || last.Value != "Summary" {
		t.Fatalf("expected trailing string arg, got %+v", last)
	}

	blockText := root.Block.Statements[2].Command
	if blockText == nil || blockText.Block == nil || blockText.Block.Statements[0].Text == nil {
		t.Fatalf("expected text command with block literal, got %+v", root.Block.Statements[2])
	}
	if got := string(blockText.Block.Statements[0].Text.Value); !strings.Contains(got, "${quarter}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}
}

func TestCompileDocument(t *testing.T) {
	ast, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	compiled, err := dsl.Compile(ast)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if compiled.Title != "Quarterly Report" || compiled.Author != "Finance" {
		t.Fatalf("unexpected metadata: %+v", compiled)
	}
	if diff := cmp.Diff([]string{"finance", "internal"}, compiled.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}

	if len(compiled.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(compiled.Entries))
	}
	entry := compiled.Entries[0]
	if diff := cmp.Diff([2]doc.Length{doc.MM(210), doc.MM(297)}, entry.Size); diff != "" {
		t.Fatalf("size mismatch (-want +got):\n%s", diff)
	}
	want := &doc.MarginSpec{
		Top:    doc.MM(15),
		Right:  doc.MM(12),
		Bottom: doc.MM(15),
		Left:   doc.MM(12),
	}
	if diff := cmp.Diff(want, entry.Margin); diff != "" {
		t.Fatalf("margin mismatch (-want +got):\n%s", diff)
	}

	if got := entry.Fonts["body"].Regular; got != "builtin:go-regular" {
		t.Fatalf("unexpected body font: %+v", entry.Fonts["body"])
	}
	if got := entry.Fonts["head"].Bold; got != "builtin:go-bold" {
		t.Fatalf("unexpected head font: %+v", entry.Fonts["head"])
	}

	if entry.Elem.Kind != "Column" {
		t.Fatalf("expected Column root, got %s", entry.Elem.Kind)
	}
}

func TestCompileExplicitSize(t *testing.T) {
	input := `
doc card {
  entry {
    size: [90mm, 55mm]
    text "hello"
  }
}
`
	ast, err := dsl.ParseString(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	compiled, err := dsl.Compile(ast)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	entry := compiled.Entries[0]
	if diff := cmp.Diff([2]doc.Length{doc.MM(90), doc.MM(55)}, entry.Size); diff != "" {
		t.Fatalf("size mismatch (-want +got):\n%s", diff)
	}
	if entry.Elem.Kind != "Text" {
		t.Fatalf("expected Text root, got %s", entry.Elem.Kind)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no entries",
			input: `doc empty { meta { title: "x" } }`,
			want:  "entry",
		},
		{
			name: "missing size",
			input: `
doc bad {
  entry {
    text "hi"
  }
}
`,
			want: "尺寸",
		},
		{
			name: "unknown paper size",
			input: `
doc bad {
  entry tabloid {
    text "hi"
  }
}
`,
			want: "tabloid",
		},
		{
			name: "two roots",
			input: `
doc bad {
  entry a4 {
    text "one"
    text "two"
  }
}
`,
			want: "根元素",
		},
		{
			name: "unknown command",
			input: `
doc bad {
  entry a4 {
    wobble "hi"
  }
}
`,
			want: "wobble",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ast, err := dsl.ParseString(tc.input)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if _, err := dsl.Compile(ast); err == nil {
				t.Fatalf("expected compile error containing %q", tc.want)
			} else if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCompileSlots(t *testing.T) {
	input := `
doc slotted {
  entry a4 {
    titled gap=2 {
      title {
        text "Heading"
      }
      content {
        column {
          text "Body"
          vgap 4
        }
      }
    }
  }
}
`
	ast, err := dsl.ParseString(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	compiled, err := dsl.Compile(ast)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if got := compiled.Entries[0].Elem.Kind; got != "Titled" {
		t.Fatalf("expected Titled root, got %s", got)
	}
}
