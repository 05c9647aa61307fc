package binding_test

import (
	"testing"

	"github.com/folio-layout/folio/binding"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"name": "Ada",
		"company": map[string]any{
			"title": "Analytical",
			"staff": []any{
				map[string]any{"name": "Babbage"},
				map[string]any{"name": "Lovelace"},
			},
		},
		"count": 42.0,
	}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no placeholders", "no placeholders"},
		{"simple", "Hi ${name}", "Hi Ada"},
		{"nested", "at ${company.title}", "at Analytical"},
		{"indexed", "by ${company.staff[1].name}", "by Lovelace"},
		{"number", "n=${count}", "n=42"},
		{"missing path", "x ${nope.deep} y", "x ${nope.deep} y"},
		{"out of range", "${company.staff[9].name}", "${company.staff[9].name}"},
		{"bad index", "${company.staff[one].name}", "${company.staff[one].name}"},
		{"empty expr", "${ }", "${ }"},
		{"multiple", "${name}/${name}", "Ada/Ada"},
		{"spaces trimmed", "${ name }", "Ada"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := binding.Interpolate(tc.in, data); got != tc.want {
				t.Fatalf("Interpolate(%q) = %q，期望 %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := binding.Interpolate("keep ${name}", nil); got != "keep ${name}" {
		t.Fatalf("无数据时应原样返回，得到 %q", got)
	}
}
