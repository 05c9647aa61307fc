package doc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/folio-layout/folio/layout"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * layout.PtToMm
		back := mm * layout.MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthPt 覆盖 Length 在常见单位上到 pt 的转换。
func TestLengthPt(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{Value: 1, Unit: UnitIN}, 72},
		{Length{Value: 2.54, Unit: UnitCM}, 72},
		{Length{Value: 25.4, Unit: UnitMM}, 72},
		{Length{Value: 12, Unit: UnitPT}, 12},
		{MM(10), 10 * layout.MmToPt},
	}
	for _, tc := range cases {
		if got := tc.in.Pt(); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%v 转 pt 期望 %g，实际 %g", tc.in, tc.want, got)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{in: "12mm", want: Length{Value: 12, Unit: UnitMM}},
		{in: "1.5cm", want: Length{Value: 1.5, Unit: UnitCM}},
		{in: "0.5in", want: Length{Value: 0.5, Unit: UnitIN}},
		{in: "18pt", want: Length{Value: 18, Unit: UnitPT}},
		{in: "42", want: Length{Value: 42, Unit: UnitMM}},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseLength(%q) 期望报错", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLength(%q) = %v，期望 %v", tc.in, got, tc.want)
		}
	}
}

// TestLengthJSON 验证 JSON 里裸数字按毫米、字符串按带单位解析。
func TestLengthJSON(t *testing.T) {
	var l Length
	if err := json.Unmarshal([]byte(`21.5`), &l); err != nil {
		t.Fatalf("数字长度解析失败: %v", err)
	}
	if l != MM(21.5) {
		t.Fatalf("期望 21.5mm，得到 %v", l)
	}

	if err := json.Unmarshal([]byte(`"18pt"`), &l); err != nil {
		t.Fatalf("字符串长度解析失败: %v", err)
	}
	if l != (Length{Value: 18, Unit: UnitPT}) {
		t.Fatalf("期望 18pt，得到 %v", l)
	}

	if err := json.Unmarshal([]byte(`"nope"`), &l); err == nil {
		t.Fatalf("非法长度应当报错")
	}
}
