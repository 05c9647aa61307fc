// Package doc 是声明式文档层：JSON 结构、长度单位与到布局元素树的构建。
// 文档里的长度默认以毫米书写，构建时统一换算成布局核心使用的 pt。
package doc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/folio-layout/folio/layout"
)

// Unit 是长度值书写时使用的单位。
type Unit int

const (
	UnitMM Unit = iota
	UnitCM
	UnitIN
	UnitPT
)

func (u Unit) String() string {
	switch u {
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return "mm"
	}
}

// Length 保留数值与书写单位。JSON 里可以写裸数字（毫米）或带后缀的
// 字符串，如 "12.5mm"、"1in"、"9pt"。
type Length struct {
	Value float64
	Unit  Unit
}

// MM 返回以毫米为单位的长度。
func MM(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// Pt 返回换算成 pt 的数值。
func (l Length) Pt() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10 * layout.MmToPt
	case UnitIN:
		return l.Value * 72
	case UnitPT:
		return l.Value
	default:
		return l.Value * layout.MmToPt
	}
}

// ParseLength 解析 "12mm" 形式的长度；没有后缀按毫米算。
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	unit := UnitMM
	for _, c := range []struct {
		suffix string
		unit   Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(s, c.suffix) {
			s = strings.TrimSuffix(s, c.suffix)
			unit = c.unit
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", s, err)
	}
	return Length{Value: v, Unit: unit}, nil
}

func (l *Length) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseLength(s)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = MM(v)
	return nil
}

func (l Length) MarshalJSON() ([]byte, error) {
	if l.Unit == UnitMM {
		return json.Marshal(l.Value)
	}
	return json.Marshal(fmt.Sprintf("%g%s", l.Value, l.Unit))
}
