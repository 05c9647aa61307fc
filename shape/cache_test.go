package shape_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/shape"
)

// countingSource 统计 Face 的解析次数，用来观察缓存命中。
type countingSource struct {
	calls int
}

func (s *countingSource) Face(family string, style layout.FontStyle, sizePt float64) (shape.Face, error) {
	s.calls++
	if family == "ghost" {
		return nil, fmt.Errorf("未知字体族 %q", family)
	}
	return fixedFace{}, nil
}

func TestShaperLinesCachesRepeats(t *testing.T) {
	src := &countingSource{}
	shaper := shape.NewShaper(src, shape.NewCache(8))

	first, metrics, err := shaper.Lines("body", layout.FontRegular, 12, "aaa bb", 60, shape.WrapNormal, shape.Spacing{})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if metrics.LineHeight != 12 {
		t.Fatalf("度量不符: %+v", metrics)
	}

	second, _, err := shaper.Lines("body", layout.FontRegular, 12, "aaa bb", 60, shape.WrapNormal, shape.Spacing{})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("重复请求应命中缓存，Face 被解析 %d 次", src.calls)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("缓存结果不一致 (-first +second):\n%s", diff)
	}
}

func TestShaperLinesKeyIncludesConstraint(t *testing.T) {
	src := &countingSource{}
	shaper := shape.NewShaper(src, shape.NewCache(8))

	wide, _, err := shaper.Lines("body", layout.FontRegular, 12, "aaa bb", 200, shape.WrapNormal, shape.Spacing{})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	narrow, _, err := shaper.Lines("body", layout.FontRegular, 12, "aaa bb", 30, shape.WrapNormal, shape.Spacing{})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(wide) == len(narrow) {
		t.Fatalf("不同宽度约束不应共享缓存条目: wide=%d narrow=%d", len(wide), len(narrow))
	}
	if src.calls != 2 {
		t.Fatalf("期望两次解析，得到 %d", src.calls)
	}
}

func TestShaperLinesKeyIncludesSpacing(t *testing.T) {
	src := &countingSource{}
	shaper := shape.NewShaper(src, shape.NewCache(8))

	plain, _, err := shaper.Lines("body", layout.FontRegular, 12, "aaa bb", 60, shape.WrapNormal, shape.Spacing{})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	spaced, _, err := shaper.Lines("body", layout.FontRegular, 12, "aaa bb", 60, shape.WrapNormal, shape.Spacing{CharPt: 2})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(plain) == len(spaced) {
		t.Fatalf("字距不同不应共享缓存条目: plain=%d spaced=%d", len(plain), len(spaced))
	}
	if src.calls != 2 {
		t.Fatalf("期望两次解析，得到 %d", src.calls)
	}
}

func TestShaperLinesFaceErrorPropagates(t *testing.T) {
	shaper := shape.NewShaper(&countingSource{}, nil)
	if _, _, err := shaper.Lines("ghost", layout.FontRegular, 12, "hi", 100, shape.WrapNormal, shape.Spacing{}); err == nil {
		t.Fatalf("字体解析失败应报错")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	src := &countingSource{}
	shaper := shape.NewShaper(src, shape.NewCache(2))

	for _, text := range []string{"one", "two", "three"} {
		if _, _, err := shaper.Lines("body", layout.FontRegular, 12, text, 100, shape.WrapNormal, shape.Spacing{}); err != nil {
			t.Fatalf("Lines(%q): %v", text, err)
		}
	}

	// "one" 是最旧条目，应已被淘汰。
	if _, _, err := shaper.Lines("body", layout.FontRegular, 12, "one", 100, shape.WrapNormal, shape.Spacing{}); err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if src.calls != 4 {
		t.Fatalf("被淘汰的条目应重新解析，得到 %d 次", src.calls)
	}
}

func TestCacheLenIsBounded(t *testing.T) {
	cache := shape.NewCache(2)
	shaper := shape.NewShaper(&countingSource{}, cache)
	for i := 0; i < 5; i++ {
		if _, _, err := shaper.Lines("body", layout.FontRegular, 12, fmt.Sprintf("t%d", i), 100, shape.WrapNormal, shape.Spacing{}); err != nil {
			t.Fatalf("Lines: %v", err)
		}
	}
	if got := cache.Len(); got != 2 {
		t.Fatalf("缓存容量应为 2，得到 %d", got)
	}
}

func TestNewCacheDefaultsCapacity(t *testing.T) {
	cache := shape.NewCache(-1)
	if cache.Len() != 0 {
		t.Fatalf("新缓存应为空")
	}
	shaper := shape.NewShaper(&countingSource{}, cache)
	for i := 0; i <= shape.DefaultCacheCapacity; i++ {
		if _, _, err := shaper.Lines("body", layout.FontRegular, 12, fmt.Sprintf("t%d", i), 100, shape.WrapNormal, shape.Spacing{}); err != nil {
			t.Fatalf("Lines: %v", err)
		}
	}
	if got := cache.Len(); got != shape.DefaultCacheCapacity {
		t.Fatalf("非正容量应取默认容量 %d，得到 %d", shape.DefaultCacheCapacity, got)
	}
}
