// Package binding 提供 ${path} 形式的数据插值。路径用点号进入嵌套映射，
// 用 [n] 进入数组，如 ${company.staff[1].name}。解析不到的占位符原样保留，
// 文档因此可以分多次绑定。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 把 text 中的 ${path} 占位符替换为 data 里对应的值。
// data 为 nil、路径为空或无法解析时保留原文。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		steps, err := parsePath(path)
		if err != nil {
			return match
		}
		value, ok := walk(data, steps)
		if !ok {
			return match
		}
		return fmt.Sprint(value)
	})
}

// step 是路径上的一步：映射取键或数组取下标。
type step struct {
	key   string
	index int
}

func parsePath(path string) ([]step, error) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		rest := segment
		if open := strings.IndexByte(rest, '['); open != -1 {
			rest = segment[open:]
			segment = segment[:open]
		} else {
			rest = ""
		}
		if segment != "" {
			steps = append(steps, step{key: segment})
		}
		for rest != "" {
			if rest[0] != '[' {
				return nil, fmt.Errorf("下标之后出现多余内容 %q", rest)
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return nil, fmt.Errorf("下标缺少右括号: %q", rest)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, fmt.Errorf("下标不是整数: %w", err)
			}
			steps = append(steps, step{index: idx})
			rest = rest[end+1:]
		}
	}
	return steps, nil
}

func walk(data any, steps []step) (any, bool) {
	current := data
	for _, s := range steps {
		if s.key != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[s.key]
			if !ok {
				return nil, false
			}
			continue
		}
		arr, ok := current.([]any)
		if !ok || s.index < 0 || s.index >= len(arr) {
			return nil, false
		}
		current = arr[s.index]
	}
	return current, true
}
