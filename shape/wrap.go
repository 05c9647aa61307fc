package shape

import (
	"math"
	"strings"
	"unicode"
)

// Line is one wrapped line. Width is the advance in points with trailing
// whitespace excluded; FullWidth includes it, which matters for the caret
// position after the last line.
type Line struct {
	Text      string
	Width     float64
	FullWidth float64
}

// WrapMode selects the line breaking policy.
type WrapMode int

const (
	// WrapNormal breaks at whitespace runs first and splits inside a token
	// only when the token alone exceeds the limit.
	WrapNormal WrapMode = iota

	// WrapNone breaks only at explicit newlines.
	WrapNone

	// WrapBreakWord ignores whitespace opportunities and splits purely by
	// width, still honoring explicit newlines.
	WrapBreakWord
)

// Token is a maximal run of either whitespace or non-whitespace, or the
// literal "\n" marking an explicit break. Width is the advance in points.
type Token struct {
	Text  string
	Width float64
}

// Tokenize splits content into alternating whitespace and word tokens,
// measuring each with face. Carriage returns are dropped.
func Tokenize(face Face, content string) []Token {
	var tokens []Token
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		s := builder.String()
		tokens = append(tokens, Token{Text: s, Width: face.TextWidth(s)})
		builder.Reset()
	}

	for _, r := range content {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, Token{Text: "\n"})
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// WrapTokens assembles tokens into lines no wider than maxWidth using a
// first-fit greedy policy. A non-positive maxWidth disables width breaking.
func WrapTokens(face Face, tokens []Token, maxWidth float64) []Line {
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []Line
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, Line{})
			}
			return
		}
		lines = append(lines, makeLine(face, builder.String(), currentWidth))
		builder.Reset()
		currentWidth = 0
	}
	appendRun := func(text string, width float64) {
		builder.WriteString(text)
		currentWidth += width
	}

	for _, token := range tokens {
		if token.Text == "\n" {
			emit(true)
			continue
		}
		if currentWidth > 0 && currentWidth+token.Width > limit {
			emit(false)
			// 触发换行的空白被这次换行吞掉，不带到下一行行首。
			if strings.TrimSpace(token.Text) == "" {
				continue
			}
		}
		if token.Width <= limit {
			appendRun(token.Text, token.Width)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}
		for _, chunk := range splitByWidth(face, token.Text, limit) {
			w := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+w > limit {
				emit(false)
			}
			appendRun(chunk, w)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

// makeLine settles both widths of a finished line. fullWidth is the advance
// accumulated while building text.
func makeLine(face Face, text string, fullWidth float64) Line {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	width := fullWidth
	if trimmed != text {
		width = face.TextWidth(trimmed)
	}
	return Line{Text: text, Width: width, FullWidth: fullWidth}
}

// Wrap breaks content into lines under mode. The returned widths come from
// face.
func Wrap(face Face, content string, maxWidth float64, mode WrapMode) []Line {
	switch mode {
	case WrapNone:
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]Line, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, makeLine(face, p, face.TextWidth(p)))
		}
		return lines

	case WrapBreakWord:
		return wrapBreakWord(face, content, maxWidth)

	default:
		return WrapTokens(face, Tokenize(face, content), maxWidth)
	}
}

func wrapBreakWord(face Face, content string, maxWidth float64) []Line {
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []Line
	var builder strings.Builder
	current := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, Line{})
			}
			return
		}
		lines = append(lines, makeLine(face, builder.String(), current))
		builder.Reset()
		current = 0
	}

	for _, r := range content {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			emit(true)
			continue
		}
		s := string(r)
		cw := face.TextWidth(s)
		if current > 0 && current+cw > limit {
			emit(false)
		}
		builder.WriteString(s)
		current += cw
		if current > limit {
			emit(false)
		}
	}
	emit(true)
	return lines
}

func splitByWidth(face Face, token string, limit float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
