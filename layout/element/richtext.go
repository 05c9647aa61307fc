package element

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/folio-layout/folio/layout"
	"github.com/folio-layout/folio/shape"
)

// RichSpan 是 RichText 里一段样式一致的文本。
type RichSpan struct {
	Text      string
	Family    string
	Style     layout.FontStyle
	SizePt    float64
	Color     color.RGBA
	Underline bool
}

// RichText 把多段异样式文本接成一个段落，经同一个换行器断行。行高取该
// 行内所有片段的最大行高，基线对齐到最大上伸。分页与 Text 一致：逐行，
// 行内不拆。
type RichText struct {
	Shaper *shape.Shaper

	Spans           []RichSpan
	Align           Alignment
	ExtraLineHeight float64
	Spacing         shape.Spacing
}

// richPiece 是断行的最小单元：一个片段内的连续空白或非空白，或显式换行。
type richPiece struct {
	span    int
	text    string
	width   float64
	isSpace bool
	isBreak bool
	metrics shape.Metrics
}

type richLine struct {
	pieces    []richPiece
	width     float64
	fullWidth float64
	ascent    float64
	height    float64
}

func (r RichText) pieces() []richPiece {
	var pieces []richPiece
	for i, span := range r.Spans {
		face, err := r.Shaper.Face(span.Family, span.Style, span.SizePt)
		if err != nil {
			continue
		}
		metrics := face.Metrics()
		face = shape.WithSpacing(face, r.Spacing)
		for _, tok := range shape.Tokenize(face, span.Text) {
			if tok.Text == "\n" {
				pieces = append(pieces, richPiece{span: i, isBreak: true, metrics: metrics})
				continue
			}
			first, _ := utfFirstRune(tok.Text)
			pieces = append(pieces, richPiece{
				span:    i,
				text:    tok.Text,
				width:   tok.Width,
				isSpace: unicode.IsSpace(first),
				metrics: metrics,
			})
		}
	}
	return pieces
}

func utfFirstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// splitPiece 把超宽的词按字形粒度切开，每段都不超过 limit（单字除外）。
func (r RichText) splitPiece(p richPiece, limit float64) []richPiece {
	face, err := r.Shaper.Face(r.Spans[p.span].Family, r.Spans[p.span].Style, r.Spans[p.span].SizePt)
	if err != nil {
		return []richPiece{p}
	}
	face = shape.WithSpacing(face, r.Spacing)
	var out []richPiece
	var builder strings.Builder
	for _, ch := range p.text {
		builder.WriteRune(ch)
		if face.TextWidth(builder.String()) > limit && builder.Len() > len(string(ch)) {
			runes := []rune(builder.String())
			chunk := string(runes[:len(runes)-1])
			out = append(out, richPiece{
				span: p.span, text: chunk, width: face.TextWidth(chunk), metrics: p.metrics,
			})
			builder.Reset()
			builder.WriteRune(ch)
		}
	}
	if builder.Len() > 0 {
		chunk := builder.String()
		out = append(out, richPiece{
			span: p.span, text: chunk, width: face.TextWidth(chunk), metrics: p.metrics,
		})
	}
	return out
}

func (r RichText) breakIntoLines(maxWidth float64) []richLine {
	pieces := r.pieces()

	var lines []richLine
	var current []richPiece
	currentWidth := 0.0

	settle := func(ps []richPiece) richLine {
		line := richLine{pieces: ps}
		full := 0.0
		trimmedEnd := len(ps)
		for trimmedEnd > 0 && ps[trimmedEnd-1].isSpace {
			trimmedEnd--
		}
		for i, p := range ps {
			full += p.width
			if i < trimmedEnd {
				line.width += p.width
			}
			if p.metrics.Ascent > line.ascent {
				line.ascent = p.metrics.Ascent
			}
			if h := p.metrics.LineHeight + r.ExtraLineHeight; h > line.height {
				line.height = h
			}
		}
		line.fullWidth = full
		if line.height == 0 {
			line.height = r.emptyLineHeight()
			line.ascent = r.emptyLineAscent()
		}
		return line
	}
	emit := func() {
		lines = append(lines, settle(current))
		current = nil
		currentWidth = 0
	}

	for _, p := range pieces {
		if p.isBreak {
			emit()
			continue
		}
		if !p.isSpace && currentWidth > 0 && currentWidth+p.width > maxWidth {
			emit()
		}
		if !p.isSpace && p.width > maxWidth {
			for _, chunk := range r.splitPiece(p, maxWidth) {
				if currentWidth > 0 && currentWidth+chunk.width > maxWidth {
					emit()
				}
				current = append(current, chunk)
				currentWidth += chunk.width
			}
			continue
		}
		current = append(current, p)
		currentWidth += p.width
	}
	lines = append(lines, settle(current))
	return lines
}

// emptyLineHeight 取第一段的行高，让空行也占一行的位置。
func (r RichText) emptyLineHeight() float64 {
	if len(r.Spans) == 0 {
		return 0
	}
	face, err := r.Shaper.Face(r.Spans[0].Family, r.Spans[0].Style, r.Spans[0].SizePt)
	if err != nil {
		return 0
	}
	return face.Metrics().LineHeight + r.ExtraLineHeight
}

func (r RichText) emptyLineAscent() float64 {
	if len(r.Spans) == 0 {
		return 0
	}
	face, err := r.Shaper.Face(r.Spans[0].Family, r.Spans[0].Style, r.Spans[0].SizePt)
	if err != nil {
		return 0
	}
	return face.Metrics().Ascent
}

func (r RichText) FirstLocationUsage(ctx layout.FirstLocationUsageCtx) layout.FirstLocationUsage {
	lines := r.breakIntoLines(ctx.Width.Max)
	if len(lines) > 0 && lines[0].height > ctx.FirstHeight {
		return layout.WillSkip
	}
	return layout.WillUse
}

func (r RichText) Measure(ctx layout.MeasureCtx) layout.Size {
	lines := r.breakIntoLines(ctx.Width.Max)

	maxWidth := 0.0
	height := 0.0
	available := ctx.FirstHeight
	for i, line := range lines {
		if ctx.Breakable != nil && available < line.height {
			*ctx.Breakable.BreakCount++
			available = ctx.Breakable.FullHeight
			height = 0
		}
		w := line.width
		if i == len(lines)-1 {
			w = line.fullWidth
		}
		if w > maxWidth {
			maxWidth = w
		}
		available -= line.height
		height += line.height
	}

	return layout.Size{
		Width:  layout.SomeExtent(ctx.Width.Constrain(maxWidth)),
		Height: layout.SomeExtent(height),
	}
}

func (r RichText) Draw(ctx layout.DrawCtx) layout.Size {
	lines := r.breakIntoLines(ctx.Width.Max)

	alignWidth := 0.0
	switch {
	case ctx.Width.Expand:
		alignWidth = ctx.Width.Max
	case r.Align != AlignLeft:
		for _, line := range lines {
			if line.width > alignWidth {
				alignWidth = line.width
			}
		}
	}

	maxWidth := alignWidth
	height := 0.0
	available := ctx.FirstHeight
	breakIndex := 0
	loc := ctx.Location
	y := loc.Y

	for i, line := range lines {
		if ctx.Breakable != nil && available < line.height {
			next := ctx.Breakable.GetLocation(breakIndex)
			breakIndex++
			loc = next
			y = next.Y
			available = ctx.Breakable.FullHeight
			height = 0
		}

		xOffset := 0.0
		switch r.Align {
		case AlignCenter:
			xOffset = (alignWidth - line.width) / 2
		case AlignRight:
			xOffset = alignWidth - line.width
		}

		x := loc.X + xOffset
		baseline := y + line.ascent
		for _, p := range line.pieces {
			if p.text != "" && !p.isSpace {
				span := r.Spans[p.span]
				loc.Surface.Text(layout.TextSpan{
					Text:          p.text,
					Family:        span.Family,
					Style:         span.Style,
					SizePt:        span.SizePt,
					Color:         span.Color,
					Underline:     span.Underline,
					Width:         p.width,
					CharSpacingPt: r.Spacing.CharPt,
					WordSpacingPt: r.Spacing.WordPt,
				}, x, baseline)
			}
			x += p.width
		}

		w := line.width
		if i == len(lines)-1 {
			w = line.fullWidth
		}
		if w > maxWidth {
			maxWidth = w
		}

		y += line.height
		available -= line.height
		height += line.height
	}

	return layout.Size{
		Width:  layout.SomeExtent(ctx.Width.Constrain(maxWidth)),
		Height: layout.SomeExtent(height),
	}
}
