// Package shape measures and wraps styled text ahead of layout. It knows
// nothing about pages or drawing; elements feed it spans and get back lines
// whose advance widths are already settled.
package shape

import "github.com/folio-layout/folio/layout"

// Metrics are the vertical metrics of a sized face, in points.
type Metrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
}

// Face is a font face at a fixed size. TextWidth returns the advance width
// of s in points.
type Face interface {
	TextWidth(s string) float64
	Metrics() Metrics
}

// Spacing widens advances: CharPt after every rune, WordPt additionally
// after every space.
type Spacing struct {
	CharPt float64
	WordPt float64
}

// WithSpacing wraps face so TextWidth includes the extra spacing. A zero
// Spacing returns face unchanged.
func WithSpacing(face Face, sp Spacing) Face {
	if sp.CharPt == 0 && sp.WordPt == 0 {
		return face
	}
	return spacedFace{Face: face, sp: sp}
}

type spacedFace struct {
	Face
	sp Spacing
}

func (f spacedFace) TextWidth(s string) float64 {
	w := f.Face.TextWidth(s)
	for _, r := range s {
		w += f.sp.CharPt
		if r == ' ' {
			w += f.sp.WordPt
		}
	}
	return w
}

// FaceSource resolves a family name and style to a sized face. Resolution
// may fall back to a substitute family or style rather than fail, so an
// error indicates a configuration problem, not a missing glyph.
type FaceSource interface {
	Face(family string, style layout.FontStyle, sizePt float64) (Face, error)
}
