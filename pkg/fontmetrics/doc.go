// Package fontmetrics measures text with TrueType/OpenType fonts.
//
// A [Calculator] parses its fonts once with golang.org/x/image/font/sfnt and
// answers width and height queries in whole layout units at a configured
// resolution. Width is the sum of glyph advances plus pairwise kerning,
// rounded up; multi-line text is as wide as its widest line. Height is the
// line count times the font's ascent plus descent. The empty string measures
// 0 by 0.
//
//	calc, err := fontmetrics.New()
//	if err != nil {
//	    return err // INIT_FAILED
//	}
//	w, err := calc.MeasureWidth("ffk", diagram.DefaultFont)
//
// The built-in Go fonts are always registered. Additional families are
// registered with [WithFontFile] or [WithFontData].
//
// A Calculator implements layout.Measurer and is safe for concurrent use.
// Results are memoized in an LRU cache.
package fontmetrics
