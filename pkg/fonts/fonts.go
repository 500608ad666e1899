// Package fonts provides the built-in font files.
//
// The Go font family ships with golang.org/x/image, so the fonts are available
// without external files. Text metrics and output writers both read them from
// here so that measured and drawn text use the same outlines.
package fonts

import (
	"encoding/base64"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily is the family used when nothing else is selected.
const DefaultFamily = "Go Regular"

// FallbackFontFamily is the CSS font stack written next to built-in family
// names, for viewers that do not load embedded fonts.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica Neue', Arial, sans-serif`

var builtin = map[string][]byte{
	"go regular": goregular.TTF,
	"go bold":    gobold.TTF,
	"go italic":  goitalic.TTF,
	"go mono":    gomono.TTF,
}

var names = map[string]string{
	"go regular": "Go Regular",
	"go bold":    "Go Bold",
	"go italic":  "Go Italic",
	"go mono":    "Go Mono",
}

// TTF returns the TrueType data of a built-in family. Matching is
// case-insensitive.
func TTF(family string) ([]byte, bool) {
	data, ok := builtin[strings.ToLower(strings.TrimSpace(family))]
	return data, ok
}

// Families returns the names of all built-in families, sorted.
func Families() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Cache for base64-encoded fonts (computed once per family on first access).
var (
	base64Mu    sync.Mutex
	base64Cache = map[string]string{}
)

// Base64 returns the TrueType data of a built-in family as a base64 string,
// for embedding in SVG @font-face rules. The result is cached after first
// computation.
func Base64(family string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(family))
	data, ok := builtin[key]
	if !ok {
		return "", false
	}
	base64Mu.Lock()
	defer base64Mu.Unlock()
	if s, ok := base64Cache[key]; ok {
		return s, true
	}
	s := base64.StdEncoding.EncodeToString(data)
	base64Cache[key] = s
	return s, true
}
