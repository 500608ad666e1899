package fontmetrics

import (
	stderrors "errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/diagtool/pkg/diagram"
	"github.com/matzehuels/diagtool/pkg/errors"
	"github.com/matzehuels/diagtool/pkg/fonts"
	"github.com/matzehuels/diagtool/pkg/layout"
	"github.com/matzehuels/diagtool/pkg/observability"
)

var (
	// ErrFontNotFound is returned when a measurement names an unregistered
	// font family.
	ErrFontNotFound = stderrors.New("font family not registered")

	// ErrGlyphNotFound is returned when the font has no glyph for a rune.
	ErrGlyphNotFound = stderrors.New("glyph not found")

	// ErrKerning is returned when the kerning lookup for a glyph pair fails.
	ErrKerning = stderrors.New("kerning lookup failed")

	// ErrInvalidSize is returned for negative or non-finite font sizes.
	ErrInvalidSize = stderrors.New("invalid font size")
)

const cacheName = "measure"

var _ layout.Measurer = (*Calculator)(nil)

// Extent is the measured size of a string in layout units.
type Extent struct {
	Width, Height int64
}

type cacheKey struct {
	family string
	size   float64
	text   string
}

// Calculator measures text. Create one with New.
type Calculator struct {
	dpi float64

	mu    sync.Mutex // guards buf and the fonts' internal state
	buf   sfnt.Buffer
	fonts map[string]*sfnt.Font // keyed by lower-case family

	cache *lru.Cache[cacheKey, Extent]
}

// New creates a Calculator with the built-in fonts plus any registered with
// options. It fails with an INIT_FAILED error when a font cannot be read or
// parsed.
func New(opts ...Option) (*Calculator, error) {
	cfg := config{dpi: DefaultDPI, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.dpi <= 0 || math.IsNaN(cfg.dpi) || math.IsInf(cfg.dpi, 0) {
		return nil, errors.Init("fontmetrics.Calculator", fmt.Errorf("invalid resolution %v dpi", cfg.dpi))
	}

	c := &Calculator{dpi: cfg.dpi, fonts: make(map[string]*sfnt.Font)}
	for _, family := range fonts.Families() {
		data, _ := fonts.TTF(family)
		if err := c.register(family, data); err != nil {
			return nil, err
		}
	}
	for _, src := range cfg.sources {
		data := src.data
		if src.path != "" {
			if err := errors.ValidatePath(src.path); err != nil {
				return nil, errors.Init("font "+src.family, err)
			}
			b, err := os.ReadFile(src.path)
			if err != nil {
				return nil, errors.Init("font "+src.family, err)
			}
			data = b
		}
		if err := c.register(src.family, data); err != nil {
			return nil, err
		}
	}

	if cfg.cacheSize > 0 {
		cache, err := lru.NewWithEvict(cfg.cacheSize, func(cacheKey, Extent) {
			observability.Cache().OnCacheEvict(cacheName)
		})
		if err != nil {
			return nil, errors.Init("fontmetrics cache", err)
		}
		c.cache = cache
	}
	return c, nil
}

func (c *Calculator) register(family string, data []byte) error {
	key := normalize(family)
	if key == "" {
		return errors.Init("font", stderrors.New("empty family name"))
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return errors.Init("font "+family, err)
	}
	c.fonts[key] = f
	return nil
}

// Families returns the registered family names in lower case, sorted.
func (c *Calculator) Families() []string {
	out := make([]string, 0, len(c.fonts))
	for k := range c.fonts {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DPI returns the resolution the calculator scales point sizes with.
func (c *Calculator) DPI() float64 { return c.dpi }

// MeasureWidth returns the advance width of text set in f.
func (c *Calculator) MeasureWidth(text string, f diagram.Font) (int64, error) {
	e, err := c.Measure(text, f)
	return e.Width, err
}

// MeasureHeight returns the line extent of text set in f.
func (c *Calculator) MeasureHeight(text string, f diagram.Font) (int64, error) {
	e, err := c.Measure(text, f)
	return e.Height, err
}

// Measure returns both extents of text set in f. An empty family selects the
// default family and a zero size the default size. Failures are coded
// MEASUREMENT_FAILED and wrap ErrFontNotFound, ErrGlyphNotFound, ErrKerning
// or ErrInvalidSize.
func (c *Calculator) Measure(text string, f diagram.Font) (Extent, error) {
	if f.Family == "" {
		f.Family = diagram.DefaultFontFamily
	}
	if f.Size == 0 {
		f.Size = diagram.DefaultFont.Size
	}
	if text == "" {
		return Extent{}, nil
	}

	key := cacheKey{family: normalize(f.Family), size: f.Size, text: text}
	if c.cache != nil {
		if e, ok := c.cache.Get(key); ok {
			observability.Cache().OnCacheHit(cacheName)
			return e, nil
		}
		observability.Cache().OnCacheMiss(cacheName)
	}

	e, err := c.measure(key, text)
	if err != nil {
		return Extent{}, errors.Wrap(errors.ErrCodeMeasurement, err, "measure %q in %s", text, f)
	}
	if c.cache != nil {
		c.cache.Add(key, e)
	}
	return e, nil
}

func (c *Calculator) measure(key cacheKey, text string) (Extent, error) {
	if key.size < 0 || math.IsNaN(key.size) || math.IsInf(key.size, 0) {
		return Extent{}, fmt.Errorf("%w: %v", ErrInvalidSize, key.size)
	}
	sf, ok := c.fonts[key.family]
	if !ok {
		return Extent{}, fmt.Errorf("%w: %q", ErrFontNotFound, key.family)
	}
	ppem := c.ppem(key.size)

	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := sf.Metrics(&c.buf, ppem, font.HintingNone)
	if err != nil {
		return Extent{}, err
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var widest fixed.Int26_6
	for _, line := range lines {
		w, err := c.lineAdvance(sf, ppem, line)
		if err != nil {
			return Extent{}, err
		}
		widest = max(widest, w)
	}
	height := fixed.Int26_6(len(lines)) * (m.Ascent + m.Descent)
	return Extent{Width: int64(widest.Ceil()), Height: int64(height.Ceil())}, nil
}

// lineAdvance sums glyph advances and pairwise kerning over one line.
// The caller holds c.mu.
func (c *Calculator) lineAdvance(sf *sfnt.Font, ppem fixed.Int26_6, line string) (fixed.Int26_6, error) {
	var (
		total    fixed.Int26_6
		prev     sfnt.GlyphIndex
		prevRune rune
		started  bool
	)
	for _, r := range line {
		gi, err := sf.GlyphIndex(&c.buf, r)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrGlyphNotFound, r, err)
		}
		if gi == 0 {
			return 0, fmt.Errorf("%w: %q", ErrGlyphNotFound, r)
		}
		if started {
			k, err := sf.Kern(&c.buf, prev, gi, ppem, font.HintingNone)
			switch {
			case err == nil:
				total += k
			case stderrors.Is(err, sfnt.ErrNotFound):
				// no kerning data for this pair
			default:
				return 0, fmt.Errorf("%w: %q %q: %v", ErrKerning, prevRune, r, err)
			}
		}
		adv, err := sf.GlyphAdvance(&c.buf, gi, ppem, font.HintingNone)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrGlyphNotFound, r, err)
		}
		total += adv
		prev, prevRune, started = gi, r, true
	}
	return total, nil
}

// ppem converts a point size to pixels per em in 26.6 fixed point.
func (c *Calculator) ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(0.5 + size*c.dpi*64/72)
}

func normalize(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}
