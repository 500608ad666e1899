package fontmetrics

// Option configures a Calculator.
type Option func(*config)

type fontSource struct {
	family string
	path   string
	data   []byte
}

type config struct {
	dpi       float64
	cacheSize int
	sources   []fontSource
}

const (
	// DefaultDPI makes one point equal one layout unit.
	DefaultDPI = 72
	// DefaultCacheSize is the number of memoized measurements.
	DefaultCacheSize = 1024
)

// WithDPI sets the resolution used to scale point sizes into layout units.
func WithDPI(dpi float64) Option { return func(c *config) { c.dpi = dpi } }

// WithCacheSize sets the number of memoized measurements. Zero disables the
// cache.
func WithCacheSize(n int) Option { return func(c *config) { c.cacheSize = n } }

// WithFontFile registers the font file at path under family. The file is
// read and parsed by New.
func WithFontFile(family, path string) Option {
	return func(c *config) { c.sources = append(c.sources, fontSource{family: family, path: path}) }
}

// WithFontData registers raw TrueType/OpenType data under family.
func WithFontData(family string, data []byte) Option {
	return func(c *config) { c.sources = append(c.sources, fontSource{family: family, data: data}) }
}
