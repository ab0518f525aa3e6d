package dependomine

import "github.com/dependomine/dependomine/measure"

// Sampling selects which row-sampling strategy, if any, backs error
// estimation during the search.
type Sampling int

const (
	// SamplingNone uses the exact measure for every estimate; no sampling.
	SamplingNone Sampling = iota
	SamplingRandom
	SamplingFocused
	SamplingNeyman
)

// Config configures a Discover run. Build one with functional Options
// applied over the defaults returned by defaultConfig.
type Config struct {
	// Measure selects G3, SimpleG3, or G1 for both exact and sampled
	// calculation.
	Measure measure.Kind

	// Sampling selects the estimation strategy used while ascending and
	// trickling down the lattice. SamplingNone always computes the exact
	// measure.
	Sampling Sampling

	// SampleParam is a ratio of N if < 1, else an absolute target sample
	// size, capped at N.
	SampleParam float64

	// Seed seeds the sampling PRNG. Nil means nondeterministic (seeded from
	// a fresh entropy source).
	Seed *uint64

	// Verbose turns on debug-level trace emission from the search engine.
	Verbose bool

	// Logger receives trace output. Defaults to a no-op logger; set
	// explicitly (e.g. via WithLogger(NewZapLogger())) to see output.
	Logger Logger
}

// ConfigOption configures a Config before a Discover call.
type ConfigOption func(*Config)

func defaultConfig() Config {
	return Config{
		Measure:     measure.G3,
		Sampling:    SamplingNone,
		SampleParam: 1.0,
		Logger:      nopLogger{},
	}
}

// WithMeasure selects the error measure (default G3).
func WithMeasure(kind measure.Kind) ConfigOption {
	return func(c *Config) { c.Measure = kind }
}

// WithSampling selects the sampling strategy (default SamplingNone).
func WithSampling(s Sampling) ConfigOption {
	return func(c *Config) { c.Sampling = s }
}

// WithSampleParam sets the sample-size ratio or absolute target (default
// 1.0, which is >= 1 and so resolves to an absolute target of one row).
func WithSampleParam(p float64) ConfigOption {
	return func(c *Config) { c.SampleParam = p }
}

// WithSeed fixes the sampling PRNG seed for reproducible runs.
func WithSeed(seed uint64) ConfigOption {
	return func(c *Config) { c.Seed = &seed }
}

// WithVerbose turns on debug-level trace emission.
func WithVerbose() ConfigOption {
	return func(c *Config) { c.Verbose = true }
}

// WithLogger overrides the default no-op Logger.
func WithLogger(l Logger) ConfigOption {
	return func(c *Config) { c.Logger = l }
}
