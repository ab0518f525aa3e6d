package dependomine_test

import (
	"testing"

	"github.com/dependomine/dependomine"
	"github.com/dependomine/dependomine/measure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions_OverrideDefaults(t *testing.T) {
	var cfg dependomine.Config
	for _, opt := range []dependomine.ConfigOption{
		dependomine.WithMeasure(measure.G1),
		dependomine.WithSampling(dependomine.SamplingFocused),
		dependomine.WithSampleParam(0.2),
		dependomine.WithSeed(42),
		dependomine.WithVerbose(),
	} {
		opt(&cfg)
	}

	assert.Equal(t, measure.G1, cfg.Measure)
	assert.Equal(t, dependomine.SamplingFocused, cfg.Sampling)
	assert.Equal(t, 0.2, cfg.SampleParam)
	require.NotNil(t, cfg.Seed)
	assert.EqualValues(t, 42, *cfg.Seed)
	assert.True(t, cfg.Verbose)
}
