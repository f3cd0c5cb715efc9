package cdcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateRanges(t *testing.T) {
	base := DefaultConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"atom decay at 1", func(c *Config) { c.AtomDecay = 1 }},
		{"atom decay negative", func(c *Config) { c.AtomDecay = -0.1 }},
		{"clause decay at 1", func(c *Config) { c.ClauseDecay = 1 }},
		{"polarity lean out of range", func(c *Config) { c.PolarityLean = 1.5 }},
		{"random decision bias negative", func(c *Config) { c.RandomDecisionBias = -0.01 }},
		{"negative lbd bound", func(c *Config) { c.LBDBound = -1 }},
		{"zero conflict mod", func(c *Config) { c.ConflictMod = 0 }},
		{"zero luby mod", func(c *Config) { c.LubyMod = 0 }},
		{"zero luby u", func(c *Config) { c.LubyU = 0 }},
		{"negative time limit", func(c *Config) { c.TimeLimitSeconds = -1 }},
		{"zero atom bump", func(c *Config) { c.AtomBump = 0 }},
		{"zero clause bump", func(c *Config) { c.ClauseBump = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
