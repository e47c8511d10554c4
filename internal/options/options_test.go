package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	size    int
	name    string
	calls   []string
	enabled bool
}

func withSize(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n <= 0 {
			return errors.New("size must be positive")
		}
		c.size = n
		c.calls = append(c.calls, "size")

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withName("a"), withSize(10), withName("b"))

		require.NoError(t, err)
		require.Equal(t, 10, cfg.size)
		require.Equal(t, "b", cfg.name)
		require.Equal(t, []string{"name", "size", "name"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withName("a"), withSize(-1), withName("b"))

		require.EqualError(t, err, "size must be positive")
		require.Equal(t, "a", cfg.name)
		require.Equal(t, []string{"name"}, cfg.calls)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, nil, withSize(3))

		require.NoError(t, err)
		require.Equal(t, 3, cfg.size)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{enabled: true}
		require.NoError(t, Apply(cfg))
		require.True(t, cfg.enabled)
	})
}
