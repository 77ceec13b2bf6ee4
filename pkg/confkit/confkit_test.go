package confkit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liqradar-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("LIQRADAR_CONF_DIR", "conf")

	tests := []struct {
		name     string
		base     string
		file     string
		expected string
	}{
		{name: "absolute path", base: "/base/dir", file: "/abs/market.yaml", expected: "/abs/market.yaml"},
		{name: "relative path", base: "/base/dir", file: "market.yaml", expected: "/base/dir/market.yaml"},
		{name: "env expansion", base: "/base/dir", file: "${LIQRADAR_CONF_DIR}/llm.yaml", expected: "/base/dir/conf/llm.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, confkit.ResolvePath(tt.base, tt.file))
		})
	}
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "/etc/liqradar", confkit.BaseDir("/etc/liqradar/liqradar.yaml"))
	assert.Equal(t, "etc", confkit.BaseDir("etc/liqradar.yaml"))
}

func TestSectionHydrate(t *testing.T) {
	t.Run("empty file is a no-op", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(string) (*string, error) {
			t.Fatal("loader should not be called")
			return nil, nil
		})
		require.NoError(t, err)
		assert.False(t, section.Configured())
	})

	t.Run("loads resolved path", func(t *testing.T) {
		section := &confkit.Section[string]{File: "market.yaml"}
		want := "loaded"
		err := section.Hydrate("/base", func(path string) (*string, error) {
			assert.Equal(t, "/base/market.yaml", path)
			return &want, nil
		})
		require.NoError(t, err)
		require.True(t, section.Configured())
		assert.Equal(t, want, *section.Value)
		assert.Equal(t, "/base/market.yaml", section.File)
	})

	t.Run("propagates loader error", func(t *testing.T) {
		section := &confkit.Section[string]{File: "broken.yaml"}
		err := section.Hydrate("/base", func(string) (*string, error) {
			return nil, errors.New("boom")
		})
		require.Error(t, err)
		assert.False(t, section.Configured())
	})
}
