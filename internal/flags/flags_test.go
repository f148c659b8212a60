package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "defaults enable go plugins",
			registry: New(nil),
			flag:     FlagGoPlugins,
			expected: true,
		},
		{
			name:     "configured value overrides default",
			registry: New(map[string]bool{FlagGoPlugins: false}),
			flag:     FlagGoPlugins,
			expected: false,
		},
		{
			name:     "other defaults survive an override",
			registry: New(map[string]bool{FlagGoPlugins: false}),
			flag:     FlagMinimalSearch,
			expected: true,
		},
		{
			name:     "unknown configured flag is kept",
			registry: New(map[string]bool{"experimental": true}),
			flag:     "experimental",
			expected: true,
		},
		{
			name:     "unknown flag returns false",
			registry: New(nil),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     FlagGoPlugins,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_EnabledNames(t *testing.T) {
	r := New(map[string]bool{FlagMinimalSearch: false, "beta": true})
	require.Equal(t, []string{"beta", FlagGoPlugins}, r.EnabledNames())

	var nilRegistry *Registry
	require.Empty(t, nilRegistry.EnabledNames())
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	r := New(nil)

	all := r.All()
	all[FlagGoPlugins] = false
	all["new-flag"] = true

	require.True(t, r.Enabled(FlagGoPlugins), "registry should not be affected by copy mutation")
	require.False(t, r.Enabled("new-flag"))
	require.Equal(t, Defaults(), r.All())
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	configured := map[string]bool{FlagGoPlugins: false}
	r := New(configured)
	configured[FlagGoPlugins] = true

	require.False(t, r.Enabled(FlagGoPlugins))
}
