package calculations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
)

const module = "github.com/zjrosen/entrypoints/internal/plugins/calculations"

func TestNewProcess(t *testing.T) {
	p, err := NewProcess(&JobCalculation{})
	require.NoError(t, err)
	require.Equal(t, "JobProcess_"+module+".JobCalculation", p.Symbol())
	require.Equal(t, module, p.Module())

	_, err = NewProcess(42)
	require.Error(t, err)
}

func TestProcess_ReverseLookup(t *testing.T) {
	provider := entrypoint.NewMemoryProvider().
		MustAdd("ns.calculations", entrypoint.MustEntry("job", module, []string{"JobCalculation"}, nil))
	r := entrypoint.NewResolver(provider, nil)

	p, err := NewProcess(&JobCalculation{})
	require.NoError(t, err)

	id, ok := r.ToIdentifierString(p.Module(), p.Symbol())
	require.True(t, ok)
	require.Equal(t, "ns.calculations:job", id)
}
