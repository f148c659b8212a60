// Package calculations provides the bundled calculation types.
package calculations

import (
	"fmt"

	"github.com/zjrosen/entrypoints/internal/domain/entrypoint"
	"github.com/zjrosen/entrypoints/internal/loader"
)

func init() {
	loader.RegisterType(func() *JobCalculation { return &JobCalculation{} })
}

// JobCalculation is a calculation run as a scheduler job.
type JobCalculation struct {
	Inputs map[string]any
}

func (c *JobCalculation) String() string {
	return fmt.Sprintf("job calculation (%d inputs)", len(c.Inputs))
}

// Process wraps a calculation so it can be run as a process. Its symbol name
// encodes the wrapped calculation, which is how reverse lookups find the
// calculation's entry point from a process.
type Process struct {
	symbol string
	Calc   any
}

// NewProcess wraps calc, whose type must be a named type.
func NewProcess(calc any) (*Process, error) {
	module, symbol, ok := entrypoint.TypeSymbol(calc)
	if !ok {
		return nil, fmt.Errorf("cannot wrap %T: not a named type", calc)
	}
	return &Process{symbol: entrypoint.WrapperSymbol(module, symbol), Calc: calc}, nil
}

// Symbol returns the wrapper symbol name, e.g. "JobProcess_<module>.JobCalculation".
func (p *Process) Symbol() string {
	return p.symbol
}

// Module returns the package path of the process type.
func (p *Process) Module() string {
	module, _, _ := entrypoint.TypeSymbol(p)
	return module
}
