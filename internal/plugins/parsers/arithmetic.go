// Package parsers provides the bundled output parsers.
package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zjrosen/entrypoints/internal/loader"
)

func init() {
	loader.RegisterType(func() *ArithmeticParser { return &ArithmeticParser{} })
}

// ErrMalformedOutput is returned for output that is not "<int> <op> <int>".
var ErrMalformedOutput = errors.New("malformed arithmetic output")

// ArithmeticParser evaluates the "x op y" line written by the add/multiply jobs.
type ArithmeticParser struct{}

// Parse evaluates output, e.g. "2 + 3" yields 5.
func (p *ArithmeticParser) Parse(output string) (int, error) {
	fields := strings.Fields(output)
	if len(fields) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedOutput, output)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	switch fields[1] {
	case "+":
		return x + y, nil
	case "*":
		return x * y, nil
	default:
		return 0, fmt.Errorf("%w: unsupported operator %q", ErrMalformedOutput, fields[1])
	}
}

func (p *ArithmeticParser) String() string { return "arithmetic parser" }
