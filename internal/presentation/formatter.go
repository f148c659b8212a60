package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats
const (
	OutputJSON  = "json"
	OutputTable = "table"
)

// ValidOutput reports whether output is a supported format.
func ValidOutput(output string) bool {
	return output == OutputJSON || output == OutputTable
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	output string
}

// NewFormatter creates a new formatter writing JSON.
func NewFormatter(writer io.Writer) *Formatter {
	return NewFormatterWithOutput(writer, OutputJSON)
}

// NewFormatterWithOutput creates a formatter for the given output format.
// Unknown formats fall back to JSON.
func NewFormatterWithOutput(writer io.Writer, output string) *Formatter {
	if !ValidOutput(output) {
		output = OutputJSON
	}
	return &Formatter{
		writer: writer,
		output: output,
	}
}

// FormatEntries formats entry points
func (f *Formatter) FormatEntries(entries []EntryDTO) error {
	if f.output == OutputTable {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Identifier, e.Module, strings.Join(e.Symbols, ", "), e.Origin})
		}
		return f.table([]string{"IDENTIFIER", "MODULE", "SYMBOLS", "ORIGIN"}, rows)
	}
	return f.json(entries)
}

// FormatEntry formats a single entry point
func (f *Formatter) FormatEntry(entry EntryDTO) error {
	if f.output == OutputTable {
		return f.FormatEntries([]EntryDTO{entry})
	}
	return f.json(entry)
}

// FormatGroups formats catalog groups
func (f *Formatter) FormatGroups(groups []GroupDTO) error {
	if f.output == OutputTable {
		rows := make([][]string, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []string{g.Group, g.Module, strconv.Itoa(g.Entries)})
		}
		return f.table([]string{"GROUP", "MODULE", "ENTRIES"}, rows)
	}
	return f.json(groups)
}

// FormatNames formats entry point names, one per line for table output
func (f *Formatter) FormatNames(names []string) error {
	if names == nil {
		names = []string{}
	}
	if f.output == OutputTable {
		for _, n := range names {
			if _, err := fmt.Fprintln(f.writer, n); err != nil {
				return err
			}
		}
		return nil
	}
	return f.json(names)
}

// FormatIdentifier formats an identifier description
func (f *Formatter) FormatIdentifier(id IdentifierDTO) error {
	if f.output == OutputTable {
		return f.table([]string{"IDENTIFIER", "FORMAT", "VALID"},
			[][]string{{id.Identifier, id.Format, strconv.FormatBool(id.Valid)}})
	}
	return f.json(id)
}

// FormatLoad formats a load result
func (f *Formatter) FormatLoad(res LoadDTO) error {
	if f.output == OutputTable {
		return f.table([]string{"IDENTIFIER", "TYPE"}, [][]string{{res.Entry.Identifier, res.Type}})
	}
	return f.json(res)
}

// FormatScan formats an index build result
func (f *Formatter) FormatScan(scan ScanDTO) error {
	if f.output == OutputTable {
		return f.table([]string{"SCAN", "ENTRIES", "CREATED", "PATH"},
			[][]string{{scan.GUID, strconv.Itoa(scan.Entries), scan.CreatedAt, scan.Path}})
	}
	return f.json(scan)
}

// FormatResult formats any other command result as JSON
func (f *Formatter) FormatResult(result any) error {
	return f.json(result)
}

func (f *Formatter) json(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}
