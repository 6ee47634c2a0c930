package roster

import (
	"fmt"
	"strings"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/rut"
)

// Contract types and box tiers as stored on workers.
const (
	ContractPermanent = constants.ContractPermanent
	ContractFixedTerm = constants.ContractFixedTerm

	TierStandard = constants.BoxTierStandard
	TierSpecial  = constants.BoxTierSpecial
	TierPremium  = constants.BoxTierPremium
)

// ErrorSummaryLimit number of row errors listed before collapsing the rest.
const ErrorSummaryLimit = 5

// Entry is a normalized roster row ready to become a worker.
type Entry struct {
	Row          int
	RUT          string
	Name         string
	ContractType string
	BoxTier      string
	PlantRef     string
}

// RowError is a per-row problem. Rows with errors are skipped.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("Fila %d: %s", e.Row, e.Reason)
}

// Options tune row parsing.
type Options struct {
	// StrictRUT rejects rows whose RUT fails the Módulo 11 check.
	StrictRUT bool
}

// Result of parsing a roster table.
type Result struct {
	Layout  Layout
	Columns ColumnMap
	Entries []Entry
	Errors  []RowError
	Blank   int
}

// ErrorMessages renders row errors as strings.
func (r *Result) ErrorMessages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Error())
	}
	return out
}

// RowParser turns one data row into an entry. A nil entry with a nil error means a blank row.
type RowParser func(row int, cells []string) (*Entry, *RowError)

// ParserFor returns the row parser of a layout.
func ParserFor(layout Layout, columns ColumnMap, opts Options) RowParser {
	minCells := columns.MinCells()
	switch layout {
	case LayoutExtended:
		minCells = SimplifiedMinColumns
	case LayoutSimplified:
		if minCells < 3 {
			minCells = 3
		}
	}
	return func(row int, cells []string) (*Entry, *RowError) {
		if isBlankRow(cells) {
			return nil, nil
		}
		if len(cells) < minCells {
			return nil, &RowError{Row: row, Reason: fmt.Sprintf("tiene %d columnas pero se requieren al menos %d", len(cells), minCells)}
		}
		rawRUT := cell(cells, columns.RUT)
		if rawRUT == "" {
			return nil, &RowError{Row: row, Reason: "RUT vacío"}
		}
		normalizedRUT := rut.Canonical(rawRUT)
		if opts.StrictRUT {
			if err := rut.Validate(rawRUT); err != nil {
				return nil, &RowError{Row: row, Reason: fmt.Sprintf("RUT inválido %q (%v)", rawRUT, err)}
			}
		}

		parts := make([]string, 0, len(columns.Name))
		for _, idx := range columns.Name {
			if part := cell(cells, idx); part != "" {
				parts = append(parts, part)
			}
		}
		name := strings.Join(parts, " ")
		if name == "" {
			return nil, &RowError{Row: row, Reason: "nombre completo vacío"}
		}

		return &Entry{
			Row:          row,
			RUT:          normalizedRUT,
			Name:         name,
			ContractType: NormalizeContract(cell(cells, columns.Contract)),
			BoxTier:      NormalizeTier(cell(cells, columns.Tier)),
			PlantRef:     cell(cells, columns.Plant),
		}, nil
	}
}

// Parse detects the layout from the first row and parses every following row.
// Only structural problems are returned as errors; row problems are collected.
func Parse(rows [][]string, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedFile)
	}
	layout, columns, err := DetectLayout(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header has %d usable columns", err, headerWidth(rows[0]))
	}
	parser := ParserFor(layout, columns, opts)
	result := &Result{Layout: layout, Columns: columns}
	for i, cells := range rows[1:] {
		entry, rowErr := parser(i+2, cells)
		switch {
		case rowErr != nil:
			result.Errors = append(result.Errors, *rowErr)
		case entry == nil:
			result.Blank++
		default:
			result.Entries = append(result.Entries, *entry)
		}
	}
	return result, nil
}

// NormalizeContract maps free text to a contract type.
func NormalizeContract(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(text, "fijo") || strings.Contains(text, "plazo") {
		return ContractFixedTerm
	}
	return ContractPermanent
}

// NormalizeTier maps free text to a box tier, defaulting to standard.
func NormalizeTier(raw string) string {
	switch text := strings.ToLower(strings.TrimSpace(raw)); text {
	case TierStandard, TierSpecial, TierPremium:
		return text
	default:
		return TierStandard
	}
}

// SummarizeErrors lists the first ErrorSummaryLimit messages and counts the rest.
func SummarizeErrors(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	shown := messages
	if len(shown) > ErrorSummaryLimit {
		shown = shown[:ErrorSummaryLimit]
	}
	var b strings.Builder
	for i, msg := range shown {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(msg)
	}
	if rest := len(messages) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n... y %d errores más", rest)
	}
	return b.String()
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
