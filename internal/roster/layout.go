// Package roster turns uploaded worker rosters into normalized entries.
//
// Three historical layouts are recognized: a simplified positional sheet, the extended
// HR export (RUT | EMPLEADO | NOMBRES | APELLIDOS | CARGO | TIPO DE CONTRATO | PERIODO |
// SEDE | ESTADO) and any sheet whose headers can be mapped through the keyword table.
package roster

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedFile header missing or with too few columns.
	ErrMalformedFile = errors.New("roster: malformed file")
	// ErrEmptyFile file has no content at all.
	ErrEmptyFile = errors.New("roster: empty file")
)

// Layout is one of the recognized roster layouts.
type Layout string

const (
	LayoutSimplified   Layout = "simplified"
	LayoutExtended     Layout = "extended"
	LayoutHeaderDriven Layout = "header_driven"
)

const (
	// ExtendedMinColumns header width that selects the extended layout.
	ExtendedMinColumns = 9
	// SimplifiedMinColumns narrowest positional header accepted.
	SimplifiedMinColumns = 4
	// SimplifiedMaxColumns widest header still treated as simplified.
	SimplifiedMaxColumns = 5
)

// Role is the meaning of a column.
type Role string

const (
	RoleRUT      Role = "rut"
	RoleName     Role = "name"
	RoleContract Role = "contract"
	RoleTier     Role = "tier"
	RolePlant    Role = "plant"
)

// keywordTable is evaluated in order; a header claims the first role it matches.
// Tier comes before contract so "tipo_caja" is not read as a contract column.
var keywordTable = []struct {
	role     Role
	keywords []string
}{
	{RolePlant, []string{"planta", "planta_id", "sede", "site", "sucursal", "centro"}},
	{RoleTier, []string{"caja"}},
	{RoleContract, []string{"tipo", "contrato"}},
	{RoleRUT, []string{"rut"}},
	{RoleName, []string{"nombre", "nombres", "apellido", "empleado"}},
}

// ColumnMap maps roles to column indexes. Missing roles are -1.
// Name may span several columns which are joined in order.
type ColumnMap struct {
	RUT      int
	Name     []int
	Contract int
	Tier     int
	Plant    int
}

func emptyColumnMap() ColumnMap {
	return ColumnMap{RUT: -1, Contract: -1, Tier: -1, Plant: -1}
}

// MinCells is the narrowest row that still carries the RUT and every name column.
func (m ColumnMap) MinCells() int {
	min := m.RUT + 1
	for _, idx := range m.Name {
		if idx+1 > min {
			min = idx + 1
		}
	}
	return min
}

func (m ColumnMap) equal(other ColumnMap) bool {
	if m.RUT != other.RUT || m.Contract != other.Contract || m.Tier != other.Tier || m.Plant != other.Plant {
		return false
	}
	if len(m.Name) != len(other.Name) {
		return false
	}
	for i := range m.Name {
		if m.Name[i] != other.Name[i] {
			return false
		}
	}
	return true
}

// MapHeader detects column roles from header text. It reports ok only when
// both the RUT and a name column were found.
func MapHeader(header []string) (ColumnMap, bool) {
	m := emptyColumnMap()
	for i, cell := range header {
		text := strings.ToLower(strings.TrimSpace(cell))
		if text == "" {
			continue
		}
		role, matched := matchRole(text)
		if !matched {
			continue
		}
		switch role {
		case RoleRUT:
			if m.RUT < 0 {
				m.RUT = i
			}
		case RoleName:
			m.Name = append(m.Name, i)
		case RoleContract:
			if m.Contract < 0 {
				m.Contract = i
			}
		case RoleTier:
			if m.Tier < 0 {
				m.Tier = i
			}
		case RolePlant:
			if m.Plant < 0 {
				m.Plant = i
			}
		}
	}
	return m, m.RUT >= 0 && len(m.Name) > 0
}

func matchRole(text string) (Role, bool) {
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.role, true
			}
		}
	}
	return "", false
}

// PlantColumn returns the first header containing a plant keyword, or -1.
func PlantColumn(header []string) int {
	for i, cell := range header {
		text := strings.ToLower(strings.TrimSpace(cell))
		for _, kw := range keywordTable[0].keywords {
			if strings.Contains(text, kw) {
				return i
			}
		}
	}
	return -1
}

func simplifiedColumnMap(width int) ColumnMap {
	m := ColumnMap{RUT: 0, Name: []int{1}, Contract: 2, Tier: -1, Plant: -1}
	if width > 3 {
		m.Tier = 3
	}
	if width > 4 {
		m.Plant = 4
	}
	return m
}

func extendedColumnMap(header []string) ColumnMap {
	m := ColumnMap{RUT: 0, Name: []int{1, 2, 3}, Contract: 5, Tier: -1, Plant: 7}
	if idx := PlantColumn(header); idx >= 0 {
		m.Plant = idx
	}
	return m
}

// headerWidth counts header cells up to the last non-blank one.
func headerWidth(header []string) int {
	width := 0
	for i, cell := range header {
		if strings.TrimSpace(cell) != "" {
			width = i + 1
		}
	}
	return width
}

// DetectLayout picks the layout and its column map from the header row.
//
// Headers at least ExtendedMinColumns wide are the HR export. Otherwise the keyword
// table is tried; a keyword map identical to the positional one is still reported as
// simplified. Unrecognized headers with 4-8 columns fall back to positional parsing.
func DetectLayout(header []string) (Layout, ColumnMap, error) {
	width := headerWidth(header)
	if width == 0 {
		return "", ColumnMap{}, ErrMalformedFile
	}
	if width >= ExtendedMinColumns {
		return LayoutExtended, extendedColumnMap(header), nil
	}
	if mapped, ok := MapHeader(header[:width]); ok {
		if width >= SimplifiedMinColumns && width <= SimplifiedMaxColumns && mapped.equal(simplifiedColumnMap(width)) {
			return LayoutSimplified, mapped, nil
		}
		return LayoutHeaderDriven, mapped, nil
	}
	if width >= SimplifiedMinColumns {
		return LayoutSimplified, simplifiedColumnMap(width), nil
	}
	return "", ColumnMap{}, ErrMalformedFile
}
