package roster

import (
	"strconv"
	"strings"
)

// Plant is the subset of plant data needed to resolve roster references.
type Plant struct {
	ID   uint
	Code string
	Name string
}

// PlantDirectory resolves free-text plant references against known plants.
type PlantDirectory struct {
	byID   map[uint]Plant
	byCode map[string]Plant
	plants []Plant
}

// NewPlantDirectory indexes plants by id and code.
func NewPlantDirectory(plants []Plant) *PlantDirectory {
	d := &PlantDirectory{
		byID:   make(map[uint]Plant, len(plants)),
		byCode: make(map[string]Plant, len(plants)),
		plants: plants,
	}
	for _, p := range plants {
		d.byID[p.ID] = p
		d.byCode[strings.ToLower(p.Code)] = p
	}
	return d
}

// Resolve looks ref up by numeric id, exact code, location keywords and finally
// case-insensitive name. Unresolved references return fallback.
func (d *PlantDirectory) Resolve(ref string, fallback Plant) Plant {
	raw := strings.TrimSpace(ref)
	if raw == "" || d == nil {
		return fallback
	}
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
		if p, ok := d.byID[uint(id)]; ok {
			return p
		}
	}
	lower := strings.ToLower(raw)
	if p, ok := d.byCode[lower]; ok {
		return p
	}
	if code := keywordPlantCode(lower); code != "" {
		if p, ok := d.byCode[code]; ok {
			return p
		}
	}
	for _, p := range d.plants {
		if strings.EqualFold(p.Name, raw) {
			return p
		}
	}
	return fallback
}

func keywordPlantCode(lower string) string {
	switch {
	case strings.Contains(lower, "santiago"), strings.Contains(lower, "casablanca"):
		return "casablanca"
	case strings.Contains(lower, "valparaiso"), strings.Contains(lower, "valparaíso"):
		if strings.Contains(lower, "bic") {
			return "valparaiso_bic"
		}
		return "valparaiso_bif"
	}
	return ""
}
