package domain

import "strings"

const (
	UnitKilogram = "kg"
	UnitManDay   = "md"

	// AllAreas selects every area in dashboard queries.
	AllAreas = "All"
	// AllGroups disables the machine group filter.
	AllGroups = "All"
)

// Area is a plant department identified by a 3-digit code.
type Area struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// DefaultAreas returns the plant areas in display order.
func DefaultAreas() []Area {
	return []Area{
		{Code: "111", Name: "Weaving", Unit: UnitForArea("111")},
		{Code: "121", Name: "Knitcord", Unit: UnitForArea("121")},
		{Code: "161", Name: "Heatset", Unit: UnitForArea("161")},
		{Code: "312", Name: "Forming", Unit: UnitForArea("312")},
		{Code: "313", Name: "Sewing", Unit: UnitForArea("313")},
		{Code: "315", Name: "SPCH", Unit: UnitForArea("315")},
	}
}

// UnitForArea returns the reporting unit of an area. Knitcord and Forming
// report mass, every other area reports man-days.
func UnitForArea(code string) string {
	switch code {
	case "121", "312":
		return UnitKilogram
	default:
		return UnitManDay
	}
}

// AreaCatalog resolves area codes and names.
type AreaCatalog struct {
	areas  []Area
	byCode map[string]Area
	byName map[string]Area
}

// NewAreaCatalog builds a catalog; an empty list falls back to DefaultAreas.
func NewAreaCatalog(areas []Area) *AreaCatalog {
	if len(areas) == 0 {
		areas = DefaultAreas()
	}
	c := &AreaCatalog{
		areas:  append([]Area(nil), areas...),
		byCode: make(map[string]Area, len(areas)),
		byName: make(map[string]Area, len(areas)),
	}
	for _, a := range c.areas {
		c.byCode[a.Code] = a
		c.byName[strings.ToLower(a.Name)] = a
	}
	return c
}

func (c *AreaCatalog) Areas() []Area {
	return append([]Area(nil), c.areas...)
}

func (c *AreaCatalog) ByCode(code string) (Area, bool) {
	a, ok := c.byCode[strings.TrimSpace(code)]
	return a, ok
}

// ByName matches case-insensitively.
func (c *AreaCatalog) ByName(name string) (Area, bool) {
	a, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// Codes lists the area codes in catalog order.
func (c *AreaCatalog) Codes() []string {
	codes := make([]string, len(c.areas))
	for i, a := range c.areas {
		codes[i] = a.Code
	}
	return codes
}
