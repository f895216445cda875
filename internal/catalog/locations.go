// Package catalog holds the fixed lookup tables for sport center locations and
// time-of-day buckets. The tables are immutable after package initialization.
package catalog

import "strings"

// AllLocations is the pseudo-code meaning "query every known location".
const AllLocations = "ALL"

type location struct {
	name string
	code string
}

// locations is kept in definition order; AllLocationCodes relies on it.
var locations = []location{
	{AllLocations, AllLocations},
	{"文山", "WSSC"},
	{"信義", "XYSC"},
	{"中山", "ZSSC"},
	{"北投", "BTSC"},
	{"大安", "DASC"},
	{"大同", "DTSC"},
	{"內湖", "NHSC"},
	{"士林", "SLSC"},
	{"松山", "SSSC"},
	{"萬華", "WHSC"},
}

var (
	codeByName = buildCodeByName()
	knownCodes = buildKnownCodes()
)

// ResolveLocation maps a display name to its location code. Location codes
// resolve to themselves. Anything else falls back to AllLocations.
func ResolveLocation(name string) string {
	trimmed := strings.TrimSpace(name)
	if code, ok := codeByName[trimmed]; ok {
		return code
	}
	if _, ok := knownCodes[strings.ToUpper(trimmed)]; ok {
		return strings.ToUpper(trimmed)
	}
	return AllLocations
}

// AllLocationCodes returns every real location code in table order, excluding
// the AllLocations sentinel.
func AllLocationCodes() []string {
	codes := make([]string, 0, len(locations)-1)
	for _, loc := range locations {
		if loc.code == AllLocations {
			continue
		}
		codes = append(codes, loc.code)
	}
	return codes
}

// LocationNames returns the display names in table order, sentinel first.
func LocationNames() []string {
	names := make([]string, 0, len(locations))
	for _, loc := range locations {
		names = append(names, loc.name)
	}
	return names
}

// LocationName returns the display name for a code, or the code itself when
// it is not in the table.
func LocationName(code string) string {
	for _, loc := range locations {
		if loc.code == code {
			return loc.name
		}
	}
	return code
}

func buildCodeByName() map[string]string {
	m := make(map[string]string, len(locations))
	for _, loc := range locations {
		m[loc.name] = loc.code
	}
	return m
}

func buildKnownCodes() map[string]struct{} {
	m := make(map[string]struct{}, len(locations))
	for _, loc := range locations {
		m[loc.code] = struct{}{}
	}
	return m
}
