package router

import "strings"

// knownLocations is the place gazetteer, scanned in fixed order so the
// first extracted location is stable. Multi-word names precede the
// single words they contain.
var knownLocations = []string{
	"goya", "corrientes", "corientes", "corrientrs", "ctes",
	"paso de los libres", "mercedes", "curuzú cuatiá", "curuzu cuatia",
	"bella vista", "esquina", "monte caseros", "santo tomé", "santo tome",
	"virasoro", "ituzaingó", "ituzaingo", "saladas", "empedrado",
	"san roque", "concepción", "concepcion", "lavalle", "santa lucia",
	"mocoretá", "mocoreta", "alvear", "san cosme", "itatí", "itati",
	"buenos aires", "bsas", "bs as", "caba", "capital federal",
	"córdoba", "cordoba", "rosario", "mendoza", "tucumán", "tucuman",
	"santa fe", "salta", "chaco", "misiones", "entre ríos", "entre rios",
	"formosa", "jujuy", "san juan", "san luis", "la rioja", "catamarca",
	"santiago del estero", "neuquén", "neuquen", "río negro", "rio negro",
	"chubut", "santa cruz", "tierra del fuego", "la pampa",
	"capital", "gba", "nea", "noa", "cuyo", "patagonia", "pampeana",
}

// canonicalLocations folds typo variants and aliases onto one name per
// place, so "ctes" and "corrientrs" both query as "corrientes".
var canonicalLocations = map[string]string{
	"corrientrs": "corrientes", "corientes": "corrientes", "ctes": "corrientes",
	"bsas": "buenos aires", "bs as": "buenos aires", "capital federal": "caba",
	"curuzu cuatia": "curuzú cuatiá", "santo tome": "santo tomé",
	"ituzaingo": "ituzaingó", "concepcion": "concepción",
	"mocoreta": "mocoretá", "itati": "itatí",
	"cordoba": "córdoba", "tucuman": "tucumán",
	"entre rios": "entre ríos", "neuquen": "neuquén", "rio negro": "río negro",
}

// ExtractLocations returns the canonical place names mentioned in the
// query, deduplicated, in gazetteer order.
func ExtractLocations(query string) []string {
	queryLower := strings.ToLower(query)

	var found []string
	seen := map[string]struct{}{}
	for _, location := range knownLocations {
		if !strings.Contains(queryLower, location) {
			continue
		}
		canonical := location
		if mapped, ok := canonicalLocations[location]; ok {
			canonical = mapped
		}
		if _, dup := seen[canonical]; !dup {
			seen[canonical] = struct{}{}
			found = append(found, canonical)
		}
	}
	return found
}
