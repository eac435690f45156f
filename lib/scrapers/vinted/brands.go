package vinted

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

// popularity assigned to brands the index has never heard of, the same
// neutral default the scorer assumes for manual entry
const unknownBrandPopularity = 0.5

// minimum Jaro-Winkler similarity for a misspelled name to still be
// attributed to a known brand (and flagged ambiguous)
const fuzzyMatchThreshold = 0.92

var whitespaceRegex = regexp.MustCompile(`\s+`)

func normalizeBrand(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	return whitespaceRegex.ReplaceAllString(name, "")
}

// BrandIndex resolves a raw brand string from a listing card into a
// popularity value in [0,1] plus an ambiguity flag. Exact matches are
// trusted; near-misses (think "Nkie") are attributed by fuzzy match but
// flagged ambiguous since misspelled brand names correlate with fakes.
type BrandIndex struct {
	popularity map[string]float64
}

func NewBrandIndex(popularity map[string]float64) *BrandIndex {
	normalized := make(map[string]float64, len(popularity))
	for name, p := range popularity {
		normalized[normalizeBrand(name)] = p
	}
	return &BrandIndex{popularity: normalized}
}

// DefaultBrandIndex covers the brands that dominate resale volume on the
// target marketplace. Rough, maintained by hand.
func DefaultBrandIndex() *BrandIndex {
	return NewBrandIndex(map[string]float64{
		"nike":           0.95,
		"adidas":         0.9,
		"zara":           0.7,
		"levi's":         0.8,
		"levis":          0.8,
		"ralph lauren":   0.85,
		"tommy hilfiger": 0.8,
		"lacoste":        0.8,
		"the north face": 0.85,
		"carhartt":       0.85,
		"patagonia":      0.75,
		"new balance":    0.8,
		"converse":       0.7,
		"vans":           0.65,
		"h&m":            0.4,
		"shein":          0.15,
		"primark":        0.2,
		"uniqlo":         0.6,
		"stone island":   0.9,
		"burberry":       0.9,
		"moncler":        0.9,
		"dr. martens":    0.8,
	})
}

// Lookup returns the brand's popularity and whether its identity is
// ambiguous. An empty brand signal is ambiguous by definition.
func (ix *BrandIndex) Lookup(name string) (popularity float64, ambiguous bool) {
	normalized := normalizeBrand(name)
	if normalized == "" {
		return unknownBrandPopularity, true
	}
	if p, ok := ix.popularity[normalized]; ok {
		return p, false
	}

	bestSim := 0.0
	bestPop := 0.0
	for known, p := range ix.popularity {
		sim := matchr.JaroWinkler(normalized, known, false)
		if sim > bestSim {
			bestSim = sim
			bestPop = p
		}
	}
	if bestSim >= fuzzyMatchThreshold {
		return bestPop, true
	}
	return unknownBrandPopularity, false
}
