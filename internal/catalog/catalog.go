package catalog

import (
	"fmt"
	"os"

	"macro-pulse/internal/domain"

	"gopkg.in/yaml.v3"
)

// highImpact is the fixed policy set: these releases are tagged High, all
// others Medium. Not derived from provider metadata.
var highImpact = map[string]bool{
	"CPIAUCSL": true,
	"PAYEMS":   true,
	"GDP":      true,
	"FEDFUNDS": true,
}

var builtin = []entry{
	// High impact events
	{"CPIAUCSL", "Consumer Price Index (CPI)"},
	{"CPILFESL", "Core CPI (excluding Food & Energy)"},
	{"PAYEMS", "Nonfarm Payroll"},
	{"UNRATE", "Unemployment Rate"},
	{"GDP", "Gross Domestic Product"},
	{"FEDFUNDS", "Federal Funds Rate"},

	// Production & sales
	{"INDPRO", "Industrial Production Index"},
	{"RSXFS", "Retail Sales"},
	{"RRSFS", "Real Retail Sales"},

	// Market indicators
	{"VIXCLS", "VIX Volatility Index"},
	{"DTWEXB", "US Dollar Index"},
	{"DCOILWTICO", "Crude Oil WTI"},

	// Interest rates & spreads
	{"DGS2", "2-Year Treasury Rate"},
	{"DGS10", "10-Year Treasury Rate"},
	{"T10Y2Y", "10Y-2Y Treasury Spread"},

	// Fed related
	{"WALCL", "Fed Balance Sheet Total Assets"},
	{"M2V", "Velocity of M2 Money Stock"},
	{"BOGMBASE", "Monetary Base"},

	// Additional data
	{"ICSA", "Initial Jobless Claims"},
	{"PCE", "Personal Consumption Expenditures"},
	{"HOUST", "Housing Starts"},
}

type entry struct {
	SeriesID string `yaml:"series"`
	Label    string `yaml:"label"`
}

type catalogFile struct {
	Indicators []entry  `yaml:"indicators"`
	HighImpact []string `yaml:"high_impact"`
}

// Catalog is the immutable set of tracked indicators.
type Catalog struct {
	specs []domain.IndicatorSpec
	byID  map[string]domain.IndicatorSpec
}

// Load returns the catalog from the YAML file at path, or the built-in
// table when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(cf.Indicators) == 0 {
		return nil, fmt.Errorf("catalog file %s lists no indicators", path)
	}

	high := make(map[string]bool, len(cf.HighImpact))
	for _, id := range cf.HighImpact {
		high[id] = true
	}
	return build(cf.Indicators, high), nil
}

// Builtin returns the compiled-in catalog.
func Builtin() *Catalog {
	return build(builtin, highImpact)
}

func build(entries []entry, high map[string]bool) *Catalog {
	c := &Catalog{byID: make(map[string]domain.IndicatorSpec, len(entries))}
	for _, e := range entries {
		impact := domain.ImpactMedium
		if high[e.SeriesID] {
			impact = domain.ImpactHigh
		}
		spec := domain.IndicatorSpec{SeriesID: e.SeriesID, Label: e.Label, Impact: impact}
		if _, dup := c.byID[e.SeriesID]; dup {
			continue
		}
		c.specs = append(c.specs, spec)
		c.byID[e.SeriesID] = spec
	}
	return c
}

// All returns the indicators in catalog order.
func (c *Catalog) All() []domain.IndicatorSpec {
	out := make([]domain.IndicatorSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup returns the spec for a series ID.
func (c *Catalog) Lookup(seriesID string) (domain.IndicatorSpec, bool) {
	spec, ok := c.byID[seriesID]
	return spec, ok
}

func (c *Catalog) Size() int {
	return len(c.specs)
}
