// Package catalog holds the fixed service pricing used by the invoice
// quick-add affordance and the intake form. It is pure data plus lookup;
// it must stay importable by the billing engine without cycles.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTaxRate is the sales tax percentage applied when an invoice has
// tax enabled and no explicit rate.
const DefaultTaxRate = 6.25

type Service struct {
	Code       string `yaml:"code"`
	Label      string `yaml:"label"`
	PriceCents int64  `yaml:"price_cents"`
}

var defaults = []Service{
	{Code: "cleaning", Label: "Turnout Blanket Cleaning", PriceCents: 2500},
	{Code: "repairs", Label: "Blanket Repairs", PriceCents: 2000},
	{Code: "waterproofing", Label: "Waterproofing Treatment", PriceCents: 1500},
}

type Catalog struct {
	services []Service
	byCode   map[string]Service
	taxRate  float64
}

func Default() *Catalog {
	return build(defaults, DefaultTaxRate)
}

type fileOverride struct {
	Services []Service `yaml:"services"`
	TaxRate  *float64  `yaml:"tax_rate"`
}

// Load reads a YAML override file and merges it over the defaults.
// Services are matched by code; unknown codes are appended in file order.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var ov fileOverride
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	merged := make([]Service, len(defaults))
	copy(merged, defaults)
	for _, s := range ov.Services {
		replaced := false
		for i := range merged {
			if merged[i].Code == s.Code {
				merged[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, s)
		}
	}

	rate := DefaultTaxRate
	if ov.TaxRate != nil {
		rate = *ov.TaxRate
	}
	return build(merged, rate), nil
}

func build(services []Service, taxRate float64) *Catalog {
	byCode := make(map[string]Service, len(services))
	for _, s := range services {
		byCode[s.Code] = s
	}
	return &Catalog{services: services, byCode: byCode, taxRate: taxRate}
}

func (c *Catalog) Lookup(code string) (Service, bool) {
	s, ok := c.byCode[code]
	return s, ok
}

func (c *Catalog) ValidCode(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// All returns the services in their declared order.
func (c *Catalog) All() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) TaxRate() float64 { return c.taxRate }
