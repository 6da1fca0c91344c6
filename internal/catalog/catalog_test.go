package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLookup(t *testing.T) {
	c := Default()
	s, ok := c.Lookup("cleaning")
	if !ok {
		t.Fatalf("Lookup(cleaning): not found")
	}
	if s.Label != "Turnout Blanket Cleaning" || s.PriceCents != 2500 {
		t.Fatalf("Lookup(cleaning): unexpected %+v", s)
	}
	if c.ValidCode("detailing") {
		t.Fatalf("ValidCode(detailing): expected false")
	}
	if c.TaxRate() != DefaultTaxRate {
		t.Fatalf("TaxRate: got %v", c.TaxRate())
	}
	if len(c.All()) != 3 {
		t.Fatalf("All: got %d services", len(c.All()))
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `
tax_rate: 7.5
services:
  - code: cleaning
    label: Blanket Wash
    price_cents: 3000
  - code: saddle-soap
    label: Saddle Soap Treatment
    price_cents: 1200
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TaxRate() != 7.5 {
		t.Fatalf("TaxRate: got %v", c.TaxRate())
	}
	s, ok := c.Lookup("cleaning")
	if !ok || s.Label != "Blanket Wash" || s.PriceCents != 3000 {
		t.Fatalf("override not applied: %+v", s)
	}
	if _, ok := c.Lookup("saddle-soap"); !ok {
		t.Fatalf("appended service missing")
	}
	if _, ok := c.Lookup("repairs"); !ok {
		t.Fatalf("default service lost in merge")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
