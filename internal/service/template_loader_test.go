package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mingus-outlook/internal/domain"
)

const sampleCatalog = `
version: "1"
templates:
  - id: ins-a
    kind: insight
    min_tier: budget
    category: financial
    body: "Hello from {location}"
  - id: ins-city
    min_tier: mid_tier
    category: career
    city_key: Atlanta
    cultural_relevance: true
    body: "Atlanta career note"
    conditions:
      - field: career_score
        op: gte
        value: 50
      - field: relationship_status
        op: eq
        value: married
  - id: tsr-a
    kind: teaser
    min_tier: budget
    category: wellness
    body: "Tomorrow something new"
`

func TestParseTemplateCatalog(t *testing.T) {
	store, err := ParseTemplateCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if store.TemplateCount() != 3 {
		t.Fatalf("expected 3 templates, got %d", store.TemplateCount())
	}
	if store.ActionCount() != len(DefaultQuickActions()) {
		t.Fatalf("expected default quick actions when none defined")
	}

	facts := domain.Facts{
		domain.FactLocation:           domain.TextFact("Atlanta"),
		domain.FactCareerScore:        domain.NumberFact(60),
		domain.FactRelationshipStatus: domain.TextFact("married"),
	}
	got := store.Query(TemplateQuery{Kind: domain.TemplateKindInsight, Tier: domain.TierMid, Facts: facts})
	if len(got) != 2 {
		t.Fatalf("expected 2 eligible insights, got %d", len(got))
	}
	var city domain.ContentTemplate
	for _, tpl := range got {
		if tpl.ID == "ins-city" {
			city = tpl
		}
	}
	if !city.Conditions[0].Value.IsNumber || city.Conditions[1].Value.IsNumber {
		t.Fatalf("expected numeric and text condition values, got %+v", city.Conditions)
	}
}

func TestParseTemplateCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":       "version: \"1\"\n",
		"bad tier":    "templates:\n  - {id: x, min_tier: gold, category: financial, body: hi}\n",
		"bad op":      "templates:\n  - id: x\n    min_tier: budget\n    category: financial\n    body: hi\n    conditions:\n      - {field: financial_score, op: between, value: 1}\n",
		"list value":  "templates:\n  - id: x\n    min_tier: budget\n    category: financial\n    body: hi\n    conditions:\n      - {field: financial_score, op: eq, value: [1, 2]}\n",
		"duplicate":   "templates:\n  - {id: x, min_tier: budget, category: financial, body: hi}\n  - {id: x, min_tier: budget, category: career, body: hi}\n",
		"bad actions": "templates:\n  - {id: x, min_tier: budget, category: financial, body: hi}\nquick_actions:\n  - {id: a, title: A, category: financial, difficulty: extreme, min_tier: budget}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTemplateCatalog([]byte(doc)); !errors.Is(err, ErrInvalidTemplate) {
				t.Fatalf("expected ErrInvalidTemplate, got %v", err)
			}
		})
	}
}

func TestLoadTemplateCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := LoadTemplateCatalog(path); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if _, err := LoadTemplateCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
