package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mingus-outlook/internal/domain"
)

type catalogFile struct {
	Version      string           `yaml:"version"`
	Templates    []templateDef    `yaml:"templates"`
	QuickActions []quickActionDef `yaml:"quick_actions,omitempty"`
}

type templateDef struct {
	ID                string         `yaml:"id"`
	Kind              string         `yaml:"kind"`
	MinTier           string         `yaml:"min_tier"`
	Category          string         `yaml:"category"`
	Body              string         `yaml:"body"`
	CityKey           string         `yaml:"city_key,omitempty"`
	CulturalRelevance bool           `yaml:"cultural_relevance,omitempty"`
	Conditions        []conditionDef `yaml:"conditions,omitempty"`
}

// conditionDef.Value conserva el nodo para distinguir 50 de "50".
type conditionDef struct {
	Field string    `yaml:"field"`
	Op    string    `yaml:"op"`
	Value yaml.Node `yaml:"value"`
}

type quickActionDef struct {
	ID               string `yaml:"id"`
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	Category         string `yaml:"category"`
	Difficulty       string `yaml:"difficulty"`
	EstimatedMinutes int    `yaml:"estimated_minutes"`
	MinTier          string `yaml:"min_tier"`
}

// LoadTemplateCatalog lee un catalogo YAML y construye un TemplateStore validado. Si el
// archivo no define quick_actions se usa el pool embebido.
func LoadTemplateCatalog(path string) (*TemplateStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("template catalog path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	return ParseTemplateCatalog(data)
}

func ParseTemplateCatalog(data []byte) (*TemplateStore, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("%w: catalog has no templates", ErrInvalidTemplate)
	}

	templates := make([]domain.ContentTemplate, 0, len(file.Templates))
	for _, def := range file.Templates {
		t, err := def.toDomain()
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	actions := DefaultQuickActions()
	if len(file.QuickActions) > 0 {
		actions = make([]domain.QuickAction, 0, len(file.QuickActions))
		for _, def := range file.QuickActions {
			actions = append(actions, domain.QuickAction{
				ID:               strings.TrimSpace(def.ID),
				Title:            strings.TrimSpace(def.Title),
				Description:      strings.TrimSpace(def.Description),
				Category:         domain.Category(strings.TrimSpace(def.Category)),
				Difficulty:       domain.Difficulty(strings.TrimSpace(def.Difficulty)),
				EstimatedMinutes: def.EstimatedMinutes,
				TierOrigin:       domain.Tier(strings.TrimSpace(def.MinTier)),
			})
		}
	}
	return NewTemplateStore(templates, actions)
}

func (d templateDef) toDomain() (domain.ContentTemplate, error) {
	t := domain.ContentTemplate{
		ID:                strings.TrimSpace(d.ID),
		Kind:              domain.TemplateKind(strings.TrimSpace(d.Kind)),
		MinTier:           domain.Tier(strings.TrimSpace(d.MinTier)),
		Category:          domain.Category(strings.TrimSpace(d.Category)),
		Body:              d.Body,
		CityKey:           strings.TrimSpace(d.CityKey),
		CulturalRelevance: d.CulturalRelevance,
	}
	if t.Kind == "" {
		t.Kind = domain.TemplateKindInsight
	}
	for _, c := range d.Conditions {
		value, err := factFromNode(c.Value)
		if err != nil {
			return domain.ContentTemplate{}, fmt.Errorf("%w: template %q field %q: %v", ErrInvalidTemplate, t.ID, c.Field, err)
		}
		t.Conditions = append(t.Conditions, domain.Condition{
			Field: strings.TrimSpace(c.Field),
			Op:    domain.Operator(strings.TrimSpace(c.Op)),
			Value: value,
		})
	}
	return t, nil
}

func factFromNode(n yaml.Node) (domain.Fact, error) {
	if n.Kind != yaml.ScalarNode {
		return domain.Fact{}, fmt.Errorf("condition value must be a scalar")
	}
	switch n.Tag {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return domain.Fact{}, err
		}
		return domain.NumberFact(v), nil
	default:
		return domain.TextFact(n.Value), nil
	}
}
