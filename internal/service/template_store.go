package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mingus-outlook/internal/domain"
)

var (
	ErrInvalidTemplate = errors.New("invalid template")
	ErrTemplateRender  = errors.New("template render failed")
)

// TemplateQuery filtra el catalogo. Category vacia significa todas las categorias.
type TemplateQuery struct {
	Kind     domain.TemplateKind
	Tier     domain.Tier
	Category domain.Category
	Facts    domain.Facts
}

// TemplateStore es un catalogo inmutable de templates y quick actions, construido una vez
// al arrancar e inyectado en el ContentSelector.
type TemplateStore struct {
	templates []domain.ContentTemplate
	actions   []domain.QuickAction
}

// NewTemplateStore valida y copia el catalogo. Los ids deben ser unicos.
func NewTemplateStore(templates []domain.ContentTemplate, actions []domain.QuickAction) (*TemplateStore, error) {
	seen := make(map[string]struct{}, len(templates))
	ts := make([]domain.ContentTemplate, 0, len(templates))
	for _, t := range templates {
		if err := validateTemplate(t); err != nil {
			return nil, err
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrInvalidTemplate, t.ID)
		}
		seen[t.ID] = struct{}{}
		t.Conditions = append([]domain.Condition(nil), t.Conditions...)
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })

	seenActions := make(map[string]struct{}, len(actions))
	as := make([]domain.QuickAction, 0, len(actions))
	for _, a := range actions {
		if strings.TrimSpace(a.ID) == "" || strings.TrimSpace(a.Title) == "" {
			return nil, fmt.Errorf("%w: quick action requires id and title", ErrInvalidTemplate)
		}
		if !a.TierOrigin.Valid() || !a.Category.Valid() || a.Difficulty.Rank() == 0 {
			return nil, fmt.Errorf("%w: quick action %q has invalid tier, category or difficulty", ErrInvalidTemplate, a.ID)
		}
		if _, dup := seenActions[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate quick action id %q", ErrInvalidTemplate, a.ID)
		}
		seenActions[a.ID] = struct{}{}
		as = append(as, a)
	}
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })

	return &TemplateStore{templates: ts, actions: as}, nil
}

// MustDefaultTemplateStore construye el store con el catalogo embebido.
func MustDefaultTemplateStore() *TemplateStore {
	store, err := NewTemplateStore(DefaultTemplates(), DefaultQuickActions())
	if err != nil {
		panic(err)
	}
	return store
}

func validateTemplate(t domain.ContentTemplate) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTemplate)
	}
	if t.Kind != domain.TemplateKindInsight && t.Kind != domain.TemplateKindTeaser {
		return fmt.Errorf("%w: template %q has unknown kind %q", ErrInvalidTemplate, t.ID, t.Kind)
	}
	if !t.MinTier.Valid() {
		return fmt.Errorf("%w: template %q has unknown tier %q", ErrInvalidTemplate, t.ID, t.MinTier)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: template %q has unknown category %q", ErrInvalidTemplate, t.ID, t.Category)
	}
	if strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("%w: template %q has empty body", ErrInvalidTemplate, t.ID)
	}
	for _, c := range t.Conditions {
		if strings.TrimSpace(c.Field) == "" || !c.Op.Valid() {
			return fmt.Errorf("%w: template %q has malformed condition %+v", ErrInvalidTemplate, t.ID, c)
		}
		if !c.Value.IsNumber && c.Op != domain.OpEqual && c.Op != domain.OpNotEqual {
			return fmt.Errorf("%w: template %q compares text with %q", ErrInvalidTemplate, t.ID, c.Op)
		}
	}
	return nil
}

// Query devuelve, ordenados por id, los templates elegibles. Nunca devuelve error: sin
// coincidencias el resultado es vacio y el caller usa su fallback.
func (s *TemplateStore) Query(q TemplateQuery) []domain.ContentTemplate {
	if s == nil || !q.Tier.Valid() {
		return nil
	}
	var out []domain.ContentTemplate
	for _, t := range s.templates {
		if q.Kind != "" && t.Kind != q.Kind {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if Eligible(t, q.Tier, q.Facts) {
			out = append(out, t)
		}
	}
	return out
}

// Eligible aplica tier minimo, ciudad exacta y todas las condiciones.
func Eligible(t domain.ContentTemplate, tier domain.Tier, facts domain.Facts) bool {
	if !tier.AtLeast(t.MinTier) {
		return false
	}
	if t.CityKey != "" {
		loc, ok := facts[domain.FactLocation]
		if !ok || loc.IsNumber || loc.Text != t.CityKey {
			return false
		}
	}
	for _, c := range t.Conditions {
		if !c.Evaluate(facts) {
			return false
		}
	}
	return true
}

// ActionPool devuelve las quick actions disponibles para el tier hasta la dificultad maxima.
func (s *TemplateStore) ActionPool(tier domain.Tier, maxDifficulty domain.Difficulty) []domain.QuickAction {
	if s == nil || !tier.Valid() {
		return nil
	}
	var out []domain.QuickAction
	for _, a := range s.actions {
		if tier.AtLeast(a.TierOrigin) && a.Difficulty.Rank() <= maxDifficulty.Rank() {
			out = append(out, a)
		}
	}
	return out
}

func (s *TemplateStore) TemplateCount() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

func (s *TemplateStore) ActionCount() int {
	if s == nil {
		return 0
	}
	return len(s.actions)
}

// renderTemplate reemplaza {placeholder} con vars. Placeholders desconocidos o llaves sin
// cerrar son errores de render.
func renderTemplate(body string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(body))
	rest := body
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unclosed placeholder", ErrTemplateRender)
		}
		key := rest[open+1 : open+end]
		val, ok := vars[key]
		if !ok {
			return "", fmt.Errorf("%w: unknown placeholder %q", ErrTemplateRender, key)
		}
		b.WriteString(rest[:open])
		b.WriteString(val)
		rest = rest[open+end+1:]
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("%w: empty output", ErrTemplateRender)
	}
	return out, nil
}
