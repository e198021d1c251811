package domain

import (
	"strconv"
	"strings"
)

// TemplateKind distingue insights principales de teasers para mañana.
type TemplateKind string

const (
	TemplateKindInsight TemplateKind = "insight"
	TemplateKindTeaser  TemplateKind = "teaser"
)

// Operator es el comparador de una condicion de trigger.
type Operator string

const (
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpEqual          Operator = "eq"
	OpNotEqual       Operator = "neq"
)

func (o Operator) Valid() bool {
	switch o {
	case OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual, OpEqual, OpNotEqual:
		return true
	default:
		return false
	}
}

// Fact es un valor tipado (numero o texto) dentro del contexto de triggers.
type Fact struct {
	Number   float64 `json:"number,omitempty"`
	Text     string  `json:"text,omitempty"`
	IsNumber bool    `json:"is_number"`
}

func NumberFact(v float64) Fact {
	return Fact{Number: v, IsNumber: true}
}

func TextFact(v string) Fact {
	return Fact{Text: v}
}

func (f Fact) String() string {
	if f.IsNumber {
		return strconv.FormatFloat(f.Number, 'f', -1, 64)
	}
	return f.Text
}

// Facts es el mapa plano contra el que se evaluan las condiciones.
type Facts map[string]Fact

// Claves de facts producidas a partir del perfil y la actividad.
const (
	FactFinancialScore     = "financial_score"
	FactWellnessScore      = "wellness_score"
	FactRelationshipScore  = "relationship_score"
	FactCareerScore        = "career_score"
	FactMoodScore          = "mood_score"
	FactStreakCount        = "streak_count"
	FactLocation           = "location"
	FactState              = "state"
	FactTier               = "tier"
	FactTierRank           = "tier_rank"
	FactRelationshipStatus = "relationship_status"
)

// Condition es un predicado (campo, operador, valor).
type Condition struct {
	Field string   `json:"field"`
	Op    Operator `json:"op"`
	Value Fact     `json:"value"`
}

// Evaluate aplica la condicion. Un fact ausente o de tipo distinto nunca satisface la condicion.
func (c Condition) Evaluate(facts Facts) bool {
	got, ok := facts[c.Field]
	if !ok || got.IsNumber != c.Value.IsNumber {
		return false
	}
	if got.IsNumber {
		switch c.Op {
		case OpGreaterThan:
			return got.Number > c.Value.Number
		case OpGreaterOrEqual:
			return got.Number >= c.Value.Number
		case OpLessThan:
			return got.Number < c.Value.Number
		case OpLessOrEqual:
			return got.Number <= c.Value.Number
		case OpEqual:
			return got.Number == c.Value.Number
		case OpNotEqual:
			return got.Number != c.Value.Number
		}
		return false
	}
	switch c.Op {
	case OpEqual:
		return strings.EqualFold(got.Text, c.Value.Text)
	case OpNotEqual:
		return !strings.EqualFold(got.Text, c.Value.Text)
	}
	return false
}

// ContentTemplate es una entrada inmutable del catalogo de contenido.
type ContentTemplate struct {
	ID                string       `json:"id"`
	Kind              TemplateKind `json:"kind"`
	MinTier           Tier         `json:"min_tier"`
	Category          Category     `json:"category"`
	Body              string       `json:"body"`
	Conditions        []Condition  `json:"conditions,omitempty"`
	CulturalRelevance bool         `json:"cultural_relevance"`
	CityKey           string       `json:"city_key,omitempty"`
}

func (t ContentTemplate) CitySpecific() bool {
	return t.CityKey != ""
}
