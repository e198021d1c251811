package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"mingus-outlook/internal/domain"
)

var ErrInvalidUserData = errors.New("invalid user data")

// Contenido de fallback: cada camino de seleccion termina en una de estas constantes.
const (
	FallbackInsight = "Take one small step today toward the goal that matters most to you. Progress beats perfection."
	FallbackTeaser  = "Tomorrow: a fresh insight picked just for you."
)

const (
	maxQuickActions = 3
	cityBonus       = 0.75
	culturalBonus   = 0.25
)

// UserData agrupa las entradas del motor de contenido para un usuario.
type UserData struct {
	Profile  domain.UserProfile
	Activity domain.ActivitySnapshot
}

// Validate exige los campos obligatorios: id y tier conocido.
func (d UserData) Validate() error {
	if strings.TrimSpace(d.Profile.ID) == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidUserData)
	}
	if d.Profile.Tier == "" {
		return fmt.Errorf("%w: missing tier", ErrInvalidUserData)
	}
	if !d.Profile.Tier.Valid() {
		return fmt.Errorf("%w: unknown tier %q", ErrInvalidUserData, d.Profile.Tier)
	}
	return nil
}

// Facts construye el contexto plano de triggers.
func (d UserData) Facts() domain.Facts {
	a := d.Activity
	return domain.Facts{
		domain.FactFinancialScore:     domain.NumberFact(float64(a.FinancialScore)),
		domain.FactWellnessScore:      domain.NumberFact(float64(a.WellnessScore)),
		domain.FactRelationshipScore:  domain.NumberFact(float64(a.RelationshipScore)),
		domain.FactCareerScore:        domain.NumberFact(float64(a.CareerScore)),
		domain.FactMoodScore:          domain.NumberFact(float64(a.MoodScore)),
		domain.FactStreakCount:        domain.NumberFact(float64(a.StreakCount)),
		domain.FactLocation:           domain.TextFact(strings.TrimSpace(d.Profile.Location.City)),
		domain.FactState:              domain.TextFact(strings.TrimSpace(d.Profile.Location.State)),
		domain.FactTier:               domain.TextFact(string(d.Profile.Tier)),
		domain.FactTierRank:           domain.NumberFact(float64(d.Profile.Tier.Rank())),
		domain.FactRelationshipStatus: domain.TextFact(string(d.Profile.RelationshipStatus)),
	}
}

// renderVars son los placeholders disponibles para los templates.
func (d UserData) renderVars() map[string]string {
	location := strings.TrimSpace(d.Profile.Location.City)
	if location == "" {
		location = "your city"
	}
	name := strings.TrimSpace(d.Profile.FirstName)
	if name == "" {
		name = "friend"
	}
	streak := d.Activity.StreakCount
	if streak < 0 {
		streak = 0
	}
	return map[string]string{
		"location":           location,
		"state":              strings.TrimSpace(d.Profile.Location.State),
		"first_name":         name,
		"segment":            segmentLabel(d.Profile.RelationshipStatus),
		"tier":               string(d.Profile.Tier),
		"streak":             strconv.Itoa(streak),
		"next_streak":        strconv.Itoa(streak + 1),
		"financial_score":    strconv.Itoa(d.Activity.FinancialScore),
		"wellness_score":     strconv.Itoa(d.Activity.WellnessScore),
		"relationship_score": strconv.Itoa(d.Activity.RelationshipScore),
		"career_score":       strconv.Itoa(d.Activity.CareerScore),
	}
}

func segmentLabel(status domain.RelationshipStatus) string {
	switch status {
	case domain.RelationshipSingleCareerFocused:
		return "career-focused single"
	case domain.RelationshipSingleLooking, domain.RelationshipDating:
		return "single professional"
	case domain.RelationshipEarlyRelationship, domain.RelationshipCommitted:
		return "professional in a relationship"
	case domain.RelationshipEngaged:
		return "soon-to-be-married professional"
	case domain.RelationshipMarried:
		return "married professional"
	default:
		return "professional"
	}
}

// Insight es el resultado de SelectPrimaryInsight.
type Insight struct {
	Text              string
	TemplateID        string
	CulturalRelevance bool
	CitySpecific      bool
}

type streakMessage struct {
	minStreak int
	class     string
	message   string
}

// Tabla escalonada: se usa la entrada con mayor minStreak <= streak.
var encouragementSteps = []streakMessage{
	{minStreak: 0, class: "starting", message: "Every journey starts with a single step. Check in today and start building momentum."},
	{minStreak: 3, class: "three_day", message: "Three days in a row! You are building a habit that sticks."},
	{minStreak: 7, class: "one_week", message: "A full week of showing up for yourself. That consistency is paying off."},
	{minStreak: 14, class: "two_week", message: "Two weeks strong! Your dedication is turning goals into results."},
	{minStreak: 30, class: "thirty_day", message: "Thirty days and counting. You are leading by example; keep going."},
}

// Indexado 0=lunes..6=domingo.
var surpriseElements = [7]string{
	"Monday money fact: automating savings on payday makes people far more likely to hit their goals.",
	"Tuesday tip: a 20-minute walk can lower stress hormones for hours afterward.",
	"Wednesday win: you are halfway through the week. Name one thing that went right so far.",
	"Thursday thought: the people you spend time with shape your habits. Who is lifting you up?",
	"Friday fun: plan a weekend treat that costs under $20 and enjoy it without guilt.",
	"Saturday spotlight: support a local Black-owned business this weekend.",
	"Sunday reset: take five minutes to look at the week ahead and choose one priority.",
}

// ContentSelector elige el contenido del outlook a partir del TemplateStore inyectado.
type ContentSelector struct {
	store  *TemplateStore
	logger *zap.Logger
}

func NewContentSelector(store *TemplateStore, logger *zap.Logger) *ContentSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentSelector{store: store, logger: logger}
}

type rankedTemplate struct {
	template domain.ContentTemplate
	score    float64
}

func specificityBonus(t domain.ContentTemplate) float64 {
	bonus := 1.0
	if t.CitySpecific() {
		bonus += cityBonus
	}
	if t.CulturalRelevance {
		bonus += culturalBonus
	}
	return bonus
}

// SelectPrimaryInsight rankea los insights elegibles por peso de categoria x especificidad,
// desempata por id y renderiza el primero que no falle. Nunca falla: sin candidatos devuelve
// FallbackInsight.
func (s *ContentSelector) SelectPrimaryInsight(data UserData, weights domain.DynamicWeights) Insight {
	candidates := s.store.Query(TemplateQuery{
		Kind:  domain.TemplateKindInsight,
		Tier:  data.Profile.Tier,
		Facts: data.Facts(),
	})

	ranked := make([]rankedTemplate, 0, len(candidates))
	for _, t := range candidates {
		ranked = append(ranked, rankedTemplate{template: t, score: weights.Get(t.Category) * specificityBonus(t)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].template.ID < ranked[j].template.ID
	})

	vars := data.renderVars()
	for _, r := range ranked {
		text, err := renderTemplate(r.template.Body, vars)
		if err != nil {
			s.logger.Warn("insight template render failed",
				zap.String("template_id", r.template.ID),
				zap.String("user_id", data.Profile.ID),
				zap.Error(err),
			)
			continue
		}
		return Insight{
			Text:              text,
			TemplateID:        r.template.ID,
			CulturalRelevance: r.template.CulturalRelevance,
			CitySpecific:      r.template.CitySpecific(),
		}
	}
	return Insight{Text: FallbackInsight}
}

// difficultyCeiling: budget solo easy, mid_tier hasta medium, professional hasta hard.
func difficultyCeiling(tier domain.Tier) domain.Difficulty {
	switch tier {
	case domain.TierProfessional:
		return domain.DifficultyHard
	case domain.TierMid:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyEasy
	}
}

// GenerateQuickActions toma hasta tres acciones distintas del pool del tier. Primera pasada:
// una por categoria en orden de peso; segunda pasada: completa en el mismo orden. Dentro de
// cada categoria se prefieren acciones propias del tier mas alto. Si el pool tiene menos de
// dos acciones devuelve lo que haya, sin duplicar.
func (s *ContentSelector) GenerateQuickActions(data UserData, tier domain.Tier, weights domain.DynamicWeights) []domain.QuickAction {
	pool := s.store.ActionPool(tier, difficultyCeiling(tier))
	byCategory := make(map[domain.Category][]domain.QuickAction, len(domain.Categories))
	for _, a := range pool {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}
	for c := range byCategory {
		actions := byCategory[c]
		sort.SliceStable(actions, func(i, j int) bool {
			if actions[i].TierOrigin.Rank() != actions[j].TierOrigin.Rank() {
				return actions[i].TierOrigin.Rank() > actions[j].TierOrigin.Rank()
			}
			return actions[i].ID < actions[j].ID
		})
	}

	// Round-robin: cada pasada toma a lo sumo una accion por categoria, en orden de peso.
	// Una categoria dominante no llena las tres posiciones mientras otra tenga acciones.
	order := rankedCategories(weights)
	out := make([]domain.QuickAction, 0, maxQuickActions)
	used := make(map[string]struct{}, maxQuickActions)
	next := make(map[domain.Category]int, len(order))
	for len(out) < maxQuickActions {
		added := false
		for _, c := range order {
			if len(out) == maxQuickActions {
				break
			}
			actions := byCategory[c]
			for next[c] < len(actions) {
				a := actions[next[c]]
				next[c]++
				if _, dup := used[a.ID]; dup {
					continue
				}
				used[a.ID] = struct{}{}
				out = append(out, a)
				added = true
				break
			}
		}
		if !added {
			break
		}
	}
	if len(out) < 2 {
		s.logger.Warn("quick action pool smaller than minimum",
			zap.String("user_id", data.Profile.ID),
			zap.String("tier", string(tier)),
			zap.Int("available", len(out)),
		)
	}
	return out
}

// EncouragementClass devuelve la clase de mensaje para un streak (starting, three_day, ...).
func EncouragementClass(streak int) string {
	return encouragementStep(streak).class
}

func encouragementStep(streak int) streakMessage {
	step := encouragementSteps[0]
	for _, st := range encouragementSteps {
		if streak >= st.minStreak {
			step = st
		}
	}
	return step
}

// CreateEncouragementMessage es una funcion escalonada sobre el streak (0, 3, 7, 14, 30+).
func (s *ContentSelector) CreateEncouragementMessage(_ UserData, streak int) string {
	return encouragementStep(streak).message
}

// GetSurpriseElement depende solo del dia de la semana (0=lunes). userID se acepta pero no
// altera el resultado: todos los usuarios ven el mismo mensaje el mismo dia.
func (s *ContentSelector) GetSurpriseElement(_ string, dayOfWeek int) string {
	idx := dayOfWeek % len(surpriseElements)
	if idx < 0 {
		idx += len(surpriseElements)
	}
	return surpriseElements[idx]
}

// MondayIndex convierte time.Weekday (domingo=0) al indice 0=lunes..6=domingo.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// BuildTomorrowTeaser elige un teaser elegible: primero los de ciudad, luego los de tier mas
// alto, luego los mas condicionados; desempate por id. Sin candidatos usa FallbackTeaser.
func (s *ContentSelector) BuildTomorrowTeaser(data UserData) string {
	candidates := s.store.Query(TemplateQuery{
		Kind:  domain.TemplateKindTeaser,
		Tier:  data.Profile.Tier,
		Facts: data.Facts(),
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.CitySpecific() != b.CitySpecific() {
			return a.CitySpecific()
		}
		if a.MinTier.Rank() != b.MinTier.Rank() {
			return a.MinTier.Rank() > b.MinTier.Rank()
		}
		if len(a.Conditions) != len(b.Conditions) {
			return len(a.Conditions) > len(b.Conditions)
		}
		return a.ID < b.ID
	})

	vars := data.renderVars()
	for _, t := range candidates {
		text, err := renderTemplate(t.Body, vars)
		if err != nil {
			s.logger.Warn("teaser template render failed",
				zap.String("template_id", t.ID),
				zap.String("user_id", data.Profile.ID),
				zap.Error(err),
			)
			continue
		}
		return text
	}
	return FallbackTeaser
}
