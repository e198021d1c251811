package domain

import "time"

// DateLayout es el formato de dia calendario usado como clave del outlook.
const DateLayout = "2006-01-02"

// DayKey normaliza un instante al dia calendario en su propia zona horaria.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Difficulty de una quick action.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// QuickAction es un valor inmutable una vez seleccionado dentro de un outlook.
type QuickAction struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         Category   `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	TierOrigin       Tier       `json:"tier_origin"`
}

// DailyOutlook es el bundle diario: uno por (UserID, Date).
type DailyOutlook struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	Date                 string         `json:"date"`
	Tier                 Tier           `json:"tier"`
	BalanceScore         int            `json:"balance_score"`
	Weights              DynamicWeights `json:"weights"`
	PrimaryInsight       string         `json:"primary_insight"`
	InsightTemplateID    string         `json:"insight_template_id,omitempty"`
	QuickActions         []QuickAction  `json:"quick_actions"`
	EncouragementMessage string         `json:"encouragement_message"`
	SurpriseElement      string         `json:"surprise_element"`
	TomorrowTeaser       string         `json:"tomorrow_teaser"`
	CulturalRelevance    bool           `json:"cultural_relevance"`
	CitySpecific         bool           `json:"city_specific"`
	GeneratedAt          time.Time      `json:"generated_at"`
}
