package domain

import "time"

// ActivitySnapshot agrega la actividad reciente del usuario. Scores en escala 0-100, mood 1-5.
type ActivitySnapshot struct {
	UserID            string    `json:"user_id"`
	MoodScore         int       `json:"mood_score"`
	ExerciseMinutes   int       `json:"exercise_minutes"`
	MeditationMinutes int       `json:"meditation_minutes"`
	FinancialScore    int       `json:"financial_score"`
	WellnessScore     int       `json:"wellness_score"`
	RelationshipScore int       `json:"relationship_score"`
	CareerScore       int       `json:"career_score"`
	StreakCount       int       `json:"streak_count"`
	LastActiveDate    time.Time `json:"last_active_date"`
}

// CategoryScore devuelve el score de actividad asociado a una categoria.
func (a ActivitySnapshot) CategoryScore(c Category) int {
	switch c {
	case CategoryFinancial:
		return a.FinancialScore
	case CategoryWellness:
		return a.WellnessScore
	case CategoryRelationship:
		return a.RelationshipScore
	case CategoryCareer:
		return a.CareerScore
	default:
		return 0
	}
}
