package domain

import "strings"

// Tier es el nivel de suscripción del usuario.
type Tier string

const (
	TierBudget       Tier = "budget"
	TierMid          Tier = "mid_tier"
	TierProfessional Tier = "professional"
)

// Nombres de features consultables via el gate de tiers.
const (
	FeatureBasicAnalytics          = "basic_analytics"
	FeatureGoalSetting             = "goal_setting"
	FeatureEmailSupport            = "email_support"
	FeatureAdvancedAIInsights      = "advanced_ai_insights"
	FeatureCareerRiskManagement    = "career_risk_management"
	FeaturePrioritySupport         = "priority_support"
	FeatureCustomReports           = "custom_reports"
	FeatureDataExport              = "data_export"
	FeatureCareerIntegration       = "career_integration"
	FeatureAPIAccess               = "api_access"
	FeatureDedicatedAccountManager = "dedicated_account_manager"
)

// Nombres de limites mensuales. -1 significa ilimitado.
const (
	LimitAnalyticsReports  = "analytics_reports_per_month"
	LimitAIInsights        = "ai_insights_per_month"
	LimitCashFlowForecasts = "cash_flow_forecasts_per_month"
	LimitCustomReports     = "custom_reports_per_month"
	Unlimited              = -1
)

// Normalize es la unica forma canonica de un tier id: minusculas y sin espacios.
func (t Tier) Normalize() Tier {
	return Tier(strings.ToLower(strings.TrimSpace(string(t))))
}

// Rank ordena los tiers: budget < mid_tier < professional. Devuelve 0 para tiers desconocidos.
func (t Tier) Rank() int {
	switch t {
	case TierBudget:
		return 1
	case TierMid:
		return 2
	case TierProfessional:
		return 3
	default:
		return 0
	}
}

func (t Tier) Valid() bool {
	return t.Rank() > 0
}

// AtLeast indica si t alcanza el tier minimo requerido.
func (t Tier) AtLeast(min Tier) bool {
	return t.Valid() && t.Rank() >= min.Rank()
}

// TierConfig describe precio, features y limites de un tier.
type TierConfig struct {
	ID           Tier            `json:"id"`
	Name         string          `json:"name"`
	MonthlyPrice float64         `json:"monthly_price"`
	Features     map[string]bool `json:"features"`
	Limits       map[string]int  `json:"limits"`
}
