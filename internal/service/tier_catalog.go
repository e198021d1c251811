package service

import (
	"errors"
	"strings"

	"mingus-outlook/internal/domain"
)

var ErrUnknownTier = errors.New("unknown tier")

// TierCatalog es el registro estatico de tiers de suscripcion.
type TierCatalog struct {
	tiers []domain.TierConfig
}

// NewTierCatalog construye el catalogo con los tres tiers definidos.
func NewTierCatalog() *TierCatalog {
	return &TierCatalog{tiers: defaultTierConfigs()}
}

func defaultTierConfigs() []domain.TierConfig {
	return []domain.TierConfig{
		{
			ID:           domain.TierBudget,
			Name:         "Budget",
			MonthlyPrice: 15,
			Features: map[string]bool{
				domain.FeatureBasicAnalytics: true,
				domain.FeatureGoalSetting:    true,
				domain.FeatureEmailSupport:   true,
			},
			Limits: map[string]int{
				domain.LimitAnalyticsReports:  5,
				domain.LimitAIInsights:        3,
				domain.LimitCashFlowForecasts: 2,
				domain.LimitCustomReports:     0,
			},
		},
		{
			ID:           domain.TierMid,
			Name:         "Mid-Tier",
			MonthlyPrice: 35,
			Features: map[string]bool{
				domain.FeatureBasicAnalytics:       true,
				domain.FeatureGoalSetting:          true,
				domain.FeatureEmailSupport:         true,
				domain.FeatureAdvancedAIInsights:   true,
				domain.FeatureCareerRiskManagement: true,
				domain.FeaturePrioritySupport:      true,
				domain.FeatureCareerIntegration:    true,
			},
			Limits: map[string]int{
				domain.LimitAnalyticsReports:  20,
				domain.LimitAIInsights:        50,
				domain.LimitCashFlowForecasts: 10,
				domain.LimitCustomReports:     5,
			},
		},
		{
			ID:           domain.TierProfessional,
			Name:         "Professional",
			MonthlyPrice: 100,
			Features: map[string]bool{
				domain.FeatureBasicAnalytics:          true,
				domain.FeatureGoalSetting:             true,
				domain.FeatureEmailSupport:            true,
				domain.FeatureAdvancedAIInsights:      true,
				domain.FeatureCareerRiskManagement:    true,
				domain.FeaturePrioritySupport:         true,
				domain.FeatureCareerIntegration:       true,
				domain.FeatureCustomReports:           true,
				domain.FeatureDataExport:              true,
				domain.FeatureAPIAccess:               true,
				domain.FeatureDedicatedAccountManager: true,
			},
			Limits: map[string]int{
				domain.LimitAnalyticsReports:  domain.Unlimited,
				domain.LimitAIInsights:        domain.Unlimited,
				domain.LimitCashFlowForecasts: domain.Unlimited,
				domain.LimitCustomReports:     domain.Unlimited,
			},
		},
	}
}

// GetTier devuelve la configuracion del tier o ErrUnknownTier.
func (c *TierCatalog) GetTier(id domain.Tier) (domain.TierConfig, error) {
	id = id.Normalize()
	for _, t := range c.tiers {
		if t.ID == id {
			return copyTierConfig(t), nil
		}
	}
	return domain.TierConfig{}, ErrUnknownTier
}

// ListTiers devuelve los tiers en orden budget < mid_tier < professional.
func (c *TierCatalog) ListTiers() []domain.TierConfig {
	out := make([]domain.TierConfig, 0, len(c.tiers))
	for _, t := range c.tiers {
		out = append(out, copyTierConfig(t))
	}
	return out
}

// HasFeatureAccess es el gate consumido por la capa HTTP/UI. Tiers desconocidos no tienen acceso.
func (c *TierCatalog) HasFeatureAccess(id domain.Tier, feature string) bool {
	cfg, err := c.GetTier(id)
	if err != nil {
		return false
	}
	return cfg.Features[strings.TrimSpace(feature)]
}

// Limit devuelve el limite mensual de un tier; ok=false si el tier o el limite no existen.
func (c *TierCatalog) Limit(id domain.Tier, name string) (int, bool) {
	cfg, err := c.GetTier(id)
	if err != nil {
		return 0, false
	}
	v, ok := cfg.Limits[name]
	return v, ok
}

// Compare devuelve -1, 0 o 1 segun el orden de tiers.
func (c *TierCatalog) Compare(a, b domain.Tier) (int, error) {
	if !a.Valid() || !b.Valid() {
		return 0, ErrUnknownTier
	}
	switch {
	case a.Rank() < b.Rank():
		return -1, nil
	case a.Rank() > b.Rank():
		return 1, nil
	default:
		return 0, nil
	}
}

// El catalogo es inmutable: los callers reciben copias de los mapas.
func copyTierConfig(t domain.TierConfig) domain.TierConfig {
	features := make(map[string]bool, len(t.Features))
	for k, v := range t.Features {
		features[k] = v
	}
	limits := make(map[string]int, len(t.Limits))
	for k, v := range t.Limits {
		limits[k] = v
	}
	t.Features = features
	t.Limits = limits
	return t
}
