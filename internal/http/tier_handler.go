package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/service"
)

// TierHandler expone el catalogo de tiers y el gate de features.
type TierHandler struct {
	catalog *service.TierCatalog
}

func NewTierHandler(catalog *service.TierCatalog) *TierHandler {
	return &TierHandler{catalog: catalog}
}

// ListTiers maneja GET /tiers.
func (h *TierHandler) ListTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": h.catalog.ListTiers()})
}

// GetTier maneja GET /tiers/:tier.
func (h *TierHandler) GetTier(c *gin.Context) {
	tier, err := h.catalog.GetTier(domain.Tier(c.Param("tier")))
	if err != nil {
		if errors.Is(err, service.ErrUnknownTier) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown_tier"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load tier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tier": tier})
}

// GetFeatureAccess maneja GET /tiers/:tier/features/:feature.
func (h *TierHandler) GetFeatureAccess(c *gin.Context) {
	tier := domain.Tier(c.Param("tier")).Normalize()
	if _, err := h.catalog.GetTier(tier); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_tier"})
		return
	}
	feature := strings.TrimSpace(c.Param("feature"))
	c.JSON(http.StatusOK, gin.H{
		"tier":    tier,
		"feature": feature,
		"access":  h.catalog.HasFeatureAccess(tier, feature),
	})
}
