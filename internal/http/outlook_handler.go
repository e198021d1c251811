package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mingus-outlook/internal/service"
)

// OutlookHandler expone el outlook diario por HTTP.
type OutlookHandler struct {
	logger   *zap.Logger
	outlooks *service.OutlookService
}

// NewOutlookHandler crea una instancia de OutlookHandler.
func NewOutlookHandler(logger *zap.Logger, outlooks *service.OutlookService) *OutlookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutlookHandler{
		logger:   logger,
		outlooks: outlooks,
	}
}

// GetDailyOutlook maneja GET /daily-outlook/:user_id.
func (h *OutlookHandler) GetDailyOutlook(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if !authorizedFor(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	outlook, err := h.outlooks.GenerateDailyOutlook(c.Request.Context(), userID, time.Time{}, false)
	if err != nil {
		h.writeError(c, userID, "get daily outlook failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outlook": outlook})
}

// RegenerateDailyOutlook maneja POST /daily-outlook/:user_id/regenerate.
func (h *OutlookHandler) RegenerateDailyOutlook(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if !authorizedFor(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	outlook, err := h.outlooks.RegenerateDailyOutlook(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, userID, "regenerate daily outlook failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outlook": outlook})
}

// ListHistory maneja GET /daily-outlook/:user_id/history?limit=N.
func (h *OutlookHandler) ListHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if !authorizedFor(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	history, err := h.outlooks.GetHistory(c.Request.Context(), userID, limit)
	if err != nil {
		h.writeError(c, userID, "list outlook history failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outlooks": history})
}

func (h *OutlookHandler) writeError(c *gin.Context, userID, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.Is(err, service.ErrInvalidUserData):
		h.logger.Warn(msg, zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_user_data"})
	case errors.Is(err, service.ErrRegenerateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	default:
		h.logger.Error(msg, zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build daily outlook"})
	}
}

// authorizedFor exige que el token pertenezca al usuario pedido. Sin claims (auth deshabilitada) se permite.
func authorizedFor(c *gin.Context, userID string) bool {
	claims, ok := GetAuthClaims(c)
	if !ok {
		return true
	}
	return claims.UserID == userID
}
