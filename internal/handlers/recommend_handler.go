package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cinemood/cinemood/internal/recommend"
)

// RecommendHandler exposes the five recommendation/analysis modes over HTTP.
type RecommendHandler struct {
	service *recommend.Service
}

// NewRecommendHandler creates a handler backed by the given service.
func NewRecommendHandler(service *recommend.Service) *RecommendHandler {
	return &RecommendHandler{service: service}
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cinemood-api",
	})
}

// Personalized handles POST /recommendations/personalized.
func (h *RecommendHandler) Personalized(c *gin.Context) {
	var req recommend.PersonalizedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	if req.TimeOfDay == "" {
		req.TimeOfDay = recommend.DetectTimeOfDay(time.Now())
	}
	items, err := h.service.Personalized(c.Request.Context(), req)
	if err != nil {
		respondError(c, "personalized recommendations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": items})
}

// Search handles POST /recommendations/search.
func (h *RecommendHandler) Search(c *gin.Context) {
	var req recommend.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	if req.TimeOfDay == "" {
		req.TimeOfDay = recommend.DetectTimeOfDay(time.Now())
	}
	items, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, "search recommendations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": items})
}

// Surprise handles POST /recommendations/surprise.
func (h *RecommendHandler) Surprise(c *gin.Context) {
	var req recommend.SurpriseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	items, err := h.service.Surprise(c.Request.Context(), req)
	if err != nil {
		respondError(c, "surprise recommendations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": items})
}

// Group handles POST /recommendations/group.
func (h *RecommendHandler) Group(c *gin.Context) {
	var req recommend.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	if req.TimeOfDay == "" {
		req.TimeOfDay = recommend.DetectTimeOfDay(time.Now())
	}
	items, err := h.service.Group(c.Request.Context(), req)
	if err != nil {
		respondError(c, "group recommendations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": items})
}

// Analyze handles POST /recommendations/analysis.
func (h *RecommendHandler) Analyze(c *gin.Context) {
	var req recommend.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
		return
	}
	analysis, err := h.service.AnalyzeWatchPattern(c.Request.Context(), req)
	if err != nil {
		respondError(c, "watch-pattern analysis", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}

// GetCapabilities handles GET /recommendations/capabilities.
func (h *RecommendHandler) GetCapabilities(c *gin.Context) {
	capabilities := map[string]interface{}{
		"personalized": map[string]interface{}{"description": "Picks for the viewer's current mood and time of day", "endpoint": "/api/v1/recommendations/personalized", "method": "POST"},
		"search":       map[string]interface{}{"description": "Free-text search with mood/time/history context", "endpoint": "/api/v1/recommendations/search", "method": "POST"},
		"surprise":     map[string]interface{}{"description": "Discovery picks diverging from the viewing history", "endpoint": "/api/v1/recommendations/surprise", "method": "POST"},
		"group":        map[string]interface{}{"description": "Compromise picks for two viewer profiles", "endpoint": "/api/v1/recommendations/group", "method": "POST"},
		"analysis":     map[string]interface{}{"description": "Watch-pattern analysis of the logged history", "endpoint": "/api/v1/recommendations/analysis", "method": "POST"},
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "capabilities": capabilities, "moods": recommend.Moods, "contentTypes": recommend.ContentTypes})
}

// respondError maps core errors onto HTTP statuses. Invalid input is the
// caller's fault; everything else is a provider-side fault surfaced with the
// name of the operation that failed. A legitimate empty result never lands
// here: lenient modes return 200 with an empty array.
func respondError(c *gin.Context, op string, err error) {
	var ve *recommend.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("%s failed: %v", op, err)})
}
