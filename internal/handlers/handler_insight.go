package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
	"github.com/sitebooks/sitebooks/internal/middleware"
)

// insightHandler handles HTTP requests for project risk scoring, health
// assessments and the cash flow forecast.
type insightHandler struct {
	riskService      portssvc.RiskService
	reportingService portssvc.ReportingService
}

// newInsightHandler creates a new insightHandler.
func newInsightHandler(rs portssvc.RiskService, reporting portssvc.ReportingService) *insightHandler {
	return &insightHandler{
		riskService:      rs,
		reportingService: reporting,
	}
}

// registerInsightRoutes registers routes related to project insights.
func registerInsightRoutes(rg *gin.RouterGroup, riskService portssvc.RiskService, reportingService portssvc.ReportingService) {
	h := newInsightHandler(riskService, reportingService)

	insights := rg.Group("/insights")
	{
		insights.GET("/risk-scores", h.getAllRiskScores)
		insights.POST("/projects/:id/risk-score", h.calculateRiskScore)
		insights.GET("/projects/:id/risk-history", h.getRiskHistory)
		insights.GET("/projects/:id/health", h.getProjectHealth)
		insights.GET("/health", h.getAllProjectsHealth)
		insights.GET("/cash-flow-forecast", h.getCashFlowForecast)
	}
}

// calculateRiskScore godoc
// @Summary Calculate and persist a project's risk score
// @Description Scores the project against its budget, schedule and receivables, and appends a risk log
// @Tags insights
// @Produce  json
// @Param   id path int true "Project ID"
// @Success 201 {object} dto.RiskScoreResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Router /insights/projects/{id}/risk-score [post]
func (h *insightHandler) calculateRiskScore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	riskLog, err := h.riskService.CalculateRiskScore(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logger.Error("Failed to calculate risk score", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate risk score"})
		}
		return
	}

	logger.Info("Risk score calculated",
		slog.Int64("project_id", projectID),
		slog.Int("risk_score", riskLog.RiskScore),
		slog.String("risk_level", string(riskLog.RiskLevel)))
	c.JSON(http.StatusCreated, dto.ToRiskScoreResponse(riskLog))
}

// getAllRiskScores godoc
// @Summary List risk scores for all active projects
// @Description Returns the latest persisted score per project, or a quick estimate for unscored projects
// @Tags insights
// @Produce  json
// @Success 200 {array} dto.ProjectRiskSummaryResponse
// @Router /insights/risk-scores [get]
func (h *insightHandler) getAllRiskScores(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summaries, err := h.riskService.GetAllRiskScores(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get risk scores", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get risk scores"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectRiskSummaryResponses(summaries))
}

// getRiskHistory godoc
// @Summary Get a project's risk history
// @Tags insights
// @Produce  json
// @Param   id path int true "Project ID"
// @Param   limit query int false "Max entries" default(20)
// @Success 200 {array} dto.RiskScoreResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Router /insights/projects/{id}/risk-history [get]
func (h *insightHandler) getRiskHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	history, err := h.riskService.GetRiskHistory(c.Request.Context(), projectID, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logger.Error("Failed to get risk history", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get risk history"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRiskScoreResponses(history))
}

// getProjectHealth godoc
// @Summary Get a project's health assessment
// @Tags insights
// @Produce  json
// @Param   id path int true "Project ID"
// @Success 200 {object} dto.ProjectHealthResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Router /insights/projects/{id}/health [get]
func (h *insightHandler) getProjectHealth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	health, err := h.riskService.ProjectHealth(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			logger.Error("Failed to assess project health", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assess project health"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectHealthResponse(health))
}

// getAllProjectsHealth godoc
// @Summary Get health assessments for all active projects
// @Tags insights
// @Produce  json
// @Success 200 {array} dto.ProjectHealthResponse
// @Router /insights/health [get]
func (h *insightHandler) getAllProjectsHealth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	assessments, err := h.riskService.AllProjectsHealth(c.Request.Context())
	if err != nil {
		logger.Error("Failed to assess projects health", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assess projects health"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectHealthResponses(assessments))
}

// getCashFlowForecast godoc
// @Summary Get the cash flow forecast
// @Description Projects upcoming months from a moving average of historical monthly net flows
// @Tags insights
// @Produce  json
// @Param   months query int false "Forecast horizon in months" default(3)
// @Success 200 {object} dto.CashFlowForecastResponse
// @Router /insights/cash-flow-forecast [get]
func (h *insightHandler) getCashFlowForecast(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	months := 0
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid months"})
			return
		}
		months = parsed
	}

	forecast, err := h.reportingService.CashFlowForecast(c.Request.Context(), time.Now().UTC(), months)
	if err != nil {
		logger.Error("Failed to build cash flow forecast", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build cash flow forecast"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCashFlowForecastResponse(forecast))
}
