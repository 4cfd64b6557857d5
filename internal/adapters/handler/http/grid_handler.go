package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/f2re/diplom-monitor/internal/adapters/handler/http/middleware"
	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/services"
)

type GridHandler struct {
	svc *services.GridService
}

func NewGridHandler(svc *services.GridService) *GridHandler {
	return &GridHandler{svc: svc}
}

// RegisterRoutes mounts the grid API. The config endpoint stays public so
// an unauthenticated client can still render the empty grid; everything
// else goes behind auth.
func (h *GridHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/grid/config", h.GetConfig)

	grid := protected.Group("/grid")
	{
		grid.GET("/weeks", h.GetOwnWeeks)
		grid.GET("/weeks/:userId", h.GetUserWeeks)
		grid.POST("/weeks", h.UpsertWeek)
		grid.GET("/stats/:userId", h.GetStats)
		grid.GET("/special-periods", h.GetOwnPeriods)
		grid.GET("/special-periods/:userId", h.GetUserPeriods)
		grid.POST("/special-periods", h.CreatePeriod)
		grid.DELETE("/special-periods/:id", h.DeletePeriod)
		grid.GET("/all-progress", h.GetAllProgress)
	}
}

func (h *GridHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Config())
}

func (h *GridHandler) GetOwnWeeks(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	h.listWeeks(c, userID)
}

func (h *GridHandler) GetUserWeeks(c *gin.Context) {
	h.listWeeks(c, c.Param("userId"))
}

func (h *GridHandler) listWeeks(c *gin.Context, userID string) {
	weeks, err := h.svc.Weeks(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, weeks)
}

type upsertWeekRequest struct {
	WeekStartDate domain.Date `json:"week_start_date"`
	IsCompleted   bool        `json:"is_completed"`
	Note          string      `json:"note"`
}

func (h *GridHandler) UpsertWeek(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	var req upsertWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rec, err := h.svc.UpsertWeek(c.Request.Context(), services.UpsertWeekInput{
		UserID:        userID,
		WeekStartDate: req.WeekStartDate,
		IsCompleted:   req.IsCompleted,
		Note:          req.Note,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *GridHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *GridHandler) GetOwnPeriods(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	h.listPeriods(c, userID)
}

func (h *GridHandler) GetUserPeriods(c *gin.Context) {
	h.listPeriods(c, c.Param("userId"))
}

func (h *GridHandler) listPeriods(c *gin.Context, userID string) {
	periods, err := h.svc.Periods(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, periods)
}

type createPeriodRequest struct {
	UserID      string      `json:"user_id"`
	StartDate   domain.Date `json:"start_date"`
	EndDate     domain.Date `json:"end_date"`
	PeriodType  string      `json:"period_type"`
	Description string      `json:"description"`
}

func (h *GridHandler) CreatePeriod(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	var req createPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	// Periods are always created for the caller, never for someone else.
	period, err := h.svc.CreatePeriod(c.Request.Context(), services.CreatePeriodInput{
		UserID:      userID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		PeriodType:  req.PeriodType,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, period)
}

func (h *GridHandler) DeletePeriod(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	if err := h.svc.DeletePeriod(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *GridHandler) GetAllProgress(c *gin.Context) {
	progress, err := h.svc.AllProgress(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotCurrentWeek) || errors.Is(err, domain.ErrPeriodForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrWeekNotFound) ||
		errors.Is(err, domain.ErrPeriodNotFound) ||
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrWeekDateRequired) ||
		errors.Is(err, domain.ErrWeekNoteTooLong) ||
		errors.Is(err, domain.ErrPeriodDatesRequired) ||
		errors.Is(err, domain.ErrPeriodInverted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrEmojiAlreadyTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
