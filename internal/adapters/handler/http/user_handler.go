package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/f2re/diplom-monitor/internal/adapters/handler/http/middleware"
	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/services"
)

type UserHandler struct {
	service *services.AuthService
}

func NewUserHandler(service *services.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/me", h.Me)
		users.PUT("/me", h.UpdateMe)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	FullName  *string      `json:"full_name"`
	Emoji     *string      `json:"emoji"`
	StartDate *domain.Date `json:"start_date"`
	Deadline  *domain.Date `json:"deadline"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		FullName:  req.FullName,
		Emoji:     req.Emoji,
		StartDate: req.StartDate,
		Deadline:  req.Deadline,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmojiAlreadyTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "emoji already taken"})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
