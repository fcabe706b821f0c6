package account

import (
	"errors"
	"net/http"

	"carservice/internal/pkg/response"
	"carservice/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)

	vehicles := protected.Group("/vehicles")
	{
		vehicles.GET("/me", h.GetMyVehicles)
		vehicles.POST("", h.AddVehicle)
	}
}

// GetMe returns the authenticated user's profile.
// @Summary  Current user profile
// @Tags     Account
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Failure  404 {object} map[string]interface{}
// @Router   /users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	u, err := h.service.GetMe(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// GetMyVehicles lists the caller's vehicles.
// @Summary  My vehicles
// @Tags     Account
// @Security BearerAuth
// @Router   /vehicles/me [GET]
func (h *Handler) GetMyVehicles(c *gin.Context) {
	vehicles, err := h.service.ListVehicles(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load vehicles")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

// AddVehicle registers a vehicle for the caller.
// @Summary  Register vehicle
// @Tags     Account
// @Security BearerAuth
// @Param    request body AddVehicleRequest true "Vehicle"
// @Success  201 {object} map[string]interface{}
// @Failure  400 {object} map[string]interface{}
// @Router   /vehicles [POST]
func (h *Handler) AddVehicle(c *gin.Context) {
	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	v, err := h.service.AddVehicle(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add vehicle")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"vehicle": v})
}
