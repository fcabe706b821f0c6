package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"carservice/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/branches", h.GetBranches)
	rg.GET("/branches/:id", h.GetBranchByID)
	rg.GET("/services", h.GetServices)
}

// RegisterStaffRoutes mounts schedule editing; the group must already enforce
// a staff role.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.PUT("/branches/:id/schedules/:day", h.SetSchedule)
	rg.DELETE("/branches/:id/schedules/:day", h.CloseDay)
}

// GetBranches handles GET /api/v1/branches
func (h *Handler) GetBranches(c *gin.Context) {
	branches, err := h.service.ListBranches(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, toBranchResponse(b))
	}
	response.Success(c, http.StatusOK, gin.H{"branches": out})
}

// GetBranchByID handles GET /api/v1/branches/:id
func (h *Handler) GetBranchByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid branch ID")
		return
	}

	b, err := h.service.GetBranch(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"branch": toBranchResponse(*b)})
}

// GetServices handles GET /api/v1/services
func (h *Handler) GetServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) SetSchedule(c *gin.Context) {
	branchID, day, ok := scheduleParams(c)
	if !ok {
		return
	}

	var req SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	s, err := h.service.SetSchedule(c.Request.Context(), branchID, day, req.OpenTime, req.CloseTime)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schedule": toScheduleResponse(*s)})
}

func (h *Handler) CloseDay(c *gin.Context) {
	branchID, day, ok := scheduleParams(c)
	if !ok {
		return
	}

	if err := h.service.CloseDay(c.Request.Context(), branchID, day); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"closed": true})
}

func scheduleParams(c *gin.Context) (int64, int, bool) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid branch ID")
		return 0, 0, false
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "day must be a number 0..6")
		return 0, 0, false
	}
	return branchID, day, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBranchNotFound), errors.Is(err, ErrScheduleNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidSchedule):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
