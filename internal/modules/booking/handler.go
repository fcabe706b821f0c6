package booking

import (
	"errors"
	"net/http"
	"strconv"

	"carservice/internal/domain"
	"carservice/internal/pkg/response"
	"carservice/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the routes that need no token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/time-slots", h.GetTimeSlots)
	rg.GET("/branches/:id/available-times", h.GetAvailableTimes)
}

// RegisterRoutes mounts the authenticated routes. staff guards the
// branch-level listing.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, staff gin.HandlerFunc) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/me", h.GetMyAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
		appointments.PATCH("/:id/technician", staff, h.AssignTechnician)
	}
	rg.GET("/branches/:id/appointments", staff, h.GetBranchAppointments)
}

func (h *Handler) GetTimeSlots(c *gin.Context) {
	slots := h.service.TimeSlots()
	out := make([]TimeSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeSlotResponse{
			Start:   s.StartClock(),
			End:     s.EndClock(),
			Display: s.Display,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"time_slots": out})
}

func (h *Handler) GetAvailableTimes(c *gin.Context) {
	branchID, ok := paramID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}

	times, err := h.service.AvailableTimes(c.Request.Context(), branchID, date)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, AvailableTimesResponse{
		BranchID: branchID,
		Date:     date,
		Times:    times,
	})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}
	req.UserID = actorFrom(c).UserID

	a, err := h.service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"appointment": gin.H{
			"id":     a.ID,
			"status": a.Status,
			"date":   a.Date,
			"time":   a.Time,
		},
	})
}

func (h *Handler) GetMyAppointments(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageLimit)
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	page := queryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}

	items, err := h.service.ListMyAppointments(c.Request.Context(), actorFrom(c).UserID, limit, (page-1)*limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, items, page, limit)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetAppointment(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) GetBranchAppointments(c *gin.Context) {
	branchID, ok := paramID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListBranchAppointments(c.Request.Context(), branchID, c.Query("date"), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": items})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), id, actorFrom(c), domain.AppointmentStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) AssignTechnician(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.AssignTechnician(c.Request.Context(), id, actorFrom(c), req.TechnicianID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// writeError maps a service error to its HTTP status and error code. Storage
// details never reach the client.
func writeError(c *gin.Context, err error) {
	var unknown *UnknownServicesError
	switch {
	case errors.As(err, &unknown):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Some services do not exist",
			gin.H{"unknown_service_ids": unknown.IDs})
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetInt64("user_id"),
		Role:   domain.UserRole(c.GetString("role")),
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
