package booking

import (
	"errors"
	"net/http"
	"strconv"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/response"
	"studiobooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the authenticated booking endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.GetBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/bookings/reference/:ref", h.GetBookingByReference)
	rg.GET("/bookings/user/:email", h.GetBookingsByUser)
	rg.GET("/bookings/studio/:studioId", h.GetBookingsByStudio)
	rg.POST("/bookings", h.CreateBooking)
	rg.PUT("/bookings/:id", h.UpdateBooking)
	rg.POST("/bookings/:id/confirm", h.ConfirmBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/complete", h.CompleteBooking)
	rg.DELETE("/bookings/:id", h.DeleteBooking)
}

// RegisterPublicRoutes mounts the endpoints that need no token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/check-availability", h.CheckAvailability)
}

func (h *Handler) GetBookings(c *gin.Context) {
	bookings, err := h.service.GetAllBookings(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetBookingByReference(c *gin.Context) {
	b, err := h.service.GetBookingByReference(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetBookingsByUser(c *gin.Context) {
	bookings, err := h.service.GetBookingsByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetBookingsByStudio(c *gin.Context) {
	studioID, ok := pathID(c, "studioId")
	if !ok {
		return
	}

	bookings, err := h.service.GetBookingsByStudio(c.Request.Context(), studioID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": result})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validator.Validate(req); details != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if details := validator.Validate(req); details != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	confirmation, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"confirmation": confirmation})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteBooking(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !deleted {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, domain.ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStudioNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
