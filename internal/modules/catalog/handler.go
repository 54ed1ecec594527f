package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"studiobooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studios", h.GetStudios)
	rg.GET("/studios/nearby", h.GetNearbyStudios)
	rg.GET("/studios/:id", h.GetStudio)
	rg.GET("/studios/:id/availability", h.GetAvailability)
}

// GetStudios lists active studios, optionally filtered by ?area=.
func (h *Handler) GetStudios(c *gin.Context) {
	var (
		studios interface{}
		err     error
	)
	if area := c.Query("area"); area != "" {
		studios, err = h.service.SearchByArea(c.Request.Context(), area)
	} else {
		studios, err = h.service.GetActiveStudios(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"studios": studios})
}

func (h *Handler) GetNearbyStudios(c *gin.Context) {
	var req NearbyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng query parameters are required")
		return
	}

	studios, err := h.service.FindNearby(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"studios": studios})
}

func (h *Handler) GetStudio(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	studio, err := h.service.GetStudio(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"studio": studio})
}

// GetAvailability returns the hour grid for ?date=2006-01-02 (default today).
func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	grid, err := h.service.DayAvailability(c.Request.Context(), id, date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": grid})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
