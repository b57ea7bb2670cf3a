package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/service"
)

type ObservationHandler struct {
	observationService service.ObservationService
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(observationService service.ObservationService) *ObservationHandler {
	return &ObservationHandler{
		observationService: observationService,
	}
}

// CreateObservation handles POST /api/v1/observations
func (h *ObservationHandler) CreateObservation(c *gin.Context) {
	var req models.CreateObservationRequest
	if !bindJSON(c, &req) {
		return
	}

	observation, err := h.observationService.CreateObservation(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err, "observation.create", "Observation", req.ID)
		return
	}

	c.JSON(http.StatusCreated, observation)
}

// GetObservation handles GET /api/v1/observations/:id
func (h *ObservationHandler) GetObservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	observation, err := h.observationService.GetObservation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "observation.get", "Observation", id)
		return
	}

	c.JSON(http.StatusOK, observation)
}

// ListObservations handles GET /api/v1/observations?start=&end=
// Without a range it lists the trailing 7 days.
func (h *ObservationHandler) ListObservations(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	start, end = defaultRange(start, end)

	observations, err := h.observationService.ListObservations(c.Request.Context(), start, end)
	if err != nil {
		writeRangeError(c, err, "observation.list", start, end)
		return
	}

	if observations == nil {
		observations = []models.Observation{}
	}
	c.JSON(http.StatusOK, observations)
}

// UpdateObservation handles PATCH /api/v1/observations/:id
func (h *ObservationHandler) UpdateObservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateObservationRequest
	if !bindJSON(c, &req) {
		return
	}

	observation, err := h.observationService.UpdateObservation(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err, "observation.update", "Observation", id)
		return
	}

	c.JSON(http.StatusOK, observation)
}

// DeleteObservation handles DELETE /api/v1/observations/:id
func (h *ObservationHandler) DeleteObservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.observationService.DeleteObservation(c.Request.Context(), id); err != nil {
		writeError(c, err, "observation.delete", "Observation", id)
		return
	}

	c.Status(http.StatusNoContent)
}
