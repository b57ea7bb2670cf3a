package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/service"
)

// MedicationHandler serves medications and their intakes
type MedicationHandler struct {
	medicationService service.MedicationService
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(medicationService service.MedicationService) *MedicationHandler {
	return &MedicationHandler{
		medicationService: medicationService,
	}
}

// CreateMedication handles POST /api/v1/medications
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req models.CreateMedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	medication, err := h.medicationService.CreateMedication(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err, "medication.create", "Medication", req.ID)
		return
	}

	c.JSON(http.StatusCreated, medication)
}

// GetMedication handles GET /api/v1/medications/:id
func (h *MedicationHandler) GetMedication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	medication, err := h.medicationService.GetMedication(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "medication.get", "Medication", id)
		return
	}

	c.JSON(http.StatusOK, medication)
}

// ListMedications handles GET /api/v1/medications
func (h *MedicationHandler) ListMedications(c *gin.Context) {
	medications, err := h.medicationService.ListMedications(c.Request.Context())
	if err != nil {
		writeError(c, err, "medication.list", "Medication", "")
		return
	}

	c.JSON(http.StatusOK, medications)
}

// CreateIntake handles POST /api/v1/medication-intakes
func (h *MedicationHandler) CreateIntake(c *gin.Context) {
	var req models.CreateMedicationIntakeRequest
	if !bindJSON(c, &req) {
		return
	}

	intake, err := h.medicationService.CreateIntake(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err, "intake.create", "Medication intake", req.ID)
		return
	}

	c.JSON(http.StatusCreated, intake)
}

// GetIntake handles GET /api/v1/medication-intakes/:id
func (h *MedicationHandler) GetIntake(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	intake, err := h.medicationService.GetIntake(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "intake.get", "Medication intake", id)
		return
	}

	c.JSON(http.StatusOK, intake)
}

// ListIntakes handles GET /api/v1/medication-intakes?start=&end=
func (h *MedicationHandler) ListIntakes(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	start, end = defaultRange(start, end)

	intakes, err := h.medicationService.ListIntakes(c.Request.Context(), start, end)
	if err != nil {
		writeRangeError(c, err, "intake.list", start, end)
		return
	}

	if intakes == nil {
		intakes = []models.MedicationIntake{}
	}
	c.JSON(http.StatusOK, intakes)
}

// UpdateIntake handles PATCH /api/v1/medication-intakes/:id
func (h *MedicationHandler) UpdateIntake(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateMedicationIntakeRequest
	if !bindJSON(c, &req) {
		return
	}

	intake, err := h.medicationService.UpdateIntake(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err, "intake.update", "Medication intake", id)
		return
	}

	c.JSON(http.StatusOK, intake)
}

// DeleteIntake handles DELETE /api/v1/medication-intakes/:id
func (h *MedicationHandler) DeleteIntake(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.medicationService.DeleteIntake(c.Request.Context(), id); err != nil {
		writeError(c, err, "intake.delete", "Medication intake", id)
		return
	}

	c.Status(http.StatusNoContent)
}
