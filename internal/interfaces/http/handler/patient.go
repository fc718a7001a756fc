package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	directoryapp "github.com/profman23/fluffnwoof-sub005/internal/application/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
)

// PatientHandler handles patient API endpoints
type PatientHandler struct {
	BaseHandler
	registryService *directoryapp.RegistryService
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(registryService *directoryapp.RegistryService) *PatientHandler {
	return &PatientHandler{registryService: registryService}
}

// RegisterPatientRequest represents a request to register a new patient.
// The patient code is assigned by the server and cannot be supplied.
type RegisterPatientRequest struct {
	OwnerID   string     `json:"owner_id" binding:"required,uuid"`
	Name      string     `json:"name" binding:"required,min=1,max=100" example:"Luna"`
	Species   string     `json:"species" binding:"required,min=1,max=50" example:"Dog"`
	Breed     string     `json:"breed" binding:"max=100" example:"Beagle"`
	BirthDate *time.Time `json:"birth_date"`
}

// PatientResponse represents a patient in responses
type PatientResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toPatientResponse(patient *directory.Patient) PatientResponse {
	return PatientResponse{
		ID:        patient.ID.String(),
		Code:      patient.Code,
		OwnerID:   patient.OwnerID.String(),
		Name:      patient.Name,
		Species:   patient.Species,
		Breed:     patient.Breed,
		BirthDate: patient.BirthDate,
		Status:    string(patient.Status),
		Notes:     patient.Notes,
		CreatedAt: patient.CreatedAt,
		UpdatedAt: patient.UpdatedAt,
	}
}

// Register godoc
// @ID           registerPatient
// @Summary      Register a new patient
// @Description  Registers a patient with a server-assigned sequential code
// @Tags         patients
// @Accept       json
// @Produce      json
// @Param        request body RegisterPatientRequest true "Patient registration request"
// @Success      201 {object} APIResponse[PatientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /directory/patients [post]
func (h *PatientHandler) Register(c *gin.Context) {
	var req RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	patient, err := h.registryService.RegisterPatient(c.Request.Context(), directoryapp.RegisterPatientInput{
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPatientResponse(patient))
}

// GetByID godoc
// @ID           getPatient
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} APIResponse[PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /directory/patients/{id} [get]
func (h *PatientHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	patient, err := h.registryService.GetPatient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPatientResponse(patient))
}
