package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	directoryapp "github.com/profman23/fluffnwoof-sub005/internal/application/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/directory"
	"github.com/profman23/fluffnwoof-sub005/internal/interfaces/http/dto"
)

// OwnerHandler handles pet-owner API endpoints
type OwnerHandler struct {
	BaseHandler
	registryService *directoryapp.RegistryService
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(registryService *directoryapp.RegistryService) *OwnerHandler {
	return &OwnerHandler{registryService: registryService}
}

// RegisterOwnerRequest represents a request to register a new owner.
// The owner code is assigned by the server and cannot be supplied.
type RegisterOwnerRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100" example:"Maria"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100" example:"Garcia"`
	Phone     string `json:"phone" binding:"max=30" example:"+34600111222"`
	Email     string `json:"email" binding:"omitempty,email,max=255" example:"maria@example.com"`
}

// OwnerResponse represents an owner in responses
type OwnerResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOwnerResponse(owner *directory.Owner) OwnerResponse {
	return OwnerResponse{
		ID:        owner.ID.String(),
		Code:      owner.Code,
		FirstName: owner.FirstName,
		LastName:  owner.LastName,
		Phone:     owner.Phone,
		Email:     owner.Email,
		Address:   owner.Address,
		Status:    string(owner.Status),
		Notes:     owner.Notes,
		CreatedAt: owner.CreatedAt,
		UpdatedAt: owner.UpdatedAt,
	}
}

// Register godoc
// @ID           registerOwner
// @Summary      Register a new owner
// @Description  Registers an owner with a server-assigned sequential code
// @Tags         owners
// @Accept       json
// @Produce      json
// @Param        request body RegisterOwnerRequest true "Owner registration request"
// @Success      201 {object} APIResponse[OwnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /directory/owners [post]
func (h *OwnerHandler) Register(c *gin.Context) {
	var req RegisterOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	owner, err := h.registryService.RegisterOwner(c.Request.Context(), directoryapp.RegisterOwnerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOwnerResponse(owner))
}

// GetByID godoc
// @ID           getOwner
// @Summary      Get an owner
// @Tags         owners
// @Produce      json
// @Param        id path string true "Owner ID"
// @Success      200 {object} APIResponse[OwnerResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /directory/owners/{id} [get]
func (h *OwnerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	owner, err := h.registryService.GetOwner(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOwnerResponse(owner))
}

// List godoc
// @ID           listOwners
// @Summary      List owners
// @Tags         owners
// @Produce      json
// @Param        search query string false "Keyword matched against name, phone and code"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]OwnerResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /directory/owners [get]
func (h *OwnerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	owners, total, err := h.registryService.ListOwners(c.Request.Context(), req.Search, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OwnerResponse, len(owners))
	for i := range owners {
		responses[i] = toOwnerResponse(&owners[i])
	}

	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// ListPatients godoc
// @ID           listOwnerPatients
// @Summary      List an owner's patients
// @Tags         owners
// @Produce      json
// @Param        id path string true "Owner ID"
// @Success      200 {object} APIResponse[[]PatientResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /directory/owners/{id}/patients [get]
func (h *OwnerHandler) ListPatients(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	patients, err := h.registryService.ListPatientsByOwner(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PatientResponse, len(patients))
	for i := range patients {
		responses[i] = toPatientResponse(&patients[i])
	}

	h.Success(c, responses)
}
