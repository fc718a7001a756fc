package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	schedulingapp "github.com/profman23/fluffnwoof-sub005/internal/application/scheduling"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/scheduling"
)

// AppointmentHandler handles appointment API endpoints
type AppointmentHandler struct {
	BaseHandler
	appointmentService *schedulingapp.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService *schedulingapp.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// ScheduleAppointmentRequest represents a request to book an appointment
type ScheduleAppointmentRequest struct {
	PatientID   string    `json:"patient_id" binding:"required,uuid"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Reason      string    `json:"reason" binding:"max=2000" example:"Annual checkup"`
}

// AppointmentResponse represents an appointment in responses
type AppointmentResponse struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patient_id"`
	OwnerID     string     `json:"owner_id"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID.String(),
		PatientID:   a.PatientID.String(),
		OwnerID:     a.OwnerID.String(),
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      string(a.Status),
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Schedule godoc
// @ID           scheduleAppointment
// @Summary      Book a new appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        request body ScheduleAppointmentRequest true "Appointment request"
// @Success      201 {object} APIResponse[AppointmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /scheduling/appointments [post]
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	var req ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		h.BadRequest(c, "Invalid patient ID")
		return
	}

	appointment, err := h.appointmentService.Schedule(c.Request.Context(), schedulingapp.ScheduleAppointmentInput{
		PatientID:   patientID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAppointmentResponse(appointment))
}

// GetByID godoc
// @ID           getAppointment
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} APIResponse[AppointmentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /scheduling/appointments/{id} [get]
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAppointmentResponse(appointment))
}

// ListByPatient godoc
// @ID           listPatientAppointments
// @Summary      List a patient's appointments
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Patient ID"
// @Success      200 {object} APIResponse[[]AppointmentResponse]
// @Router       /scheduling/patients/{id}/appointments [get]
func (h *AppointmentHandler) ListByPatient(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	appointments, err := h.appointmentService.ListByPatient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = toAppointmentResponse(&appointments[i])
	}

	h.Success(c, responses)
}

// Start godoc
// @ID           startAppointment
// @Summary      Mark an appointment as in progress
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} APIResponse[AppointmentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /scheduling/appointments/{id}/start [post]
func (h *AppointmentHandler) Start(c *gin.Context) {
	h.transition(c, h.appointmentService.Start)
}

// Cancel godoc
// @ID           cancelAppointment
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} APIResponse[AppointmentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /scheduling/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.appointmentService.Cancel)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error),
) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	appointment, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAppointmentResponse(appointment))
}
