package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/profman23/fluffnwoof-sub005/internal/application/billing"
	"github.com/profman23/fluffnwoof-sub005/internal/domain/billing"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceItemRequest represents one billable line at creation time
type CreateInvoiceItemRequest struct {
	Description     string  `json:"description" binding:"required,min=1,max=500" example:"Rabies vaccination"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0" example:"1"`
	UnitPrice       float64 `json:"unit_price" binding:"gte=0" example:"45.00"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lte=100" example:"0"`
}

// CreateInvoiceRequest represents a request to open a new invoice.
// The invoice number is assigned by the server and cannot be supplied.
type CreateInvoiceRequest struct {
	OwnerID       string                     `json:"owner_id" binding:"required,uuid"`
	AppointmentID *string                    `json:"appointment_id" binding:"omitempty,uuid"`
	DueDate       *time.Time                 `json:"due_date"`
	Notes         string                     `json:"notes" binding:"max=2000"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateItemRequest represents a partial invoice line update
type UpdateItemRequest struct {
	Description     *string  `json:"description" binding:"omitempty,min=1,max=500"`
	Quantity        *float64 `json:"quantity" binding:"omitempty,gt=0"`
	UnitPrice       *float64 `json:"unit_price" binding:"omitempty,gte=0"`
	DiscountPercent *float64 `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
}

// AddPaymentRequest represents a request to record a payment
type AddPaymentRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0" example:"100.00"`
	Method      string     `json:"method" binding:"required,oneof=CASH CARD TRANSFER INSURANCE OTHER" example:"CASH"`
	Notes       string     `json:"notes" binding:"max=2000"`
	PaymentDate *time.Time `json:"payment_date"`
}

// UpdateNotesRequest represents a request to update invoice notes
type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// ListInvoicesRequest represents invoice list query parameters
type ListInvoicesRequest struct {
	OwnerID  string `form:"owner_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PARTIALLY_PAID PAID"`
	DueFrom  string `form:"due_from" binding:"omitempty,datetime=2006-01-02"`
	DueTo    string `form:"due_to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvoiceItemResponse represents an invoice line in responses
type InvoiceItemResponse struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	Quantity        string `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	DiscountPercent string `json:"discount_percent"`
	TotalPrice      string `json:"total_price"`
}

// PaymentResponse represents a payment in responses
type PaymentResponse struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Method      string    `json:"method"`
	Notes       string    `json:"notes,omitempty"`
	PaymentDate time.Time `json:"payment_date"`
}

// InvoiceResponse represents an invoice in responses
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	OwnerID       string                `json:"owner_id"`
	AppointmentID *string               `json:"appointment_id,omitempty"`
	DueDate       time.Time             `json:"due_date"`
	TotalAmount   string                `json:"total_amount"`
	PaidAmount    string                `json:"paid_amount"`
	Outstanding   string                `json:"outstanding_amount"`
	Status        string                `json:"status"`
	IsFinalized   bool                  `json:"is_finalized"`
	FinalizedAt   *time.Time            `json:"finalized_at,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:              item.ID.String(),
			Description:     item.Description,
			Quantity:        item.Quantity.String(),
			UnitPrice:       item.UnitPrice.String(),
			DiscountPercent: item.DiscountPercent.String(),
			TotalPrice:      item.TotalPrice.String(),
		}
	}

	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			ID:          p.ID.String(),
			Amount:      p.Amount.String(),
			Method:      string(p.Method),
			Notes:       p.Notes,
			PaymentDate: p.PaymentDate,
		}
	}

	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		OwnerID:       inv.OwnerID.String(),
		DueDate:       inv.DueDate,
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		Outstanding:   inv.OutstandingAmount().StringFixed(2),
		Status:        string(inv.Status),
		IsFinalized:   inv.IsFinalized,
		FinalizedAt:   inv.FinalizedAt,
		Notes:         inv.Notes,
		Items:         items,
		Payments:      payments,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.AppointmentID != nil {
		id := inv.AppointmentID.String()
		resp.AppointmentID = &id
	}
	return resp
}

// Create godoc
// @ID           createInvoice
// @Summary      Create a new invoice
// @Description  Opens a new invoice with a server-assigned invoice number
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /billing/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	input := billingapp.CreateInvoiceInput{
		OwnerID: ownerID,
		DueDate: req.DueDate,
		Notes:   req.Notes,
	}
	if req.AppointmentID != nil {
		appointmentID, err := uuid.Parse(*req.AppointmentID)
		if err != nil {
			h.BadRequest(c, "Invalid appointment ID")
			return
		}
		input.AppointmentID = &appointmentID
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, billingapp.CreateInvoiceItemInput{
			Description:     item.Description,
			Quantity:        decimal.NewFromFloat(item.Quantity),
			UnitPrice:       decimal.NewFromFloat(item.UnitPrice),
			DiscountPercent: decimal.NewFromFloat(item.DiscountPercent),
		})
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toInvoiceResponse(invoice))
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /billing/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// GetByAppointment godoc
// @ID           getInvoiceByAppointment
// @Summary      Get the invoice linked to an appointment
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /billing/appointments/{id}/invoice [get]
func (h *InvoiceHandler) GetByAppointment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByAppointmentID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        owner_id query string false "Filter by owner"
// @Param        status query string false "Filter by status" Enums(PENDING, PARTIALLY_PAID, PAID)
// @Param        due_from query string false "Due date lower bound (YYYY-MM-DD)"
// @Param        due_to query string false "Due date upper bound (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /billing/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	input := billingapp.ListInvoicesInput{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.OwnerID != "" {
		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID")
			return
		}
		input.OwnerID = &ownerID
	}
	if req.Status != "" {
		status := billing.InvoiceStatus(req.Status)
		input.Status = &status
	}
	if req.DueFrom != "" {
		from, _ := time.Parse("2006-01-02", req.DueFrom)
		input.DueFrom = &from
	}
	if req.DueTo != "" {
		to, _ := time.Parse("2006-01-02", req.DueTo)
		end := to.Add(24*time.Hour - time.Nanosecond)
		input.DueTo = &end
	}

	list, err := h.invoiceService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, len(list.Invoices))
	for i := range list.Invoices {
		responses[i] = toInvoiceResponse(&list.Invoices[i])
	}

	h.SuccessWithMeta(c, responses, list.Total, req.Page, req.PageSize)
}

// AddItem godoc
// @ID           addInvoiceItem
// @Summary      Add a line to an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body CreateInvoiceItemRequest true "Item to add"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req CreateInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), id, billingapp.CreateInvoiceItemInput{
		Description:     req.Description,
		Quantity:        decimal.NewFromFloat(req.Quantity),
		UnitPrice:       decimal.NewFromFloat(req.UnitPrice),
		DiscountPercent: decimal.NewFromFloat(req.DiscountPercent),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// UpdateItem godoc
// @ID           updateInvoiceItem
// @Summary      Update an invoice line
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        item_id path string true "Item ID"
// @Param        request body UpdateItemRequest true "Fields to update"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/items/{item_id} [put]
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "item_id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := billingapp.UpdateItemInput{Description: req.Description}
	if req.Quantity != nil {
		qty := decimal.NewFromFloat(*req.Quantity)
		input.Quantity = &qty
	}
	if req.UnitPrice != nil {
		price := decimal.NewFromFloat(*req.UnitPrice)
		input.UnitPrice = &price
	}
	if req.DiscountPercent != nil {
		disc := decimal.NewFromFloat(*req.DiscountPercent)
		input.DiscountPercent = &disc
	}

	invoice, err := h.invoiceService.UpdateItem(c.Request.Context(), id, itemID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// RemoveItem godoc
// @ID           removeInvoiceItem
// @Summary      Remove an invoice line
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        item_id path string true "Item ID"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/items/{item_id} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "item_id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// AddPayment godoc
// @ID           addInvoicePayment
// @Summary      Record a payment against an invoice
// @Description  Rejects payments that would exceed the outstanding balance
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body AddPaymentRequest true "Payment to record"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/payments [post]
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.AddPayment(c.Request.Context(), id, billingapp.AddPaymentInput{
		Amount:      decimal.NewFromFloat(req.Amount),
		Method:      billing.PaymentMethod(req.Method),
		Notes:       req.Notes,
		PaymentDate: req.PaymentDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// RemovePayment godoc
// @ID           removeInvoicePayment
// @Summary      Remove a recorded payment
// @Description  The payment row is retained as history and keeps blocking invoice deletion
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        payment_id path string true "Payment ID"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/payments/{payment_id} [delete]
func (h *InvoiceHandler) RemovePayment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.parseID(c, "payment_id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RemovePayment(c.Request.Context(), id, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// Finalize godoc
// @ID           finalizeInvoice
// @Summary      Finalize an invoice
// @Description  Locks the invoice against further mutation and completes the linked appointment
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/finalize [post]
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// UpdateNotes godoc
// @ID           updateInvoiceNotes
// @Summary      Update invoice notes
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body UpdateNotesRequest true "New notes"
// @Success      200 {object} APIResponse[InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /billing/invoices/{id}/notes [put]
func (h *InvoiceHandler) UpdateNotes(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toInvoiceResponse(invoice))
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Description  Refused when the invoice has any payment history
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /billing/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
