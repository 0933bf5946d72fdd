package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aerocrest/fbo-api/internal/application/service"
	"github.com/aerocrest/fbo-api/internal/domain/enum"
	"github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/request"
	"github.com/aerocrest/fbo-api/internal/presentation/http/dto/response"
	"github.com/aerocrest/fbo-api/pkg/pagination"
	"github.com/aerocrest/fbo-api/pkg/receiptprint"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	reportService  *service.ReportService
	fboName        string
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, reportService *service.ReportService, fboName string) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		reportService:  reportService,
		fboName:        fboName,
	}
}

// Create handles creating a new draft receipt
// @Summary Create draft receipt
// @Description Create a DRAFT receipt; omitted fields default (walk-in customer)
// @Tags receipts
// @Accept json
// @Produce json
// @Success 201 {object} response.APIResponse
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.CreateDraft(c.Request.Context(), &service.CreateDraftInput{
		CreatedByID:      *userID,
		CustomerID:       req.CustomerID,
		AircraftTypeID:   req.AircraftTypeID,
		TailNumber:       req.TailNumber,
		IsCAAMember:      req.IsCAAMember,
		FuelTypeID:       req.FuelTypeID,
		FuelQuantity:     req.FuelQuantity,
		FuelPricePerUnit: req.FuelPricePerUnit,
		Notes:            req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt draft created", receipt)
}

// Get handles retrieving a receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	param := c.Param("id")

	// A non-UUID parameter is treated as a receipt number, so the counter
	// can pull up "R-2026-0042" straight off a printed copy.
	id, err := uuid.Parse(param)
	if err != nil {
		receipt, err := h.receiptService.GetReceiptByNumber(c.Request.Context(), param)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Receipt retrieved successfully", receipt)
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// List handles listing receipts with filters
func (h *ReceiptHandler) List(c *gin.Context) {
	params, err := parseReceiptFilters(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Update handles patching a draft receipt
func (h *ReceiptHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.UpdateDraft(c.Request.Context(), id, &service.UpdateDraftInput{
		CustomerID:       req.CustomerID,
		AircraftTypeID:   req.AircraftTypeID,
		TailNumber:       req.TailNumber,
		IsCAAMember:      req.IsCAAMember,
		FuelTypeID:       req.FuelTypeID,
		FuelQuantity:     req.FuelQuantity,
		FuelPricePerUnit: req.FuelPricePerUnit,
		Notes:            req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt updated successfully", receipt)
}

// CalculateFees replaces the receipt's fee set and recomputes line items
func (h *ReceiptHandler) CalculateFees(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.CalculateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fees := make([]service.FeeInput, 0, len(req.Fees))
	for _, f := range req.Fees {
		fees = append(fees, service.FeeInput{FeeCode: f.FeeCode, Quantity: f.Quantity})
	}

	receipt, err := h.receiptService.RecalculateFees(c.Request.Context(), id, fees)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fees calculated successfully", receipt)
}

// ToggleWaiver flips the waiver state for a fee line item
func (h *ReceiptHandler) ToggleWaiver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}
	lineItemID, err := uuid.Parse(c.Param("line_item_id"))
	if err != nil {
		response.BadRequest(c, "Invalid line item ID")
		return
	}

	receipt, err := h.receiptService.ToggleWaiver(c.Request.Context(), id, lineItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Waiver toggled successfully", receipt)
}

// Generate transitions the draft to GENERATED and assigns the receipt number
func (h *ReceiptHandler) Generate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.Generate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated successfully", receipt)
}

// MarkPaid transitions a GENERATED receipt to PAID
func (h *ReceiptHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.MarkPaid(c.Request.Context(), id, req.PaymentMethod)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt marked as paid", receipt)
}

// Void transitions a GENERATED or PAID receipt to VOID
func (h *ReceiptHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.VoidReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.Void(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voided", receipt)
}

// Delete removes a DRAFT receipt
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.DeleteDraft(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Print renders the receipt as fixed-width plain text
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(200, receiptprint.RenderReceipt(h.fboName, receipt))
}

// Export streams receipts matching the filters as a CSV download
func (h *ReceiptHandler) Export(c *gin.Context) {
	params, err := parseReceiptFilters(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filename := fmt.Sprintf("receipts-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.reportService.ExportReceiptsCSV(c.Request.Context(), params, c.Writer); err != nil {
		// Headers may already be written; nothing more to do than abort.
		c.Abort()
	}
}

// parseReceiptFilters reads list/export query parameters
func parseReceiptFilters(c *gin.Context) (*repository.ReceiptFilterParams, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := enum.ParseReceiptStatus(statusStr)
		if err != nil {
			return nil, err
		}
		params.Status = &status
	}
	if customerStr := c.Query("customer_id"); customerStr != "" {
		customerID, err := uuid.Parse(customerStr)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id")
		}
		params.CustomerID = &customerID
	}
	if startStr := c.Query("start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
		}
		params.StartDate = &start
	}
	if endStr := c.Query("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date, expected YYYY-MM-DD")
		}
		// Inclusive end date.
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	return params, nil
}
