package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"finboard/dashboard/internal/models"
	"finboard/dashboard/internal/pagination"
	"finboard/dashboard/internal/services"
)

// IPathCache is the slice of the path cache the listing handler needs.
type IPathCache interface {
	Get(ctx context.Context, path string) ([]byte, bool)
	Set(ctx context.Context, path string, body []byte) error
}

// InvoiceHandler handles REST requests for invoices.
type InvoiceHandler struct {
	invoiceService services.IInvoiceService
	pathCache      IPathCache
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.IInvoiceService, pathCache IPathCache) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		pathCache:      pathCache,
	}
}

// invoiceListResponse is the payload of the invoices listing.
type invoiceListResponse struct {
	Data       []models.InvoiceRow `json:"data"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Pagination []string            `json:"pagination"`
}

// ListInvoices handles GET /v1/dashboard/invoices?query=&page=
// Responses are cached per query-string variant; invoice mutations drop every
// variant at once.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	// Cache under the canonical listing path so mutation-triggered
	// invalidation of that path prefix hits every variant.
	cacheKey := services.InvoicesPath
	if c.Request.URL.RawQuery != "" {
		cacheKey += "?" + c.Request.URL.RawQuery
	}
	if body, ok := h.pathCache.Get(ctx, cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	query := c.Query("query")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	totalPages, err := h.invoiceService.TotalPages(ctx, query)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoices"})
		return
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	rows, err := h.invoiceService.Filtered(ctx, query, page)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoices"})
		return
	}
	if rows == nil {
		rows = []models.InvoiceRow{}
	}

	labels := []string{}
	if totalPages > 0 {
		labels = pagination.Labels(page, totalPages)
	}

	resp := invoiceListResponse{
		Data:       rows,
		Page:       page,
		TotalPages: totalPages,
		Pagination: labels,
	}
	body, err := json.Marshal(resp)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoices"})
		return
	}

	if err := h.pathCache.Set(ctx, cacheKey, body); err != nil {
		log.Printf("Failed to cache %s: %v", cacheKey, err)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetInvoice handles GET /v1/dashboard/invoices/:id (edit form data).
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		}
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CreateInvoice handles POST /v1/dashboard/invoices.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	result := h.invoiceService.Create(c.Request.Context(), invoiceForm(c))
	writeMutationResult(c, result)
}

// UpdateInvoice handles PUT /v1/dashboard/invoices/:id.
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	result := h.invoiceService.Update(c.Request.Context(), c.Param("id"), invoiceForm(c))
	writeMutationResult(c, result)
}

// DeleteInvoice handles DELETE /v1/dashboard/invoices/:id.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	result := h.invoiceService.Delete(c.Request.Context(), c.Param("id"))
	writeMutationResult(c, result)
}

// invoiceForm collects the raw form fields the validation step expects.
func invoiceForm(c *gin.Context) map[string]string {
	return map[string]string{
		"customerId": c.PostForm("customerId"),
		"amount":     c.PostForm("amount"),
		"status":     c.PostForm("status"),
	}
}

// writeMutationResult maps a pipeline Result onto an HTTP response.
func writeMutationResult(c *gin.Context, result services.Result) {
	switch result.Outcome {
	case services.OutcomeRedirect:
		c.JSON(http.StatusOK, gin.H{"redirect_to": result.RedirectTo})
	case services.OutcomeDeleted:
		c.JSON(http.StatusOK, gin.H{"message": result.Message})
	case services.OutcomeInvalid:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": result.Message,
			"errors":  result.FieldErrors,
		})
	case services.OutcomeStoreError:
		c.JSON(http.StatusInternalServerError, gin.H{"message": result.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected result"})
	}
}
