package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"finboard/dashboard/internal/services"
	"finboard/dashboard/internal/storage"
	"finboard/dashboard/internal/tasks"
)

// CustomerHandler handles REST requests for customers, including the avatar
// upload flow (presign, then hand off processing to the background worker).
type CustomerHandler struct {
	customerService services.ICustomerService
	avatarStorage   storage.IAvatarStorage
	taskClient      tasks.Enqueuer
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService services.ICustomerService, avatarStorage storage.IAvatarStorage, taskClient tasks.Enqueuer) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		avatarStorage:   avatarStorage,
		taskClient:      taskClient,
	}
}

// ListCustomers handles GET /v1/dashboard/customers?query=
// It returns the customers table with per-customer invoice totals.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	rows, err := h.customerService.Table(c.Request.Context(), c.Query("query"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// CustomerFields handles GET /v1/dashboard/customers/fields
// It returns id/name pairs for the invoice form's customer dropdown.
func (h *CustomerHandler) CustomerFields(c *gin.Context) {
	fields, err := h.customerService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fields})
}

type avatarUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// RequestAvatarUpload handles POST /v1/dashboard/customers/:id/avatar
// It returns a presigned PUT URL the client uploads the raw image to.
func (h *CustomerHandler) RequestAvatarUpload(c *gin.Context) {
	customerID := c.Param("id")

	var req avatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and content_type are required"})
		return
	}

	if _, err := h.customerService.FindByID(c.Request.Context(), customerID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customer"})
		}
		return
	}

	url, key, err := h.avatarStorage.GeneratePresignedPutURL(c.Request.Context(), customerID, req.Filename, req.ContentType)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload_url": url, "s3_key": key})
}

type avatarCompleteRequest struct {
	S3Key string `json:"s3_key" binding:"required"`
}

// CompleteAvatarUpload handles POST /v1/dashboard/customers/:id/avatar/complete
// It enqueues the resize task for an uploaded raw avatar.
func (h *CustomerHandler) CompleteAvatarUpload(c *gin.Context) {
	customerID := c.Param("id")

	var req avatarCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "s3_key is required"})
		return
	}

	payload, err := json.Marshal(tasks.AvatarProcessPayload{CustomerID: customerID, S3Key: req.S3Key})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule avatar processing"})
		return
	}

	task := asynq.NewTask(tasks.TypeAvatarProcess, payload, asynq.Queue("low"))
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to schedule avatar processing"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Avatar processing scheduled"})
}
