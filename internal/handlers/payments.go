package handlers

import (
	"io"
	"net/http"

	"eventify/internal/external"
	"eventify/internal/models"

	"github.com/gin-gonic/gin"
)

// Payments handlers

// RequestPayment - POST /api/payments/request
// A vendor files a payment request
func (h *Handlers) RequestPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.RequestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.services.Payments.RequestPayment(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ApprovePaymentRequest - POST /api/payments/requests/:id/approve
func (h *Handlers) ApprovePaymentRequest(c *gin.Context) {
	h.reviewPaymentRequest(c, models.RequestStatusApproved)
}

// RejectPaymentRequest - POST /api/payments/requests/:id/reject
func (h *Handlers) RejectPaymentRequest(c *gin.Context) {
	h.reviewPaymentRequest(c, models.RequestStatusRejected)
}

func (h *Handlers) reviewPaymentRequest(c *gin.Context, status string) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.services.Payments.ReviewRequest(c.Request.Context(), userID, requestID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListPaymentRequests - GET /api/payments/requests
// Vendors see their own requests; owners and organizers see requests on
// events they manage
func (h *Handlers) ListPaymentRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var (
		requests []models.PaymentRequest
		err      error
	)
	if c.Query("view") == "vendor" {
		requests, err = h.services.Payments.ListVendorRequests(c.Request.Context(), userID)
	} else {
		requests, err = h.services.Payments.ListManagedRequests(c.Request.Context(), userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// RequestOrganizerPayment - POST /api/payments/organizer-request
// The hired organizer bills the event owner
func (h *Handlers) RequestOrganizerPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.OrganizerRequestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.services.Payments.RequestOrganizerPayment(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// RejectOrganizerRequest - POST /api/payments/organizer-requests/:id/reject
func (h *Handlers) RejectOrganizerRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	request, err := h.services.Payments.RejectOrganizerRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListOrganizerRequests - GET /api/payments/organizer-requests
func (h *Handlers) ListOrganizerRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requests, err := h.services.Payments.ListOrganizerRequests(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// CreatePaymentIntent - POST /api/payments/create-intent
// The owner starts a settlement with the processor
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Payments.CreateIntent(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// PaymentWebhook - POST /api/payments/webhook
// Processor callback; authenticated by signature, not by JWT
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	signature := c.GetHeader(external.SignatureHeader)
	if err := h.services.Payments.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// VerifyPayment - POST /api/payments/verify
// Manual reconciliation when a webhook was missed
func (h *Handlers) VerifyPayment(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ManualVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.services.Payments.ManualVerify(c.Request.Context(), req.PaymentIntent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListEventPayments - GET /api/events/:id/payments
func (h *Handlers) ListEventPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.services.Payments.ListEventPayments(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
