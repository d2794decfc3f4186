package handlers

import (
	"net/http"

	"eventify/internal/models"

	"github.com/gin-gonic/gin"
)

// Vendors handlers

// ListVendors - GET /api/vendors
func (h *Handlers) ListVendors(c *gin.Context) {
	city := c.Query("city")
	category := c.Query("category")
	query := c.Query("query")

	var (
		vendors []models.VendorView
		err     error
	)
	if query != "" {
		vendors, err = h.services.Vendors.SearchDirectory(c.Request.Context(), query, city, category)
	} else {
		vendors, err = h.services.Vendors.ListDirectory(c.Request.Context(), city, category)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// GetVendor - GET /api/vendors/:id
func (h *Handlers) GetVendor(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	vendorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	vendor, err := h.services.Vendors.GetVendor(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// VerifyVendorAccount - POST /api/vendors/:id/verify
// Admin sign-off on a vendor account
func (h *Handlers) VerifyVendorAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	vendorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Vendors.VerifyAccount(c.Request.Context(), userID, vendorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ListOrganizers - GET /api/organizers
// The organizer directory the owner delegates from
func (h *Handlers) ListOrganizers(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	organizers, err := h.services.Events.ListOrganizers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizers": organizers})
}

// AssignVendor - POST /api/vendors/assign
func (h *Handlers) AssignVendor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.AssignVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Vendors.Assign(c.Request.Context(), userID, req.VendorID, req.EventID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// UnassignVendor - POST /api/vendors/unassign
func (h *Handlers) UnassignVendor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.AssignVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Vendors.Unassign(c.Request.Context(), userID, req.VendorID, req.EventID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ListAssignedEvents - GET /api/vendors/events
// The vendor's own assignments
func (h *Handlers) ListAssignedEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	events, err := h.services.Vendors.ListAssignedEvents(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CompleteEvent - POST /api/vendors/events/:id/complete
// The vendor marks their own work done
func (h *Handlers) CompleteEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Vendors.Complete(c.Request.Context(), userID, eventID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// VerifyWork - POST /api/events/:id/verify
// The manager signs off on a vendor's completed work
func (h *Handlers) VerifyWork(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.VerifyWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Vendors.Verify(c.Request.Context(), userID, req.VendorID, eventID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ListEventVendors - GET /api/events/:id/vendors
func (h *Handlers) ListEventVendors(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	vendors, err := h.services.Vendors.ListEventVendors(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}
