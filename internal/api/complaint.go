package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resolvedesk/backend/internal/middleware"
	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/service"
	"github.com/resolvedesk/backend/internal/types"
)

type ComplaintHandler struct {
	complaintService service.IComplaintService
}

func NewComplaintHandler(complaintService service.IComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// RegisterRoutes wires the complaint endpoints. The router group must
// already carry AuthMiddleware. Fixed paths are registered before the
// parameterized ones so /analytics is not captured as an :id.
func (h *ComplaintHandler) RegisterRoutes(router *gin.RouterGroup, submitLimiter gin.HandlerFunc) {
	complaints := router.Group("/complaints")
	admin := middleware.RequireRole(models.RoleAdmin)
	{
		complaints.GET("/my-complaints", h.MyComplaints)
		complaints.GET("/analytics", admin, h.Analytics)
		complaints.GET("/feedback", admin, h.AllFeedback)
		complaints.GET("", admin, h.ListAll)
		if submitLimiter != nil {
			complaints.POST("", submitLimiter, h.Create)
		} else {
			complaints.POST("", h.Create)
		}
		complaints.PUT("/:id/feedback", h.AttachFeedback)
		complaints.PUT("/:id/status", admin, h.UpdateStatus)
		complaints.GET("/:id/history", admin, h.History)
	}
}

func (h *ComplaintHandler) Create(c *gin.Context) {
	var req types.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	complaint, err := h.complaintService.Submit(c.Request.Context(), actor.ID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Complaint created successfully",
		"complaint": complaint,
	})
}

func (h *ComplaintHandler) MyComplaints(c *gin.Context) {
	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	complaints, err := h.complaintService.ListForStudent(c.Request.Context(), actor.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

func (h *ComplaintHandler) ListAll(c *gin.Context) {
	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	complaints, err := h.complaintService.ListAll(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	var req types.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	complaint, err := h.complaintService.TransitionStatus(c.Request.Context(), actor, complaintID, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Status updated",
		"complaint": complaint,
	})
}

func (h *ComplaintHandler) AttachFeedback(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	var req types.AttachFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	complaint, err := h.complaintService.AttachFeedback(c.Request.Context(), actor, complaintID, req.Feedback)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Feedback submitted",
		"complaint": complaint,
	})
}

func (h *ComplaintHandler) AllFeedback(c *gin.Context) {
	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	complaints, err := h.complaintService.ListFeedback(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": complaints})
}

func (h *ComplaintHandler) History(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	entries, err := h.complaintService.History(c.Request.Context(), actor, complaintID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *ComplaintHandler) Analytics(c *gin.Context) {
	actor, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	analytics, err := h.complaintService.ComputeAnalytics(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
