package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"civicwatch/services"
	authUtils "civicwatch/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminController serves the authenticated surface: full issue listing, status
// changes, and the manual escalation trigger.
type AdminController struct {
	Service *services.IssueService
	Logger  *zap.Logger
}

func NewAdminController(service *services.IssueService, logger *zap.Logger) *AdminController {
	return &AdminController{Service: service, Logger: logger}
}

// Login checks the admin password against ADMIN_PASSWORD_HASH and mints a token.
func (ac *AdminController) Login(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admin login not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateAdminToken()
	if err != nil {
		ac.Logger.Error("failed to generate admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListIssues returns every issue with all fields, spam counts included.
func (ac *AdminController) ListIssues(c *gin.Context) {
	issues, err := ac.Service.ListAllIssues(c.Request.Context())
	if err != nil {
		ac.Logger.Error("failed to retrieve issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	response := make([]gin.H, 0, len(issues))
	for _, issue := range issues {
		response = append(response, gin.H{
			"id":          issue.ID.Hex(),
			"title":       issue.Title,
			"description": issue.Description,
			"category":    issue.Category,
			"lat":         issue.Lat,
			"lng":         issue.Lng,
			"images":      issue.ImageList(),
			"status":      issue.Status,
			"spamCount":   issue.SpamCount,
			"escalated":   issue.Escalated,
			"createdAt":   issue.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"issues": response})
}

// UpdateStatus moves an issue to a new status
func (ac *AdminController) UpdateStatus(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = ac.Service.UpdateStatus(c.Request.Context(), issueID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, services.ErrBadTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status transition not allowed"})
		default:
			ac.Logger.Error("failed to update status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated to " + input.Status})
}

// RunEscalation triggers the escalation sweep on demand.
func (ac *AdminController) RunEscalation(c *gin.Context) {
	count, err := ac.Service.RunEscalationSweep(c.Request.Context(), time.Now())
	if err != nil {
		ac.Logger.Error("escalation sweep failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Escalation sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d issue(s) escalated", count),
		"count":   count,
	})
}
