package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"civicwatch/models"
	"civicwatch/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// invalidLocationMessage is the guidance shown when coordinates fail to parse.
const invalidLocationMessage = "Location access failed. Please allow GPS in your browser."

// IssueController serves the public endpoints: landing, report form metadata,
// report submission, the public map, and spam flagging.
type IssueController struct {
	Service *services.IssueService
	Logger  *zap.Logger
}

func NewIssueController(service *services.IssueService, logger *zap.Logger) *IssueController {
	return &IssueController{Service: service, Logger: logger}
}

// Home handles the landing page.
func (ic *IssueController) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "civicwatch",
		"message": "Report civic issues via POST /report; active reports at GET /map.",
	})
}

// ReportForm returns the metadata a client needs to build the submission form.
func (ic *IssueController) ReportForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.Categories(),
		"fields":     []string{"title", "description", "category", "lat", "lng"},
		"images":     "optional multipart file field, repeatable",
	})
}

// SubmitReport handles the report submission form
func (ic *IssueController) SubmitReport(c *gin.Context) {
	var input struct {
		Title       string `form:"title" binding:"required,max=200"`
		Description string `form:"description" binding:"required,max=2000"`
		Category    string `form:"category" binding:"required"`
		Lat         string `form:"lat" binding:"required"`
		Lng         string `form:"lng" binding:"required"`
	}

	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}

	id, err := ic.Service.SubmitReport(c.Request.Context(), services.SubmitReportInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Images:      files,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLocation):
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidLocationMessage})
		case errors.Is(err, services.ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		default:
			ic.Logger.Error("failed to create issue", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		}
		return
	}

	ic.Logger.Debug("report submitted", zap.String("id", id.Hex()))
	c.Redirect(http.StatusSeeOther, "/")
}

// MapView lists issues below the spam threshold for the public map.
func (ic *IssueController) MapView(c *gin.Context) {
	issues, err := ic.Service.ListPublicIssues(c.Request.Context())
	if err != nil {
		ic.Logger.Error("failed to retrieve public issues", zap.Error(err))
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
			"escalated":   issue.Escalated,
		})
	}

	c.JSON(http.StatusOK, gin.H{"issues": response})
}

// ReportSpam increments the spam counter on an issue
func (ic *IssueController) ReportSpam(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	count, err := ic.Service.FlagSpam(c.Request.Context(), issueID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			ic.Logger.Error("failed to flag spam", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record spam report"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Spam report recorded",
		"count":   count,
	})
}
