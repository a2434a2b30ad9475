package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"insurance-lead-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	submissionPipeline *services.SubmissionPipeline
	submissionStore    services.SubmissionStore
)

// InitSubmissionHandlers wires the pipeline and store into the handler
// package. Called once from main after configuration is loaded.
func InitSubmissionHandlers(pipeline *services.SubmissionPipeline, store services.SubmissionStore) {
	submissionPipeline = pipeline
	submissionStore = store
}

// GetSubmission returns a single submission record by its local reference id.
func GetSubmission(c *gin.Context) {
	id := c.Param("id")

	rec, err := submissionStore.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": rec})
}

// GetSubmissions returns a page of submission records, newest first.
func GetSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	recs, total, err := submissionStore.List(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": recs,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
	})
}

// respondValidationError rejects a request before it reaches the pipeline.
// Validation failures never create a submission record.
func respondValidationError(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":  false,
		"error":    msg,
		"category": string(services.ErrCategoryValidation),
	})
}

// respondSubmissionError translates pipeline errors into the caller-facing
// status and body. Categories are never collapsed into a generic error.
func respondSubmissionError(c *gin.Context, err error) {
	var subErr *services.SubmissionError
	if errors.As(err, &subErr) {
		c.JSON(subErr.HTTPStatus(), gin.H{
			"success":         false,
			"error":           subErr.Message,
			"category":        string(subErr.Category),
			"local_record_id": subErr.LocalRecordID,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}
