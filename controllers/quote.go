package controllers

import (
	"log"
	"net/http"

	"insurance-lead-api/models"

	"github.com/gin-gonic/gin"
)

// QuickQuote requests an insurance quote from the provider for one or more
// vehicles and tracks the attempt as a submission record.
func QuickQuote(c *gin.Context) {
	var req models.QuickQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	log.Printf("quick quote request: source=%s vehicles=%d", req.Source, len(req.Vehicles))

	result, err := submissionPipeline.SubmitQuote(c.Request.Context(), &req)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
