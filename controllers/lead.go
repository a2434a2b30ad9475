package controllers

import (
	"log"
	"net/http"

	"insurance-lead-api/models"
	"insurance-lead-api/utils"

	"github.com/gin-gonic/gin"
)

// TransferLead forwards a customer lead to the provider and tracks the
// attempt as a submission record.
func TransferLead(c *gin.Context) {
	var req models.LeadTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	req.FirstName = utils.SanitizeInput(req.FirstName)
	req.LastName = utils.SanitizeInput(req.LastName)
	req.Email = utils.SanitizeInput(req.Email)

	if !utils.ValidateEmail(req.Email) {
		respondValidationError(c, "Invalid email address")
		return
	}
	if !utils.ValidateContactNumber(req.ContactNumber) {
		respondValidationError(c, "Invalid South African contact number")
		return
	}
	if req.IDNumber != "" && !utils.ValidateZAIDNumber(req.IDNumber) {
		respondValidationError(c, "Invalid South African ID number")
		return
	}

	// Name only; the rest of the contact details stay out of the logs.
	log.Printf("lead transfer request: %s %s source=%s", req.FirstName, req.LastName, req.Source)

	result, err := submissionPipeline.SubmitLead(c.Request.Context(), &req)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
