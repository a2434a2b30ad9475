package models

// LeadTransferRequest is the inbound payload for transferring a lead to the
// provider. QuoteID, when present, must reference the provider id returned
// by an earlier quick quote.
type LeadTransferRequest struct {
	Source        string `json:"source"`
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	IDNumber      string `json:"id_number" binding:"omitempty,len=13"`
	QuoteID       string `json:"quote_id"`
	ContactNumber string `json:"contact_number" binding:"required"`
}

// LeadTransferData is the payload of a successful lead transfer.
type LeadTransferData struct {
	UUID        string `json:"uuid"`
	RedirectURL string `json:"redirect_url"`
}

// LeadTransferResponse is the provider's lead transfer response envelope.
type LeadTransferResponse struct {
	Success bool             `json:"success"`
	Data    LeadTransferData `json:"data"`
}
