package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func postLead(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/leads/transfer", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	TransferLead(c)
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("undecodable response body: %v", err)
	}
	return body
}

func TestTransferLeadRejectsInvalidContactNumber(t *testing.T) {
	w := postLead(t, `{
		"first_name": "Peter",
		"last_name": "Smith",
		"email": "peter.smith@example.com",
		"contact_number": "12345"
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body["category"] != "validation_error" {
		t.Fatalf("category = %v, want validation_error", body["category"])
	}
}

func TestTransferLeadRejectsInvalidIDNumber(t *testing.T) {
	// 13 digits but a bad Luhn check digit.
	w := postLead(t, `{
		"first_name": "Peter",
		"last_name": "Smith",
		"email": "peter.smith@example.com",
		"id_number": "8001015009086",
		"contact_number": "0821234567"
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body["category"] != "validation_error" {
		t.Fatalf("category = %v, want validation_error", body["category"])
	}
}

func TestTransferLeadRejectsMalformedEmail(t *testing.T) {
	// The binding tag's shape check alone is not enough: the sanitized
	// value is re-validated before the pipeline runs.
	w := postLead(t, `{
		"first_name": "Peter",
		"last_name": "Smith",
		"email": "peter@invalid",
		"contact_number": "0821234567"
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body["category"] != "validation_error" {
		t.Fatalf("category = %v, want validation_error", body["category"])
	}
}
