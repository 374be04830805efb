package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"b2b-catalog/models"
	"b2b-catalog/service"
)

// EnquiryController handles B2B enquiry submissions
type EnquiryController struct {
	enquiries service.EnquiryServiceInterface
}

// NewEnquiryController creates a new EnquiryController
func NewEnquiryController(enquiries service.EnquiryServiceInterface) *EnquiryController {
	return &EnquiryController{enquiries: enquiries}
}

// Create handles POST /api/enquiry
// The notification is fire-and-forget: a delivery failure is reported in
// the response body but never as an HTTP error, so the storefront flow is
// not blocked on the mail provider
func (c *EnquiryController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var enquiry models.Enquiry
	if err := json.NewDecoder(r.Body).Decode(&enquiry); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(enquiry.Name) == "" || strings.TrimSpace(enquiry.Email) == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	delivered := c.enquiries.Send(r.Context(), enquiry)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "received",
		"delivered": delivered,
	})
}
