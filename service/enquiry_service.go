package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"b2b-catalog/models"
)

// EnquiryServiceInterface defines the contract for enquiry notifications
type EnquiryServiceInterface interface {
	// Send delivers the enquiry notification. Fire-and-forget: the
	// boolean reports delivery, failures are never raised.
	Send(ctx context.Context, enq models.Enquiry) bool
}

// EnquiryService emails B2B enquiries to the sales inbox via SendGrid
type EnquiryService struct {
	apiKey string
	from   string
	to     string
}

// Ensure EnquiryService implements EnquiryServiceInterface
var _ EnquiryServiceInterface = (*EnquiryService)(nil)

// NewEnquiryService creates a new EnquiryService
func NewEnquiryService(apiKey, from, to string) *EnquiryService {
	return &EnquiryService{
		apiKey: apiKey,
		from:   from,
		to:     to,
	}
}

// Send delivers one enquiry notification and reports success
func (s *EnquiryService) Send(_ context.Context, enq models.Enquiry) bool {
	if s.apiKey == "" || s.from == "" || s.to == "" {
		log.Printf("⚠️  Enquiry mail not configured, dropping enquiry from %s", enq.Email)
		return false
	}

	subject := "New product enquiry"
	if enq.ProductName != "" {
		subject = fmt.Sprintf("New enquiry: %s", enq.ProductName)
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("Catalog Enquiries", s.from),
		subject,
		sgmail.NewEmail("", s.to),
		s.body(enq),
		fmt.Sprintf("<pre>%s</pre>", s.body(enq)),
	)

	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		log.Printf("❌ Enquiry mail send error: %v", err)
		return false
	}
	if response.StatusCode >= 400 {
		log.Printf("❌ Enquiry mail rejected: status=%d body=%s", response.StatusCode, response.Body)
		return false
	}

	log.Printf("✉️  Enquiry mail sent (status=%d, from=%s)", response.StatusCode, enq.Email)
	return true
}

// body renders the plain-text notification
func (s *EnquiryService) body(enq models.Enquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", enq.Name)
	if enq.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", enq.Company)
	}
	fmt.Fprintf(&b, "Email: %s\n", enq.Email)
	if enq.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", enq.Phone)
	}
	if enq.ProductName != "" {
		fmt.Fprintf(&b, "Product: %s (id %d)\n", enq.ProductName, enq.ProductID)
	}
	if enq.Quantity != "" {
		fmt.Fprintf(&b, "Quantity: %s\n", enq.Quantity)
	}
	if enq.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", enq.Message)
	}
	return b.String()
}
