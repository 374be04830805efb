package models

// Enquiry is a B2B purchase enquiry submitted against a catalog product
type Enquiry struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	ProductID   int64  `json:"productId,omitempty"`
	ProductName string `json:"productName,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Message     string `json:"message,omitempty"`
}
