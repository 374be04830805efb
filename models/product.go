package models

import "time"

// SpecPair is a single label/value specification row
type SpecPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product represents a sellable catalog entry
// Image entries are either durable URLs or inline data URIs (legacy rows)
type Product struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Category          string     `json:"cat"`
	Subcategory       string     `json:"subcategory,omitempty"`
	HSN               string     `json:"hsn,omitempty"`
	MOQ               string     `json:"moq,omitempty"`
	PriceRange        string     `json:"priceRange,omitempty"`
	Description       string     `json:"description,omitempty"`
	Certifications    []string   `json:"certifications"`
	Images            []string   `json:"images"`
	Video             string     `json:"video,omitempty"`
	Thumbnail         string     `json:"thumbnail,omitempty"`
	Specs             []SpecPair `json:"specs"`
	KeySpecs          []SpecPair `json:"keySpecs"`
	IsTrending        bool       `json:"isTrending"`
	TabDescription    string     `json:"tabDescription,omitempty"`
	TabSpecifications string     `json:"tabSpecifications,omitempty"`
	TabAdvantage      string     `json:"tabAdvantage,omitempty"`
	TabBenefit        string     `json:"tabBenefit,omitempty"`
	CreatedAt         time.Time  `json:"createdAt,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt,omitempty"`
}

// Normalize ensures slice fields are never nil so JSON round-trips keep
// Images as [] instead of null
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Specs == nil {
		p.Specs = []SpecPair{}
	}
	if p.KeySpecs == nil {
		p.KeySpecs = []SpecPair{}
	}
}

// ThumbnailRef returns the thumbnail when set, otherwise the first image
func (p *Product) ThumbnailRef() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// ProductRef is the cheap id+name projection used by the migration engine
type ProductRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductImageFields carries only the heavy image columns of one product
type ProductImageFields struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Images    []string `json:"images"`
	Thumbnail string   `json:"thumbnail"`
}
