package models

// Candidate is a store-specific deal extracted from scraped text, before
// validation and translation. It is never persisted.
type Candidate struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	OriginalPrice float64  `json:"originalPrice"`
	SalePrice     float64  `json:"salePrice"`
	Unit          string   `json:"unit,omitempty"`
	StartDate     string   `json:"startDate"`
	ExpiryDate    string   `json:"expiryDate"`
	CategoryHints []string `json:"categoryHints,omitempty"`
	Details       string   `json:"details,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// TranslatedFields holds the secondary-locale copies of a candidate's text.
type TranslatedFields struct {
	TitleZh       string `json:"titleZh"`
	DescriptionZh string `json:"descriptionZh"`
	UnitZh        string `json:"unitZh,omitempty"`
	DetailsZh     string `json:"detailsZh,omitempty"`
}

type TranslatedCandidate struct {
	Candidate
	TranslatedFields
}

// Deal is the canonical catalog record consumed by the display frontend.
type Deal struct {
	ID            string   `json:"id"`
	StoreID       string   `json:"storeId"`
	CategoryID    string   `json:"categoryId"`
	Title         string   `json:"title"`
	TitleZh       string   `json:"titleZh"`
	Description   string   `json:"description"`
	DescriptionZh string   `json:"descriptionZh"`
	OriginalPrice float64  `json:"originalPrice"`
	SalePrice     float64  `json:"salePrice"`
	Unit          string   `json:"unit,omitempty"`
	UnitZh        string   `json:"unitZh,omitempty"`
	StartDate     string   `json:"startDate"`
	ExpiryDate    string   `json:"expiryDate"`
	IsHot         bool     `json:"isHot"`
	Locations     []string `json:"locations"`
	Details       string   `json:"details,omitempty"`
	DetailsZh     string   `json:"detailsZh,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// Savings is the absolute dollar discount.
func (d Deal) Savings() float64 {
	return d.OriginalPrice - d.SalePrice
}

// OcrDeal is one product deal read off a flyer image.
type OcrDeal struct {
	Title         string   `json:"title"`
	OriginalPrice float64  `json:"originalPrice"`
	SalePrice     float64  `json:"salePrice"`
	Unit          string   `json:"unit"`
	CategoryHints []string `json:"categoryHints"`
}
