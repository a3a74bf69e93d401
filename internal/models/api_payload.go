package models

// ListingsResponse is the JSON body of GET /listings.
type ListingsResponse struct {
	Data       []Listing  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// ParseRequest is the JSON body accepted by POST /parse.
type ParseRequest struct {
	Description string `json:"description"`
	PartNum     string `json:"part_num"`
	StdPrice    string `json:"std_price"`
	SalePrice   string `json:"sale_price"`
	PromoBonus  string `json:"promo_bonus"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Input string `json:"input,omitempty"`
}
