package domain

// ProductRecord is one product extracted from a retailer search page.
type ProductRecord struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Weight      string  `json:"weight"`
	ImageURL    string  `json:"image"`
	Link        string  `json:"link"`
	Supermarket string  `json:"supermarket"`
	CookSeconds int     `json:"time"`
}

// Candidate is an item proposed by the model, not yet resolved to a product.
type Candidate struct {
	Name        string `json:"name"`
	CookSeconds int    `json:"cook_seconds"`
}
