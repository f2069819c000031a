package domain

// OrderSummary is the caller-facing view of one platform order. Orders are
// owned by the commerce platform; this side only lists them.
type OrderSummary struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	DateCreated string `json:"date_created"`
	ItemCount   int    `json:"item_count"`
}
