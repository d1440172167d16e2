package entity

// Product is a catalog entry. PromoPrice is a pointer because the column is
// nullable: nil means "no promotion", and the JSON layer renders it as null
// so the storefront can decide which price to display.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	InStock     bool     `json:"in_stock"`
	PromoPrice  *float64 `json:"promo_price"`
}
