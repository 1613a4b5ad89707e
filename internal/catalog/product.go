package catalog

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows a product listing. Zero values mean "no constraint".
type Filter struct {
	Category string // equality match
	Search   string // substring match on name, case-insensitive
	Sort     string // one of the Sort* constants; defaults to SortNameAsc
	Limit    int    // 0 means no limit
}

const (
	SortNameAsc    = "name-asc"
	SortNameDesc   = "name-desc"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortCreatedAsc = "created-asc"
	SortNewest     = "created-desc"
)
