package domain

// CatalogEntry is the read-only projection of a product used for prompts and
// recommendations. The catalog itself is owned elsewhere.
type CatalogEntry struct {
	ID          ProductID
	SKU         string
	Name        string
	Description string
	Category    string
	Price       float64
	Currency    string
	ImageURL    string
	Active      bool
}
