// Package seed builds the sample catalog used by local runs and empty databases.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/PabloGalante/shop-assistant/internal/domain"
)

const Currency = "GBP"

var Categories = []string{"Apparel", "Footwear", "Accessories", "Electronics", "Home", "Beauty"}

// Products returns n active products SKU-0001..SKU-n. The fixed seed keeps
// prices and categories identical across runs.
func Products(n int) []domain.CatalogEntry {
	rng := rand.New(rand.NewPCG(42, 1024))

	out := make([]domain.CatalogEntry, 0, n)
	for i := 1; i <= n; i++ {
		category := Categories[rng.IntN(len(Categories))]
		price := math.Round((rng.Float64()*100+5)*100) / 100 // £5–£105

		out = append(out, domain.CatalogEntry{
			ID:          domain.ProductID(i),
			SKU:         fmt.Sprintf("SKU-%04d", i),
			Name:        fmt.Sprintf("%s Item %d", category, i),
			Description: fmt.Sprintf("Sample description for %s Item %d.", category, i),
			Category:    category,
			Price:       price,
			Currency:    Currency,
			Active:      true,
		})
	}
	return out
}
