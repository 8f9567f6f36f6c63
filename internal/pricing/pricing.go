// Package pricing overlays clinic-specific prices onto classification results.
package pricing

import (
	"fmt"
	"strings"

	"github.com/prohair-dev/trichoscan/pkg/models"
)

// Resolve overwrites the provider's price range with the clinic's own price
// when the (trimmed) stage label is present in the clinic's pricing table.
// Any string key match is honored; stages are not restricted to the canonical
// 1-7 values, so clinics can define arbitrary overrides. On a miss the
// provider's price range is left untouched.
func Resolve(result models.ClassificationResult, pricing map[string]int) models.ClassificationResult {
	stage := strings.TrimSpace(result.Stage)
	if price, ok := pricing[stage]; ok {
		result.PriceRange = fmt.Sprintf("%d€", price)
	}
	return result
}
