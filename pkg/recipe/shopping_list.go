package recipe

import (
	"Foodgram-Backend/domain"
	"fmt"
	"strings"
)

// FormatShoppingList renders the aggregated list as plain text: a header
// line followed by "<name>: <amount>, <unit>" per item.
func FormatShoppingList(items []domain.ShoppingListItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, domain.ShoppingListHeader)
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s: %d, %s", item.Name, item.Amount, item.MeasurementUnit))
	}
	return strings.Join(lines, "\n")
}
