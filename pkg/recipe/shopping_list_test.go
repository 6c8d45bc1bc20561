package recipe

import (
	"Foodgram-Backend/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatShoppingList(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.ShoppingListItem
		want  string
	}{
		{
			name: "empty",
			want: "Shopping list:",
		},
		{
			name: "several items",
			items: []domain.ShoppingListItem{
				{Name: "flour", MeasurementUnit: "g", Amount: 150},
				{Name: "milk", MeasurementUnit: "ml", Amount: 200},
			},
			want: "Shopping list:\nflour: 150, g\nmilk: 200, ml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatShoppingList(tt.items))
		})
	}
}
