package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected GroceryCategory
	}{
		{"ChickenBreast_IsProtein", "Chicken breast (1 lb)", CategoryProtein},
		{"GroundBeef_IsProtein", "Ground beef", CategoryProtein},
		{"GenericMeat_IsProtein", "Lunch meat", CategoryProtein},
		{"GenericVegetable_IsVegetable", "Mixed vegetables (frozen)", CategoryVegetable},
		{"Tofu_IsProtein", "Firm tofu", CategoryProtein},
		{"Broccoli_IsVegetable", "Broccoli (2 heads)", CategoryVegetable},
		{"BellPepper_IsVegetable", "Red bell pepper", CategoryVegetable},
		{"JasmineRice_IsGrain", "Jasmine rice (16 oz)", CategoryGrain},
		{"Bread_IsGrain", "Sourdough bread", CategoryGrain},
		{"Garlic_IsSeasoning", "Garlic (1 bulb)", CategorySeasoning},
		{"BlackPepper_IsSeasoning", "Black pepper", CategorySeasoning},
		{"OliveOil_IsSeasoning", "Olive oil", CategorySeasoning},
		{"Unmatched_IsOther", "Aluminum foil", CategoryOther},
		{"CaseInsensitive", "CHICKEN THIGHS", CategoryProtein},
		{"ProteinWinsOverGrain", "Chicken and rice mix", CategoryProtein},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.input))
		})
	}
}
