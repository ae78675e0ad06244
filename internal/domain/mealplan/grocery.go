package mealplan

import "strings"

// GroceryCategory groups grocery items on the shopping list.
type GroceryCategory string

const (
	CategoryProtein   GroceryCategory = "Protein"
	CategoryVegetable GroceryCategory = "Vegetable"
	CategoryGrain     GroceryCategory = "Grain"
	CategorySeasoning GroceryCategory = "Seasoning"
	CategoryOther     GroceryCategory = "Other"
)

// Keyword lists are checked in a fixed order: Protein, Vegetable,
// Grain, Seasoning. The first list containing a match wins; anything
// unmatched falls through to Other.
var (
	proteinKeywords = []string{
		"meat", "chicken", "beef", "pork", "fish", "salmon", "tuna",
		"shrimp", "turkey", "tofu", "egg", "bean", "lentil", "steak",
		"lamb",
	}
	vegetableKeywords = []string{
		"vegetable", "broccoli", "spinach", "carrot", "bell pepper",
		"onion", "tomato", "lettuce", "kale", "cucumber", "zucchini",
		"cauliflower", "mushroom", "celery", "cabbage", "asparagus",
	}
	grainKeywords = []string{
		"rice", "pasta", "bread", "quinoa", "oat", "flour", "noodle",
		"tortilla", "cereal", "barley", "couscous",
	}
	seasoningKeywords = []string{
		"salt", "pepper", "garlic", "spice", "herb", "basil", "oregano",
		"cumin", "paprika", "cinnamon", "sauce", "oil", "vinegar", "ginger",
	}
)

// Categorize derives the grocery category for an item name. It is a
// pure function of the name: the same input always yields the same
// category.
func Categorize(name string) GroceryCategory {
	lower := strings.ToLower(name)

	for _, kw := range proteinKeywords {
		if strings.Contains(lower, kw) {
			return CategoryProtein
		}
	}
	for _, kw := range vegetableKeywords {
		if strings.Contains(lower, kw) {
			return CategoryVegetable
		}
	}
	for _, kw := range grainKeywords {
		if strings.Contains(lower, kw) {
			return CategoryGrain
		}
	}
	for _, kw := range seasoningKeywords {
		if strings.Contains(lower, kw) {
			return CategorySeasoning
		}
	}
	return CategoryOther
}
