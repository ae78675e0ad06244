package recommend

import (
	"strings"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/ports/outbound"
)

// fallbackCatalog is the fixed set of hand-authored recipes used when
// every provider fails. The recommendation contract guarantees a
// non-empty result, so this catalog must never be empty.
var fallbackCatalog = []outbound.RecipeCandidate{
	{
		Title:       "Chicken Stir-Fry with Rice and Vegetables",
		Description: "A quick and easy stir-fry using chicken, rice, and fresh vegetables.",
		Instructions: "1. Cook rice according to package instructions.\n" +
			"2. Dice chicken into 1-inch cubes.\n" +
			"3. Heat olive oil in a large pan or wok over medium-high heat.\n" +
			"4. Add chicken and cook until no longer pink, about 5-7 minutes.\n" +
			"5. Add diced bell peppers, onions, and minced garlic.\n" +
			"6. Cook for 3-4 minutes until vegetables begin to soften.\n" +
			"7. Add broccoli and cook for another 3 minutes.\n" +
			"8. Season with salt, pepper, and your favorite stir-fry sauce.\n" +
			"9. Serve hot over cooked rice.",
		PrepTimeMinutes: 30,
		Calories:        450,
		MealType:        mealplan.MealDinner,
		Ingredients:     []string{"Chicken", "Rice", "Bell pepper", "Onion", "Garlic", "Broccoli", "Olive oil"},
	},
	{
		Title:       "Mediterranean Rice Bowl",
		Description: "A flavorful bowl combining rice, vegetables, and herbs for a healthy meal.",
		Instructions: "1. Cook rice until fluffy and set aside.\n" +
			"2. Saute diced bell peppers, onions, and garlic in olive oil until soft.\n" +
			"3. Season with salt, pepper, oregano, and a pinch of red pepper flakes.\n" +
			"4. Add diced vegetables of your choice (broccoli works well).\n" +
			"5. Cook for 5 more minutes until all vegetables are tender.\n" +
			"6. Serve the vegetable mixture over rice.\n" +
			"7. Drizzle with additional olive oil and lemon juice if available.",
		PrepTimeMinutes: 25,
		Calories:        380,
		MealType:        mealplan.MealLunch,
		Ingredients:     []string{"Rice", "Bell pepper", "Onion", "Garlic", "Broccoli", "Olive oil", "Oregano"},
	},
	{
		Title:       "Garlic Chicken with Roasted Vegetables",
		Description: "Tender garlic chicken served with a medley of oven-roasted vegetables.",
		Instructions: "1. Preheat oven to 425F (220C).\n" +
			"2. Season chicken pieces with salt, pepper, and minced garlic.\n" +
			"3. Cut bell peppers, onions, and broccoli into even-sized pieces.\n" +
			"4. Toss vegetables with olive oil, salt, and pepper.\n" +
			"5. Place chicken and vegetables on a baking sheet.\n" +
			"6. Roast for 25-30 minutes, turning once halfway through.\n" +
			"7. Check that chicken reaches 165F (74C) internal temperature.\n" +
			"8. Serve chicken with roasted vegetables and cooked rice.",
		PrepTimeMinutes: 40,
		Calories:        410,
		MealType:        mealplan.MealDinner,
		Ingredients:     []string{"Chicken", "Garlic", "Bell pepper", "Onion", "Broccoli", "Olive oil", "Rice"},
	},
	{
		Title:       "Vegetable Omelette",
		Description: "A fluffy omelette filled with sauteed vegetables, ready in minutes.",
		Instructions: "1. Whisk eggs with a pinch of salt and pepper.\n" +
			"2. Saute diced onion and bell pepper in olive oil until soft.\n" +
			"3. Pour in the eggs and cook over medium-low heat until almost set.\n" +
			"4. Fold the omelette over the vegetables.\n" +
			"5. Cook for another minute and serve immediately.",
		PrepTimeMinutes: 15,
		Calories:        320,
		MealType:        mealplan.MealBreakfast,
		Ingredients:     []string{"Eggs", "Onion", "Bell pepper", "Olive oil"},
	},
	{
		Title:       "Crunchy Roasted Chickpeas",
		Description: "A simple savory snack of crisp oven-roasted chickpeas.",
		Instructions: "1. Preheat oven to 400F (200C).\n" +
			"2. Drain and pat dry a can of chickpeas.\n" +
			"3. Toss with olive oil, salt, and paprika.\n" +
			"4. Roast for 25-30 minutes, shaking the pan halfway through.\n" +
			"5. Cool slightly before serving.",
		PrepTimeMinutes: 35,
		Calories:        180,
		MealType:        mealplan.MealSnack,
		Ingredients:     []string{"Chickpeas", "Olive oil", "Salt", "Paprika"},
	},
}

// catalogForMealType returns fallback recipes pre-filtered by the
// requested meal type. When the filter yields nothing, one recipe is
// returned with its meal type coerced to the requested one so the
// result is never empty.
func catalogForMealType(mealType mealplan.MealType) []outbound.RecipeCandidate {
	if mealType == mealplan.MealAny {
		return append([]outbound.RecipeCandidate(nil), fallbackCatalog...)
	}

	var matches []outbound.RecipeCandidate
	for _, recipe := range fallbackCatalog {
		if recipe.MealType == mealType {
			matches = append(matches, recipe)
		}
	}
	if len(matches) > 0 {
		return matches
	}

	coerced := fallbackCatalog[0]
	coerced.MealType = mealType
	return []outbound.RecipeCandidate{coerced}
}

// meatKeywords and animalProductKeywords drive the static dietary
// flags in the fallback analysis.
var (
	meatKeywords          = []string{"meat", "chicken", "beef", "pork", "fish"}
	animalProductKeywords = []string{"milk", "cheese", "egg"}
	glutenKeywords        = []string{"wheat", "flour", "bread", "pasta"}
)

func containsAny(ingredients []string, keywords []string) bool {
	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// staticAnalysis is the fixed-shape nutritional analysis returned when
// every provider fails. Only the dietary flags vary, derived from
// ingredient keywords.
func staticAnalysis(ingredients []string) *outbound.RecipeAnalysis {
	hasMeat := containsAny(ingredients, meatKeywords)
	hasAnimalProducts := hasMeat || containsAny(ingredients, animalProductKeywords)
	hasGluten := containsAny(ingredients, glutenKeywords)

	return &outbound.RecipeAnalysis{
		NutritionalInfo: outbound.NutritionalInfo{
			Calories: 450,
			Protein:  35,
			Carbs:    45,
			Fat:      15,
			Fiber:    8,
			Sodium:   500,
			Vitamins: []outbound.NutrientAmount{
				{Name: "Vitamin A", Amount: "15% DV"},
				{Name: "Vitamin C", Amount: "30% DV"},
				{Name: "Vitamin D", Amount: "0% DV"},
				{Name: "Vitamin E", Amount: "10% DV"},
			},
			Minerals: []outbound.NutrientAmount{
				{Name: "Iron", Amount: "15% DV"},
				{Name: "Calcium", Amount: "10% DV"},
				{Name: "Potassium", Amount: "20% DV"},
				{Name: "Magnesium", Amount: "12% DV"},
			},
		},
		Allergens: []string{
			"This recipe may contain common allergens depending on exact ingredients used.",
		},
		DietaryConsiderations: outbound.DietaryConsiderations{
			IsVegetarian: !hasMeat,
			IsVegan:      !hasAnimalProducts,
			IsGlutenFree: !hasGluten,
			Notes: "This is an estimated analysis. For precise nutritional information, " +
				"consult with a registered dietitian.",
		},
	}
}
