// Package mealplan contains the core meal-planning domain model:
// pantry ingredients, generated recipes, grocery items and daily
// nutrition snapshots, all scoped to an owning user.
package mealplan

// MealType classifies when a recipe is meant to be eaten.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealBrunch    MealType = "brunch"
	MealSnack     MealType = "snack"
	MealAny       MealType = "any"
)

// ParseMealType normalizes a raw value, coercing anything outside the
// enum (including the empty string) to MealAny.
func ParseMealType(raw string) MealType {
	switch MealType(raw) {
	case MealBreakfast, MealLunch, MealDinner, MealBrunch, MealSnack, MealAny:
		return MealType(raw)
	default:
		return MealAny
	}
}

// Diet is a dietary preference attached to a recommendation request.
type Diet string

const (
	DietNone        Diet = "none"
	DietVegetarian  Diet = "vegetarian"
	DietVegan       Diet = "vegan"
	DietHighProtein Diet = "high-protein"
)

// ParseDiet normalizes a raw value, coercing unknown diets to DietNone.
func ParseDiet(raw string) Diet {
	switch Diet(raw) {
	case DietNone, DietVegetarian, DietVegan, DietHighProtein:
		return Diet(raw)
	default:
		return DietNone
	}
}

// Ingredient is a pantry entry owned by a single user. Duplicate names
// are allowed; entries come from manual adds or accepted scan labels.
type Ingredient struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	OwnerID int    `json:"ownerId"`
}

// Recipe is a generated recipe. Recipes are created exclusively by the
// recommendation flow and are global, not owner-scoped. After creation
// only the Saved flag changes through normal use.
type Recipe struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Instructions    string   `json:"instructions"`
	ImageURL        string   `json:"imageUrl"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	Calories        int      `json:"calories"`
	Saved           bool     `json:"saved"`
	MealType        MealType `json:"mealType"`
	Ingredients     []string `json:"ingredients"`
}

// GroceryItem is a shopping-list entry. Category is derived from the
// name once at creation time and never recomputed.
type GroceryItem struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Category  GroceryCategory `json:"category"`
	Completed bool            `json:"completed"`
	OwnerID   int             `json:"ownerId"`
}

// Standard daily nutrition goals used when no snapshot exists for a day.
const (
	DefaultCaloriesGoal = 2000
	DefaultProteinGoal  = 90
	DefaultCarbsGoal    = 200
	DefaultFatGoal      = 60
)

// NutritionSnapshot holds one day's intake totals and goals for one
// owner. The natural key is (OwnerID, Date); writes to an existing date
// overwrite in place.
type NutritionSnapshot struct {
	ID           int    `json:"id"`
	OwnerID      int    `json:"ownerId"`
	Date         string `json:"date"` // YYYY-MM-DD
	Calories     int    `json:"calories"`
	Protein      int    `json:"protein"`
	Carbs        int    `json:"carbs"`
	Fat          int    `json:"fat"`
	CaloriesGoal int    `json:"caloriesGoal"`
	ProteinGoal  int    `json:"proteinGoal"`
	CarbsGoal    int    `json:"carbsGoal"`
	FatGoal      int    `json:"fatGoal"`
}

// DefaultSnapshot returns the zeroed snapshot served when an owner has
// no recorded data for a date.
func DefaultSnapshot(ownerID int, date string) NutritionSnapshot {
	return NutritionSnapshot{
		OwnerID:      ownerID,
		Date:         date,
		CaloriesGoal: DefaultCaloriesGoal,
		ProteinGoal:  DefaultProteinGoal,
		CarbsGoal:    DefaultCarbsGoal,
		FatGoal:      DefaultFatGoal,
	}
}

// User is the minimal account record. A single user is seeded at
// startup; there is no authentication.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}
