package outbound

import (
	"context"

	"github.com/mealcraft/v1/internal/domain/mealplan"
)

// RecordStore is the persistence contract for all meal-planning
// entities. Implementations assign monotonically increasing integer
// IDs, unique within each collection and never reused. Validation is
// the caller's responsibility; the store only persists.
type RecordStore interface {
	// Users
	GetUser(ctx context.Context, id int) (*mealplan.User, error)
	GetUserByUsername(ctx context.Context, username string) (*mealplan.User, error)
	CreateUser(ctx context.Context, user mealplan.User) (mealplan.User, error)

	// Ingredients (owner-scoped)
	GetUserIngredients(ctx context.Context, ownerID int) ([]mealplan.Ingredient, error)
	AddIngredient(ctx context.Context, ingredient mealplan.Ingredient) (mealplan.Ingredient, error)
	RemoveIngredient(ctx context.Context, id int) error

	// Recipes (global scope)
	GetAllRecipes(ctx context.Context) ([]mealplan.Recipe, error)
	GetRecipe(ctx context.Context, id int) (*mealplan.Recipe, error)
	AddRecipe(ctx context.Context, recipe mealplan.Recipe) (mealplan.Recipe, error)
	UpdateRecipe(ctx context.Context, id int, recipe mealplan.Recipe) (mealplan.Recipe, error)

	// Grocery items (owner-scoped)
	GetUserGroceryItems(ctx context.Context, ownerID int) ([]mealplan.GroceryItem, error)
	GetGroceryItem(ctx context.Context, id int) (*mealplan.GroceryItem, error)
	AddGroceryItem(ctx context.Context, item mealplan.GroceryItem) (mealplan.GroceryItem, error)
	UpdateGroceryItem(ctx context.Context, id int, item mealplan.GroceryItem) (mealplan.GroceryItem, error)
	RemoveGroceryItem(ctx context.Context, id int) error

	// Nutrition snapshots, keyed by (owner, date); upsert semantics
	GetNutrition(ctx context.Context, ownerID int, date string) (*mealplan.NutritionSnapshot, error)
	UpsertNutrition(ctx context.Context, snapshot mealplan.NutritionSnapshot) (mealplan.NutritionSnapshot, error)
}
