// Package memory provides the in-memory record store implementation.
// All state is process-lifetime; collections are guarded by a RWMutex
// so concurrent request handlers stay safe.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/ports/outbound"
)

// Store implements the RecordStore interface with mutex-guarded maps.
// IDs are monotonically increasing per collection and never reused.
type Store struct {
	mu sync.RWMutex

	users        map[int]mealplan.User
	ingredients  map[int]mealplan.Ingredient
	recipes      map[int]mealplan.Recipe
	groceryItems map[int]mealplan.GroceryItem
	nutrition    map[string]mealplan.NutritionSnapshot // key: ownerID-date

	nextUserID        int
	nextIngredientID  int
	nextRecipeID      int
	nextGroceryItemID int
	nextNutritionID   int

	// insertion order for stable listings
	ingredientOrder  []int
	recipeOrder      []int
	groceryItemOrder []int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:             make(map[int]mealplan.User),
		ingredients:       make(map[int]mealplan.Ingredient),
		recipes:           make(map[int]mealplan.Recipe),
		groceryItems:      make(map[int]mealplan.GroceryItem),
		nutrition:         make(map[string]mealplan.NutritionSnapshot),
		nextUserID:        1,
		nextIngredientID:  1,
		nextRecipeID:      1,
		nextGroceryItemID: 1,
		nextNutritionID:   1,
	}
}

// NewSeededStore creates a store preloaded with the default user and
// that user's starter pantry, grocery list and today's nutrition row.
func NewSeededStore() *Store {
	s := NewStore()
	ctx := context.Background()

	user, _ := s.CreateUser(ctx, mealplan.User{Username: "alex", Password: "password"})

	for _, name := range []string{"Chicken", "Broccoli", "Rice", "Garlic", "Olive oil"} {
		s.AddIngredient(ctx, mealplan.Ingredient{Name: name, OwnerID: user.ID})
	}

	for _, name := range []string{
		"Chicken breast (1 lb)",
		"Broccoli (2 heads)",
		"Jasmine rice (16 oz)",
		"Garlic (1 bulb)",
	} {
		s.AddGroceryItem(ctx, mealplan.GroceryItem{
			Name:     name,
			Category: mealplan.Categorize(name),
			OwnerID:  user.ID,
		})
	}

	today := time.Now().Format("2006-01-02")
	s.UpsertNutrition(ctx, mealplan.NutritionSnapshot{
		OwnerID:      user.ID,
		Date:         today,
		Calories:     1500,
		Protein:      45,
		Carbs:        160,
		Fat:          24,
		CaloriesGoal: mealplan.DefaultCaloriesGoal,
		ProteinGoal:  mealplan.DefaultProteinGoal,
		CarbsGoal:    mealplan.DefaultCarbsGoal,
		FatGoal:      mealplan.DefaultFatGoal,
	})

	return s
}

func nutritionKey(ownerID int, date string) string {
	return fmt.Sprintf("%d-%s", ownerID, date)
}

// removeID drops one id from an insertion-order slice.
func removeID(order []int, id int) []int {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int) (*mealplan.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*mealplan.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

// CreateUser stores a new user with an assigned id.
func (s *Store) CreateUser(ctx context.Context, user mealplan.User) (mealplan.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user
	return user, nil
}

// GetUserIngredients lists the ingredients owned by one user.
func (s *Store) GetUserIngredients(ctx context.Context, ownerID int) ([]mealplan.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]mealplan.Ingredient, 0)
	for _, id := range s.ingredientOrder {
		if ing, ok := s.ingredients[id]; ok && ing.OwnerID == ownerID {
			result = append(result, ing)
		}
	}
	return result, nil
}

// AddIngredient stores a new ingredient with an assigned id.
func (s *Store) AddIngredient(ctx context.Context, ingredient mealplan.Ingredient) (mealplan.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ingredient.ID = s.nextIngredientID
	s.nextIngredientID++
	s.ingredients[ingredient.ID] = ingredient
	s.ingredientOrder = append(s.ingredientOrder, ingredient.ID)
	return ingredient, nil
}

// RemoveIngredient deletes an ingredient; removing an unknown id is a
// no-op.
func (s *Store) RemoveIngredient(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ingredients, id)
	s.ingredientOrder = removeID(s.ingredientOrder, id)
	return nil
}

// GetAllRecipes lists every stored recipe.
func (s *Store) GetAllRecipes(ctx context.Context) ([]mealplan.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]mealplan.Recipe, 0, len(s.recipes))
	for _, id := range s.recipeOrder {
		if r, ok := s.recipes[id]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// GetRecipe retrieves a recipe by id, nil when absent.
func (s *Store) GetRecipe(ctx context.Context, id int) (*mealplan.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.recipes[id]
	if !ok {
		return nil, nil
	}
	return &recipe, nil
}

// AddRecipe stores a new recipe with an assigned id.
func (s *Store) AddRecipe(ctx context.Context, recipe mealplan.Recipe) (mealplan.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipe.ID = s.nextRecipeID
	s.nextRecipeID++
	s.recipes[recipe.ID] = recipe
	s.recipeOrder = append(s.recipeOrder, recipe.ID)
	return recipe, nil
}

// UpdateRecipe replaces a stored recipe in full, keeping its id.
func (s *Store) UpdateRecipe(ctx context.Context, id int, recipe mealplan.Recipe) (mealplan.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return mealplan.Recipe{}, fmt.Errorf("recipe %d not found", id)
	}
	recipe.ID = id
	s.recipes[id] = recipe
	return recipe, nil
}

// GetUserGroceryItems lists the grocery items owned by one user.
func (s *Store) GetUserGroceryItems(ctx context.Context, ownerID int) ([]mealplan.GroceryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]mealplan.GroceryItem, 0)
	for _, id := range s.groceryItemOrder {
		if item, ok := s.groceryItems[id]; ok && item.OwnerID == ownerID {
			result = append(result, item)
		}
	}
	return result, nil
}

// GetGroceryItem retrieves a grocery item by id, nil when absent.
func (s *Store) GetGroceryItem(ctx context.Context, id int) (*mealplan.GroceryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.groceryItems[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// AddGroceryItem stores a new grocery item with an assigned id.
func (s *Store) AddGroceryItem(ctx context.Context, item mealplan.GroceryItem) (mealplan.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextGroceryItemID
	s.nextGroceryItemID++
	s.groceryItems[item.ID] = item
	s.groceryItemOrder = append(s.groceryItemOrder, item.ID)
	return item, nil
}

// UpdateGroceryItem replaces a stored grocery item, keeping its id.
func (s *Store) UpdateGroceryItem(ctx context.Context, id int, item mealplan.GroceryItem) (mealplan.GroceryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groceryItems[id]; !ok {
		return mealplan.GroceryItem{}, fmt.Errorf("grocery item %d not found", id)
	}
	item.ID = id
	s.groceryItems[id] = item
	return item, nil
}

// RemoveGroceryItem deletes a grocery item; removing an unknown id is
// a no-op.
func (s *Store) RemoveGroceryItem(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.groceryItems, id)
	s.groceryItemOrder = removeID(s.groceryItemOrder, id)
	return nil
}

// GetNutrition retrieves the snapshot for an owner and date, nil when
// absent.
func (s *Store) GetNutrition(ctx context.Context, ownerID int, date string) (*mealplan.NutritionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.nutrition[nutritionKey(ownerID, date)]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

// UpsertNutrition writes the snapshot for (owner, date), overwriting
// any existing row in place. The original row's id is kept on
// overwrite so at most one snapshot exists per owner per day.
func (s *Store) UpsertNutrition(ctx context.Context, snapshot mealplan.NutritionSnapshot) (mealplan.NutritionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nutritionKey(snapshot.OwnerID, snapshot.Date)
	if existing, ok := s.nutrition[key]; ok {
		snapshot.ID = existing.ID
	} else {
		snapshot.ID = s.nextNutritionID
		s.nextNutritionID++
	}
	s.nutrition[key] = snapshot
	return snapshot, nil
}

// compile-time interface check
var _ outbound.RecordStore = (*Store)(nil)
