package api

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// Read shapes. Write shapes live next to their handlers; the read shapes
// here are shared because recipes embed their author and subscriptions
// embed recipes.

type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	PubDate          time.Time                  `json:"pub_date"`
}

type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// Serializer builds the read shapes, computing the per-viewer booleans
// (is_subscribed, is_favorited, is_in_shopping_cart) on every request.
// The booleans are never stored; anonymous viewers always get false.
type Serializer struct {
	db *gorm.DB
}

func NewSerializer(db *gorm.DB) *Serializer {
	return &Serializer{db: db}
}

func (s *Serializer) User(viewer *uuid.UUID, u *models.User) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: viewer != nil && s.pairExists(&models.Follow{}, "user_id = ? AND following_id = ?", *viewer, u.ID),
	}
}

func (s *Serializer) Tag(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func (s *Serializer) Ingredient(i models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// Recipe expects Tags, Author and Ingredients.Ingredient to be preloaded.
func (s *Serializer) Recipe(viewer *uuid.UUID, r *models.Recipe) RecipeResponse {
	tags := make([]TagResponse, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, s.Tag(t))
	}

	ingredients := make([]RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	resp := RecipeResponse{
		ID:          r.ID,
		Tags:        tags,
		Author:      s.User(viewer, &r.Author),
		Ingredients: ingredients,
		Name:        r.Name,
		Image:       r.ImageURL,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		PubDate:     r.CreatedAt,
	}
	if viewer != nil {
		resp.IsFavorited = s.pairExists(&models.Favorite{}, "user_id = ? AND recipe_id = ?", *viewer, r.ID)
		resp.IsInShoppingCart = s.pairExists(&models.ShoppingCart{}, "user_id = ? AND recipe_id = ?", *viewer, r.ID)
	}
	return resp
}

func (s *Serializer) ShortRecipe(r *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// Subscription renders a followed author together with a preview of their
// recipes. recipesLimit <= 0 means no limit.
func (s *Serializer) Subscription(viewer *uuid.UUID, author *models.User, recipes []models.Recipe, recipesCount int64) SubscriptionResponse {
	preview := make([]ShortRecipeResponse, 0, len(recipes))
	for i := range recipes {
		preview = append(preview, s.ShortRecipe(&recipes[i]))
	}
	return SubscriptionResponse{
		UserResponse: s.User(viewer, author),
		Recipes:      preview,
		RecipesCount: recipesCount,
	}
}

// pairExists degrades to false when the lookup fails; the booleans are
// presentation data and must not fail the whole response.
func (s *Serializer) pairExists(model interface{}, cond string, args ...interface{}) bool {
	var count int64
	if err := s.db.Model(model).Where(cond, args...).Count(&count).Error; err != nil {
		log.Printf("relation lookup failed: %v", err)
		return false
	}
	return count > 0
}
