package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// RecipeService assembles a recipe together with its tag set and its
// ingredient-quantity rows as one unit. All field validation happens
// before the first write, and every multi-row mutation runs inside a
// single transaction so a failed create or update never leaves a
// partially-assembled recipe behind.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmount is one (ingredient, quantity) entry of a write request.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter describes the list query. All filters combine with AND.
type RecipeFilter struct {
	TagSlugs       []string
	AuthorID       *uuid.UUID
	Favorited      bool
	InShoppingCart bool
	Viewer         *uuid.UUID
	Page           int
	Limit          int
}

func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	tags, rows, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    in.ImageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateIngredientInRecipe
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces the tag set and the ingredient rows wholesale, then
// updates the scalar fields, all in one transaction. Only the author may
// update; in.ImageURL may be empty to keep the stored image.
func (s *RecipeService) Update(ctx context.Context, recipeID, userID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	tags, rows, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateIngredientInRecipe
			}
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

func (s *RecipeService) Delete(ctx context.Context, recipeID, userID uuid.UUID) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotAuthor
	}

	// FK constraints cascade the ingredient, favorite and cart rows.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
}

func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns the newest recipes first, with all filters AND-combined.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(f.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if f.Favorited && f.Viewer != nil {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *f.Viewer))
	}
	if f.InShoppingCart && f.Viewer != nil {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *f.Viewer))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ByAuthor returns the author's recipes, newest first, truncated to limit
// when limit is positive.
func (s *RecipeService) ByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// validate performs every field and reference check before any write and
// resolves the referenced tags and ingredients.
func (s *RecipeService) validate(ctx context.Context, in RecipeInput) ([]models.Tag, []models.RecipeIngredient, error) {
	if in.CookingTime < MinCookingTime || in.CookingTime > MaxCookingTime {
		return nil, nil, cookingTimeOutOfRange(in.CookingTime)
	}
	if len(in.TagIDs) == 0 {
		return nil, nil, &FieldError{Field: "tags", Message: "at least one tag is required"}
	}
	if len(in.Ingredients) == 0 {
		return nil, nil, &FieldError{Field: "ingredients", Message: "at least one ingredient is required"}
	}

	seen := make(map[uuid.UUID]struct{}, len(in.Ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		if ia.Amount < MinIngredientAmount || ia.Amount > MaxIngredientAmount {
			return nil, nil, quantityOutOfRange(ia.Amount)
		}
		if _, dup := seen[ia.IngredientID]; dup {
			return nil, nil, ErrDuplicateIngredientInRecipe
		}
		seen[ia.IngredientID] = struct{}{}
		ingredientIDs = append(ingredientIDs, ia.IngredientID)
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", dedupe(in.TagIDs)).Find(&tags).Error; err != nil {
		return nil, nil, err
	}
	if len(tags) != len(dedupe(in.TagIDs)) {
		return nil, nil, ErrUnknownTag
	}

	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ingredientIDs).Find(&ingredients).Error; err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, nil, ErrUnknownIngredient
	}

	rows := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for _, ia := range in.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			IngredientID: ia.IngredientID,
			Amount:       ia.Amount,
		})
	}
	return tags, rows, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
