package integration_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/testhelpers"
)

// TestPostgresRecipeFlow runs the main write path against a real postgres
// to catch dialect differences the in-memory SQLite tests cannot.
func TestPostgresRecipeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "chef")
	eater := testhelpers.CreateTestUser(t, db, "eater")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, db, "salt", "g")
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")

	recipes := service.NewRecipeService(db)
	relations := service.NewRelationService(db)
	shopping := service.NewShoppingListService(db)

	bread, err := recipes.Create(ctx, author.ID, service.RecipeInput{
		Name:        "Bread",
		Text:        "Mix and bake.",
		CookingTime: 90,
		ImageURL:    "/media/recipes/images/bread.jpg",
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []service.IngredientAmount{
			{IngredientID: salt.ID, Amount: 5},
			{IngredientID: flour.ID, Amount: 500},
		},
	})
	require.NoError(t, err)

	pretzel, err := recipes.Create(ctx, author.ID, service.RecipeInput{
		Name:        "Pretzel",
		Text:        "Twist and bake.",
		CookingTime: 45,
		ImageURL:    "/media/recipes/images/pretzel.jpg",
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []service.IngredientAmount{
			{IngredientID: salt.ID, Amount: 10},
		},
	})
	require.NoError(t, err)

	// Duplicate relations come back as the domain error, translated from
	// the postgres unique violation when the pre-check is raced.
	require.NoError(t, relations.AddToCart(ctx, eater.ID, bread.ID))
	require.NoError(t, relations.AddToCart(ctx, eater.ID, pretzel.ID))
	assert.ErrorIs(t, relations.AddToCart(ctx, eater.ID, bread.ID), service.ErrDuplicateRelation)

	items, err := shopping.Aggregate(ctx, eater.ID)
	require.NoError(t, err)
	assert.Equal(t, []service.ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "salt", MeasurementUnit: "g", Amount: 15},
	}, items)

	// The self-follow check constraint holds at the database level too.
	require.NoError(t, relations.Follow(ctx, eater.ID, author.ID))
	assert.ErrorIs(t, relations.Follow(ctx, eater.ID, eater.ID), service.ErrSelfRelationNotAllowed)

	require.NoError(t, recipes.Delete(ctx, bread.ID, author.ID))
	_, err = recipes.Get(ctx, bread.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}
