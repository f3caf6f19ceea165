package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/api"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/testhelpers"
)

func TestSerializerDegradesOnLookupFailure(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	viewer := testhelpers.CreateTestUser(t, db, "viewer")

	recipe := models.Recipe{
		AuthorID:    viewer.ID,
		Name:        "Soup",
		Text:        "Boil water.",
		CookingTime: 5,
	}
	require.NoError(t, db.Create(&recipe).Error)

	// A broken favorites lookup renders as false instead of failing the
	// whole response.
	require.NoError(t, db.Migrator().DropTable(&models.Favorite{}))

	resp := api.NewSerializer(db).Recipe(&viewer.ID, &recipe)
	assert.False(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)
	assert.Equal(t, "Soup", resp.Name)
}
