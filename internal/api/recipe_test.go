package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/testhelpers"
)

type recipePayload struct {
	tag        *models.Tag
	ingredient *models.Ingredient
}

func seedReferenceData(t *testing.T, db *gorm.DB) recipePayload {
	t.Helper()
	return recipePayload{
		tag:        testhelpers.CreateTestTag(t, db, "Dinner", nextColor(), "dinner"),
		ingredient: testhelpers.CreateTestIngredient(t, db, "salt", "g"),
	}
}

func (p recipePayload) request() gin.H {
	return gin.H{
		"name":         "Salted soup",
		"text":         "Boil water, add salt.",
		"cooking_time": 30,
		"image":        testImage,
		"tags":         []string{p.tag.ID.String()},
		"ingredients":  []gin.H{{"id": p.ingredient.ID.String(), "amount": 5}},
	}
}

func createRecipeHTTP(t *testing.T, r *gin.Engine, token string, payload gin.H) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func TestCreateRecipeEndpoint(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	body := createRecipeHTTP(t, r, token, refs.request())

	assert.Equal(t, "Salted soup", body["name"])
	assert.EqualValues(t, 30, body["cooking_time"])
	assert.Equal(t, false, body["is_favorited"])
	assert.Equal(t, false, body["is_in_shopping_cart"])

	author := body["author"].(map[string]interface{})
	assert.Equal(t, false, author["is_subscribed"])

	ingredients := body["ingredients"].([]interface{})
	require.Len(t, ingredients, 1)
	row := ingredients[0].(map[string]interface{})
	assert.Equal(t, "salt", row["name"])
	assert.Equal(t, "g", row["measurement_unit"])
	assert.EqualValues(t, 5, row["amount"])
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)

	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", "", refs.request())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeRequiresImage(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	payload := refs.request()
	delete(payload, "image")
	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecipeBadCookingTime(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	payload := refs.request()
	payload["cooking_time"] = -1
	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecipeOnlyAuthor(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")
	_, otherToken := registerUser(t, r, "imposter")

	body := createRecipeHTTP(t, r, token, refs.request())
	id := body["id"].(string)

	payload := refs.request()
	payload["name"] = "Stolen soup"
	delete(payload, "image")

	w := doJSON(t, r, http.MethodPatch, "/api/v1/recipes/"+id, otherToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/recipes/"+id, token, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Stolen soup", decodeBody(t, w)["name"])
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	body := createRecipeHTTP(t, r, token, refs.request())
	id := body["id"].(string)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/recipes/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteEndpointLifecycle(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	body := createRecipeHTTP(t, r, token, refs.request())
	id := body["id"].(string)

	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/favorite", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	short := decodeBody(t, w)
	assert.Equal(t, "Salted soup", short["name"])
	assert.Contains(t, short, "image")
	assert.Contains(t, short, "cooking_time")

	// A second favorite of the same recipe is an error, not a no-op.
	w = doJSON(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_favorited"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/recipes/"+id+"/favorite", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Removing a relation that is not there is also an error.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/recipes/"+id+"/favorite", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	body := createRecipeHTTP(t, r, token, refs.request())
	id := body["id"].(string)

	w := doJSON(t, r, http.MethodPost, "/api/v1/recipes/"+id+"/shopping_cart", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_cart.txt")
	assert.Equal(t, "Shopping list:\nsalt (g) - 5\n", w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "name,measurement_unit,amount\nsalt,g,5\n", w.Body.String())
}

func TestDownloadShoppingCartEmpty(t *testing.T) {
	r, _ := setupAPITest(t)
	_, token := registerUser(t, r, "chef")

	w := doJSON(t, r, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list:\n", w.Body.String())
}

func TestListRecipesEndpoint(t *testing.T) {
	r, db := setupAPITest(t)
	refs := seedReferenceData(t, db)
	_, token := registerUser(t, r, "chef")

	createRecipeHTTP(t, r, token, refs.request())
	second := refs.request()
	second["name"] = "Another soup"
	createRecipeHTTP(t, r, token, second)

	w := doJSON(t, r, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["count"])
	assert.Len(t, body["results"].([]interface{}), 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes?tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/recipes?tags=nonexistent", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["count"])
}

func TestTagAndIngredientEndpoints(t *testing.T) {
	r, db := setupAPITest(t)
	seedReferenceData(t, db)
	testhelpers.CreateTestIngredient(t, db, "sea salt", "g")

	w := doJSON(t, r, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/ingredients?name=salt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
