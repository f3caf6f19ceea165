package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingListHeader is the first line of the rendered text artifact. It
// is emitted even for an empty cart.
const ShoppingListHeader = "Shopping list:"

// ShoppingItem is one aggregated line of the shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService aggregates the ingredient rows of every recipe in a
// user's shopping cart. Grouping is by (ingredient name, measurement
// unit), not ingredient id: two distinct ingredient rows sharing name and
// unit merge into one line. That matches the observed behavior of the
// product and must not be changed without product confirmation.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate returns the summed quantities, ordered by ingredient name
// ascending. An empty cart yields an empty slice, not an error.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderText renders the aggregated list as a line-oriented text file:
// the header line, then one "{name} ({unit}) - {total}" line per group.
func RenderText(items []ShoppingItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}

// RenderCSV renders the same aggregated data as a tabular CSV artifact.
func RenderCSV(items []ShoppingItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := w.Write([]string{item.Name, item.MeasurementUnit, strconv.Itoa(item.Amount)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
