package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "CSV file with ingredient name and measurement unit columns")
	tagsPath := flag.String("tags", "data/tags.csv", "CSV file with tag name, color and slug columns")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ingredients, err := seedIngredients(db, *ingredientsPath)
	if err != nil {
		log.Fatalf("failed to seed ingredients: %v", err)
	}
	fmt.Printf("Seeded %d ingredients\n", ingredients)

	tags, err := seedTags(db, *tagsPath)
	if err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}
	fmt.Printf("Seeded %d tags\n", tags)
}

func seedIngredients(db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(record) != 2 {
			return count, fmt.Errorf("expected 2 columns, got %d: %v", len(record), record)
		}
		name, unit := record[0], record[1]
		if name == "" || unit == "" {
			return count, fmt.Errorf("empty name or unit in row: %v", record)
		}

		ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
		res := db.Where("name = ? AND measurement_unit = ?", name, unit).FirstOrCreate(&ingredient)
		if res.Error != nil {
			return count, res.Error
		}
		if res.RowsAffected > 0 {
			count++
		}
	}
	return count, nil
}

func seedTags(db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(record) != 3 {
			return count, fmt.Errorf("expected 3 columns, got %d: %v", len(record), record)
		}
		name, color, slug := record[0], record[1], record[2]
		if !hexColorRe.MatchString(color) {
			return count, fmt.Errorf("invalid hex color %q for tag %q", color, name)
		}
		if !slugRe.MatchString(slug) {
			return count, fmt.Errorf("invalid slug %q for tag %q", slug, name)
		}

		tag := models.Tag{Name: name, Color: color, Slug: slug}
		res := db.Where("slug = ?", slug).FirstOrCreate(&tag)
		if res.Error != nil {
			return count, res.Error
		}
		if res.RowsAffected > 0 {
			count++
		}
	}
	return count, nil
}
