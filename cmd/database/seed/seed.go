// Package seed loads the ingredient catalog from a JSON or CSV file.
package seed

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/pkg/ingredient"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// ParseIngredients reads [{"name": ..., "measurement_unit": ...}] for json
// and "name,measurement_unit" rows for csv. A csv header row is skipped.
func ParseIngredients(r io.Reader, format string) ([]domain.CreateIngredientRequest, error) {
	switch strings.ToLower(format) {
	case "json":
		var items []domain.CreateIngredientRequest
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	case "csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = 2
		reader.TrimLeadingSpace = true

		var items []domain.CreateIngredientRequest
		for line := 0; ; line++ {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if line == 0 && record[0] == "name" && record[1] == "measurement_unit" {
				continue
			}
			items = append(items, domain.CreateIngredientRequest{Name: record[0], MeasurementUnit: record[1]})
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Ingredients inserts every (name, unit) pair that is not stored yet and
// returns the number of created rows.
func Ingredients(ctx context.Context, repo ingredient.IngredientRepository, items []domain.CreateIngredientRequest) (int, error) {
	created := 0
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		unit := strings.TrimSpace(item.MeasurementUnit)
		if name == "" || unit == "" {
			continue
		}

		exists, err := repo.Exists(ctx, name, unit)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if err := repo.CreateIngredient(ctx, &entities.Ingredient{Name: name, MeasurementUnit: unit}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func FromFile(ctx context.Context, repo ingredient.IngredientRepository, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	items, err := ParseIngredients(file, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return 0, err
	}

	created, err := Ingredients(ctx, repo, items)
	if err != nil {
		return created, err
	}
	logging.Info().
		Str("file", path).
		Int("read", len(items)).
		Int("created", created).
		Msg("ingredients seeded")
	return created, nil
}
