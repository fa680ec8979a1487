package service

import (
	"context"
	"strings"
	"testing"

	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/internal/app/repository"
	"github.com/heladeria/flavor-catalog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }

func setupFlavorServiceTest(t *testing.T) FlavorService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	flavorRepo := repository.NewFlavorRepository(testDB)
	return NewFlavorService(testDB, flavorRepo)
}

func TestFlavorService_CreateFlavor(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	flavor, err := flavorService.CreateFlavor(ctx, FlavorInput{
		Name:  strPtr("  Pistachio "),
		Price: floatPtr(3.5),
	})
	require.NoError(t, err)
	assert.NotZero(t, flavor.ID)
	assert.Equal(t, "Pistachio", flavor.Name)
	assert.True(t, flavor.Available)
	assert.Equal(t, model.DefaultImagePath, flavor.ImagePath)
	assert.Nil(t, flavor.Description)
}

func TestFlavorService_CreateFlavor_Validation(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input FlavorInput
		field string
	}{
		{name: "Missing name", input: FlavorInput{Price: floatPtr(2)}, field: "name"},
		{name: "Missing price", input: FlavorInput{Name: strPtr("Coco")}, field: "price"},
		{name: "Blank name", input: FlavorInput{Name: strPtr("   "), Price: floatPtr(2)}, field: "name"},
		{name: "Zero price", input: FlavorInput{Name: strPtr("Coco"), Price: floatPtr(0)}, field: "price"},
		{name: "Negative price", input: FlavorInput{Name: strPtr("Coco"), Price: floatPtr(-1.5)}, field: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flavor, err := flavorService.CreateFlavor(ctx, tt.input)
			assert.Nil(t, flavor)
			require.ErrorIs(t, err, ErrInvalidFlavor)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	count, err := flavorService.CountFlavors(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFlavorService_CreateFlavor_NameLengthCountsCharacters(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	accented := strings.Repeat("á", 60)
	flavor, err := flavorService.CreateFlavor(ctx, FlavorInput{
		Name:      strPtr(accented),
		Price:     floatPtr(2.5),
		ImagePath: strPtr("img/" + strings.Repeat("ñ", 150) + ".png"),
	})
	require.NoError(t, err)
	assert.Equal(t, accented, flavor.Name)

	_, err = flavorService.CreateFlavor(ctx, FlavorInput{
		Name:  strPtr(strings.Repeat("é", 101)),
		Price: floatPtr(2.5),
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestFlavorService_CreateFlavor_DuplicateName(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	_, err := flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(2)})
	require.NoError(t, err)

	_, err = flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(4)})
	assert.ErrorIs(t, err, ErrFlavorNameTaken)

	count, err := flavorService.CountFlavors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFlavorService_CreateFlavor_Unavailable(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	created, err := flavorService.CreateFlavor(ctx, FlavorInput{
		Name:      strPtr("Menta"),
		Price:     floatPtr(3),
		Available: boolPtr(false),
	})
	require.NoError(t, err)

	found, err := flavorService.GetFlavor(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found.Available)
}

func TestFlavorService_GetFlavor(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	created, err := flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(2)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      uint
		wantErr error
	}{
		{name: "Existing flavor", id: created.ID},
		{name: "Non-existing flavor", id: 9999, wantErr: ErrFlavorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := flavorService.GetFlavor(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Coco", found.Name)
		})
	}
}

func TestFlavorService_UpdateFlavor_Partial(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	created, err := flavorService.CreateFlavor(ctx, FlavorInput{
		Name:        strPtr("Coco"),
		Description: strPtr("Tropical"),
		Price:       floatPtr(2),
		ImagePath:   strPtr("img/coco.jpg"),
	})
	require.NoError(t, err)

	updated, err := flavorService.UpdateFlavor(ctx, created.ID, FlavorInput{Price: floatPtr(2.25)})
	require.NoError(t, err)
	assert.Equal(t, 2.25, updated.Price)

	found, err := flavorService.GetFlavor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coco", found.Name)
	assert.Equal(t, "Tropical", found.DescriptionText())
	assert.Equal(t, 2.25, found.Price)
	assert.True(t, found.Available)
	assert.Equal(t, "img/coco.jpg", found.ImagePath)
}

func TestFlavorService_UpdateFlavor_Errors(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	coco, err := flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(2)})
	require.NoError(t, err)
	_, err = flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Limón"), Price: floatPtr(2)})
	require.NoError(t, err)

	t.Run("Unknown id", func(t *testing.T) {
		_, err := flavorService.UpdateFlavor(ctx, 9999, FlavorInput{Price: floatPtr(3)})
		assert.ErrorIs(t, err, ErrFlavorNotFound)
	})

	t.Run("Bad price", func(t *testing.T) {
		_, err := flavorService.UpdateFlavor(ctx, coco.ID, FlavorInput{Price: floatPtr(0)})
		assert.ErrorIs(t, err, ErrInvalidFlavor)
	})

	t.Run("Empty patch", func(t *testing.T) {
		_, err := flavorService.UpdateFlavor(ctx, coco.ID, FlavorInput{})
		assert.ErrorIs(t, err, ErrInvalidFlavor)
	})

	t.Run("Rename to taken name", func(t *testing.T) {
		_, err := flavorService.UpdateFlavor(ctx, coco.ID, FlavorInput{Name: strPtr("Limón")})
		assert.ErrorIs(t, err, ErrFlavorNameTaken)

		found, err := flavorService.GetFlavor(ctx, coco.ID)
		require.NoError(t, err)
		assert.Equal(t, "Coco", found.Name)
	})

	t.Run("Rename to own name", func(t *testing.T) {
		updated, err := flavorService.UpdateFlavor(ctx, coco.ID, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(2.5)})
		require.NoError(t, err)
		assert.Equal(t, 2.5, updated.Price)
	})
}

func TestFlavorService_DeleteFlavor(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	created, err := flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(2)})
	require.NoError(t, err)

	deleted, err := flavorService.DeleteFlavor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coco", deleted.Name)

	_, err = flavorService.GetFlavor(ctx, created.ID)
	assert.ErrorIs(t, err, ErrFlavorNotFound)

	_, err = flavorService.DeleteFlavor(ctx, created.ID)
	assert.ErrorIs(t, err, ErrFlavorNotFound)
}

func TestFlavorService_ListFlavors_AvailableSortedByName(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	for _, in := range []FlavorInput{
		{Name: strPtr("Vainilla"), Price: floatPtr(2.5)},
		{Name: strPtr("Menta"), Price: floatPtr(3), Available: boolPtr(false)},
		{Name: strPtr("Chocolate"), Price: floatPtr(3)},
		{Name: strPtr("Fresa"), Price: floatPtr(2.75)},
	} {
		_, err := flavorService.CreateFlavor(ctx, in)
		require.NoError(t, err)
	}

	available, err := flavorService.ListFlavors(ctx, AvailableOnly())
	require.NoError(t, err)
	require.Len(t, available, 3)

	var names []string
	for _, f := range available {
		assert.True(t, f.Available)
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Chocolate", "Fresa", "Vainilla"}, names)

	all, err := flavorService.ListFlavors(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	unavailable, err := flavorService.ListFlavors(ctx, ListOptions{Available: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, unavailable, 1)
	assert.Equal(t, "Menta", unavailable[0].Name)
}

func TestFlavorService_ImportFlavors(t *testing.T) {
	flavorService := setupFlavorServiceTest(t)
	ctx := context.Background()

	_, err := flavorService.CreateFlavor(ctx, FlavorInput{Name: strPtr("Coco"), Price: floatPtr(2)})
	require.NoError(t, err)

	result, err := flavorService.ImportFlavors(ctx, []FlavorInput{
		{Name: strPtr("Coco"), Price: floatPtr(2)},
		{Name: strPtr("Mango"), Price: floatPtr(2.8)},
		{Name: strPtr("Broken"), Price: floatPtr(-1)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 3")
}
