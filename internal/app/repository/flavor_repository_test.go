package repository

import (
	"context"
	"testing"

	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFlavorTest(t *testing.T) (*gorm.DB, FlavorRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewFlavorRepository(testDB)
	return testDB, repo
}

func TestFlavorRepository_Create(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)

	desc := "Pure vanilla beans"
	flavor := &model.Flavor{
		Name:        "Vainilla",
		Description: &desc,
		Price:       2.5,
		Available:   true,
		ImagePath:   "img/flavor1.jpg",
	}

	err := repo.Create(context.Background(), flavor)
	assert.NoError(t, err)
	assert.NotZero(t, flavor.ID)
}

func TestFlavorRepository_Create_DuplicateName(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Flavor{Name: "Coco", Price: 2, ImagePath: model.DefaultImagePath}))

	err := repo.Create(ctx, &model.Flavor{Name: "Coco", Price: 3, ImagePath: model.DefaultImagePath})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFlavorRepository_FindAll(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	flavors := []model.Flavor{
		{Name: "Vainilla", Price: 2.5, Available: true},
		{Name: "Menta", Price: 3.2, Available: false},
		{Name: "Chocolate", Price: 3, Available: true},
	}
	for i := range flavors {
		require.NoError(t, repo.Create(ctx, &flavors[i]))
	}

	all, err := repo.FindAll(ctx, FlavorFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Chocolate", all[0].Name)
	assert.Equal(t, "Menta", all[1].Name)

	onOffer := true
	available, err := repo.FindAll(ctx, FlavorFilter{Available: &onOffer})
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "Chocolate", available[0].Name)
	assert.Equal(t, "Vainilla", available[1].Name)

	offMenu := false
	unavailable, err := repo.FindAll(ctx, FlavorFilter{Available: &offMenu})
	require.NoError(t, err)
	require.Len(t, unavailable, 1)
	assert.Equal(t, "Menta", unavailable[0].Name)
}

func TestFlavorRepository_FindByID(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	flavor := &model.Flavor{Name: "Fresa", Price: 2.75, Available: true}
	require.NoError(t, repo.Create(ctx, flavor))

	tests := []struct {
		name    string
		id      uint
		wantErr bool
	}{
		{name: "Existing flavor", id: flavor.ID, wantErr: false},
		{name: "Non-existing flavor", id: 9999, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(ctx, tt.id)

			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, flavor.Name, found.Name)
			}
		})
	}
}

func TestFlavorRepository_NameTaken(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	flavor := &model.Flavor{Name: "Mango", Price: 2.8, Available: true}
	require.NoError(t, repo.Create(ctx, flavor))

	taken, err := repo.NameTaken(ctx, "Mango", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NameTaken(ctx, "Mango", flavor.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.NameTaken(ctx, "Coco", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestFlavorRepository_Update(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	flavor := &model.Flavor{Name: "Mango", Price: 2.8, Available: true}
	require.NoError(t, repo.Create(ctx, flavor))

	flavor.Available = false
	flavor.Price = 3.1
	require.NoError(t, repo.Update(ctx, flavor))

	found, err := repo.FindByID(ctx, flavor.ID)
	require.NoError(t, err)
	assert.False(t, found.Available)
	assert.Equal(t, 3.1, found.Price)
}

func TestFlavorRepository_Delete(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	flavor := &model.Flavor{Name: "Mango", Price: 2.8, Available: true}
	require.NoError(t, repo.Create(ctx, flavor))

	require.NoError(t, repo.Delete(ctx, flavor.ID))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(ctx, flavor.ID), gorm.ErrRecordNotFound)
}

func TestFlavorRepository_WithTx_Rollback(t *testing.T) {
	testDB, repo := setupFlavorTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	err := testDB.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, &model.Flavor{Name: "Temp", Price: 1}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
