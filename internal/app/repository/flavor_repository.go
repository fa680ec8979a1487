package repository

import (
	"context"

	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/pkg/logger"
	"gorm.io/gorm"
)

// FlavorFilter narrows FindAll. A nil Available matches every flavor.
type FlavorFilter struct {
	Available *bool
}

type FlavorRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) FlavorRepository
	Create(ctx context.Context, flavor *model.Flavor) error
	FindAll(ctx context.Context, filter FlavorFilter) ([]model.Flavor, error)
	FindByID(ctx context.Context, id uint) (*model.Flavor, error)
	// NameTaken reports whether another flavor (id != excludeID) uses name.
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, flavor *model.Flavor) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type flavorRepository struct {
	db *gorm.DB
}

func NewFlavorRepository(db *gorm.DB) FlavorRepository {
	return &flavorRepository{db: db}
}

func (r *flavorRepository) WithTx(tx *gorm.DB) FlavorRepository {
	return &flavorRepository{db: tx}
}

func (r *flavorRepository) Create(ctx context.Context, flavor *model.Flavor) error {
	logger.Debug("Creating flavor in database", map[string]interface{}{
		"name":  flavor.Name,
		"price": flavor.Price,
	})

	if err := r.db.WithContext(ctx).Create(flavor).Error; err != nil {
		logger.Error("Failed to create flavor in database", err, map[string]interface{}{
			"name": flavor.Name,
		})
		return err
	}

	logger.Debug("Flavor created in database", map[string]interface{}{
		"flavor_id": flavor.ID,
		"name":      flavor.Name,
	})
	return nil
}

func (r *flavorRepository) FindAll(ctx context.Context, filter FlavorFilter) ([]model.Flavor, error) {
	logger.Debug("Finding flavors", map[string]interface{}{
		"available": filter.Available,
	})

	query := r.db.WithContext(ctx).Model(&model.Flavor{})
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}

	flavors := []model.Flavor{}
	if err := query.Order("name ASC").Order("id ASC").Find(&flavors).Error; err != nil {
		logger.Error("Failed to find flavors", err, map[string]interface{}{
			"available": filter.Available,
		})
		return nil, err
	}

	logger.Debug("Flavors found", map[string]interface{}{
		"count": len(flavors),
	})
	return flavors, nil
}

func (r *flavorRepository) FindByID(ctx context.Context, id uint) (*model.Flavor, error) {
	var flavor model.Flavor
	if err := r.db.WithContext(ctx).First(&flavor, id).Error; err != nil {
		return nil, err
	}
	return &flavor, nil
}

func (r *flavorRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Flavor{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check flavor name", err, map[string]interface{}{
			"name": name,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *flavorRepository) Update(ctx context.Context, flavor *model.Flavor) error {
	logger.Debug("Updating flavor in database", map[string]interface{}{
		"flavor_id": flavor.ID,
		"name":      flavor.Name,
	})

	if err := r.db.WithContext(ctx).Save(flavor).Error; err != nil {
		logger.Error("Failed to update flavor in database", err, map[string]interface{}{
			"flavor_id": flavor.ID,
		})
		return err
	}
	return nil
}

// Delete removes the row permanently. gorm.ErrRecordNotFound is returned
// when nothing matched.
func (r *flavorRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting flavor from database", map[string]interface{}{
		"flavor_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.Flavor{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete flavor from database", result.Error, map[string]interface{}{
			"flavor_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Flavor deleted from database", map[string]interface{}{
		"flavor_id": id,
	})
	return nil
}

func (r *flavorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Flavor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
