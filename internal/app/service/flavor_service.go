package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/internal/app/repository"
	"github.com/heladeria/flavor-catalog/pkg/logger"
	"github.com/heladeria/flavor-catalog/pkg/metrics"
	"gorm.io/gorm"
)

var (
	ErrFlavorNotFound  = errors.New("flavor not found")
	ErrFlavorNameTaken = errors.New("flavor name already exists")
)

// ListOptions filters ListFlavors. A nil Available lists every flavor.
type ListOptions struct {
	Available *bool
}

// AvailableOnly lists the flavors currently on offer.
func AvailableOnly() ListOptions {
	available := true
	return ListOptions{Available: &available}
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Created int
	Skipped int
	Failed  int
	Errors  []string
}

type FlavorService interface {
	ListFlavors(ctx context.Context, opts ListOptions) ([]model.Flavor, error)
	GetFlavor(ctx context.Context, id uint) (*model.Flavor, error)
	CreateFlavor(ctx context.Context, input FlavorInput) (*model.Flavor, error)
	UpdateFlavor(ctx context.Context, id uint, input FlavorInput) (*model.Flavor, error)
	DeleteFlavor(ctx context.Context, id uint) (*model.Flavor, error)
	CountFlavors(ctx context.Context) (int64, error)
	ImportFlavors(ctx context.Context, inputs []FlavorInput) (ImportResult, error)
}

type flavorService struct {
	db         *gorm.DB
	flavorRepo repository.FlavorRepository
}

func NewFlavorService(db *gorm.DB, flavorRepo repository.FlavorRepository) FlavorService {
	return &flavorService{
		db:         db,
		flavorRepo: flavorRepo,
	}
}

func (s *flavorService) ListFlavors(ctx context.Context, opts ListOptions) ([]model.Flavor, error) {
	flavors, err := s.flavorRepo.FindAll(ctx, repository.FlavorFilter{Available: opts.Available})
	if err != nil {
		logger.Error("Failed to list flavors", err)
		return nil, err
	}
	return flavors, nil
}

func (s *flavorService) GetFlavor(ctx context.Context, id uint) (*model.Flavor, error) {
	flavor, err := s.flavorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Flavor not found", map[string]interface{}{
				"flavor_id": id,
			})
			return nil, ErrFlavorNotFound
		}
		logger.Error("Failed to fetch flavor", err, map[string]interface{}{
			"flavor_id": id,
		})
		return nil, err
	}
	return flavor, nil
}

func (s *flavorService) CreateFlavor(ctx context.Context, input FlavorInput) (*model.Flavor, error) {
	if err := input.validate(true); err != nil {
		metrics.RecordFlavorOperation("create", "invalid")
		return nil, err
	}
	flavor := input.newFlavor()

	logger.Info("Creating new flavor", map[string]interface{}{
		"name":  flavor.Name,
		"price": flavor.Price,
	})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.flavorRepo.WithTx(tx)
		if err := ensureNameFree(ctx, repo, flavor.Name, 0); err != nil {
			return err
		}
		return repo.Create(ctx, flavor)
	})
	if err != nil {
		err = normalizeWriteError(err)
		metrics.RecordFlavorOperation("create", resultLabel(err))
		logWriteFailure("create", err, flavor.ID, flavor.Name)
		return nil, err
	}

	metrics.RecordFlavorOperation("create", "ok")
	s.refreshCatalogSize(ctx)
	logger.Info("Flavor created successfully", map[string]interface{}{
		"flavor_id": flavor.ID,
		"name":      flavor.Name,
	})
	return flavor, nil
}

func (s *flavorService) UpdateFlavor(ctx context.Context, id uint, input FlavorInput) (*model.Flavor, error) {
	if err := input.validate(false); err != nil {
		metrics.RecordFlavorOperation("update", "invalid")
		return nil, err
	}

	logger.Info("Updating flavor", map[string]interface{}{
		"flavor_id": id,
	})

	var updated *model.Flavor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.flavorRepo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		input.applyTo(existing)
		if input.Name != nil {
			if err := ensureNameFree(ctx, repo, existing.Name, existing.ID); err != nil {
				return err
			}
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		err = normalizeWriteError(err)
		metrics.RecordFlavorOperation("update", resultLabel(err))
		logWriteFailure("update", err, id, "")
		return nil, err
	}

	metrics.RecordFlavorOperation("update", "ok")
	logger.Info("Flavor updated successfully", map[string]interface{}{
		"flavor_id": updated.ID,
		"name":      updated.Name,
	})
	return updated, nil
}

// DeleteFlavor removes the flavor and returns the row as it was.
func (s *flavorService) DeleteFlavor(ctx context.Context, id uint) (*model.Flavor, error) {
	logger.Info("Deleting flavor", map[string]interface{}{
		"flavor_id": id,
	})

	var deleted *model.Flavor
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.flavorRepo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		err = normalizeWriteError(err)
		metrics.RecordFlavorOperation("delete", resultLabel(err))
		logWriteFailure("delete", err, id, "")
		return nil, err
	}

	metrics.RecordFlavorOperation("delete", "ok")
	s.refreshCatalogSize(ctx)
	logger.Info("Flavor deleted successfully", map[string]interface{}{
		"flavor_id": id,
	})
	return deleted, nil
}

func (s *flavorService) CountFlavors(ctx context.Context) (int64, error) {
	return s.flavorRepo.Count(ctx)
}

// ImportFlavors creates each input in its own transaction. Names that already
// exist are skipped rather than overwritten.
func (s *flavorService) ImportFlavors(ctx context.Context, inputs []FlavorInput) (ImportResult, error) {
	var result ImportResult
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		_, err := s.CreateFlavor(ctx, input)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, ErrFlavorNameTaken):
			result.Skipped++
		case errors.Is(err, ErrInvalidFlavor):
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		default:
			return result, err
		}
	}

	logger.Info("Flavor import finished", map[string]interface{}{
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	})
	return result, nil
}

func (s *flavorService) refreshCatalogSize(ctx context.Context) {
	count, err := s.flavorRepo.Count(ctx)
	if err != nil {
		logger.Warn("Failed to refresh catalog size metric", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.SetCatalogSize(count)
}

func ensureNameFree(ctx context.Context, repo repository.FlavorRepository, name string, excludeID uint) error {
	taken, err := repo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrFlavorNameTaken
	}
	return nil
}

// normalizeWriteError maps storage errors onto the service's error kinds.
func normalizeWriteError(err error) error {
	switch {
	case errors.Is(err, ErrFlavorNameTaken), errors.Is(err, ErrFlavorNotFound):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrFlavorNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrFlavorNameTaken
	default:
		return fmt.Errorf("flavor write failed: %w", err)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrFlavorNotFound):
		return "not_found"
	case errors.Is(err, ErrFlavorNameTaken):
		return "conflict"
	default:
		return "error"
	}
}

func logWriteFailure(op string, err error, id uint, name string) {
	fields := map[string]interface{}{
		"operation": op,
		"flavor_id": id,
	}
	if name != "" {
		fields["name"] = name
	}
	if errors.Is(err, ErrFlavorNotFound) || errors.Is(err, ErrFlavorNameTaken) {
		fields["reason"] = err.Error()
		logger.Warn("Flavor write rejected", fields)
		return
	}
	logger.Error("Flavor write failed, transaction rolled back", err, fields)
}
