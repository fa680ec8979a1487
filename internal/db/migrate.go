package db

import (
	"context"

	"github.com/heladeria/flavor-catalog/internal/app/model"
	"github.com/heladeria/flavor-catalog/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Flavor{},
	}

	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

func strPtr(s string) *string { return &s }

// InitialFlavors is the starter catalog inserted into an empty database.
func InitialFlavors() []model.Flavor {
	return []model.Flavor{
		{Name: "Vainilla Clásica", Description: strPtr("El sabor dulce y cremoso de siempre."), Price: 2.50, Available: true, ImagePath: "img/flavor1.png"},
		{Name: "Chocolate Intenso", Description: strPtr("El chocolate más puro y delicioso."), Price: 3.00, Available: true, ImagePath: "img/flavor2.png"},
		{Name: "Fresa Fresca", Description: strPtr("Hecho con fresas naturales de temporada."), Price: 2.75, Available: true, ImagePath: "img/flavor3.png"},
		{Name: "Menta Chips", Description: strPtr("Refrescante menta con trozos de chocolate."), Price: 3.20, Available: false, ImagePath: "img/flavor4.png"},
		{Name: "Mango Tropical", Description: strPtr("El exótico sabor del mango recién cortado."), Price: 2.80, Available: true, ImagePath: "img/flavor5.png"},
	}
}

// Seed inserts InitialFlavors only when the flavors table is empty.
func Seed(ctx context.Context, conn *gorm.DB) error {
	var count int64
	if err := conn.WithContext(ctx).Model(&model.Flavor{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Flavors already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	flavors := InitialFlavors()
	if err := conn.WithContext(ctx).Create(&flavors).Error; err != nil {
		logger.Error("Failed to seed flavors", err)
		return err
	}

	logger.Info("Initial flavors seeded successfully", map[string]interface{}{
		"count": len(flavors),
	})
	return nil
}
