package taxonomy

import (
	"errors"
	"log/slog"

	"github.com/voicenative/backend/internal/models"
	"gorm.io/gorm"
)

// Seed upserts the registry's categories into the database by slug. Existing
// rows keep their id so listing references stay valid across deploys.
func Seed(db *gorm.DB, registry *Registry) error {
	for _, cfg := range registry.All() {
		var existing models.Category
		err := db.Where("slug = ?", cfg.Slug).First(&existing).Error
		if err == nil {
			updates := map[string]interface{}{
				"name":          cfg.Name,
				"description":   cfg.Description,
				"icon":          cfg.Icon,
				"display_order": cfg.DisplayOrder,
			}
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		category := models.Category{
			Name:         cfg.Name,
			Slug:         cfg.Slug,
			Description:  cfg.Description,
			Icon:         cfg.Icon,
			DisplayOrder: cfg.DisplayOrder,
		}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		slog.Info("category seeded", "slug", cfg.Slug)
	}
	return nil
}
