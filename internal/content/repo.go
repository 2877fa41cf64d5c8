package content

import (
	"context"

	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
)

// Repository reads the storefront content tables.
type Repository interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListBanners(ctx context.Context) ([]models.Banner, error)
	ListSizeGuides(ctx context.Context) ([]models.SizeGuide, error)
	LatestSyncStatus(ctx context.Context) (*models.SyncStatus, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&brands).Error
	return brands, err
}

func (r *repository) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("position ASC, created_at DESC").
		Find(&banners).Error
	return banners, err
}

func (r *repository) ListSizeGuides(ctx context.Context) ([]models.SizeGuide, error) {
	var guides []models.SizeGuide
	err := r.db.WithContext(ctx).
		Order("category ASC").
		Find(&guides).Error
	return guides, err
}

func (r *repository) LatestSyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	var status models.SyncStatus
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}
