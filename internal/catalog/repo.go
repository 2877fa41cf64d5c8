package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/pagination"
)

// Repository is the catalog persistence surface.
type Repository interface {
	List(ctx context.Context, params ListParams) ([]models.Product, *string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariants(ctx context.Context, zureoCode string) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Product, *string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(custom_name, '')) LIKE ? OR LOWER(COALESCE(brand, '')) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Subcategory != "" {
		query = query.Where("subcategory = ?", params.Subcategory)
	}
	if params.Featured {
		query = query.Where("is_featured = ?", true)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Product
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		encoded := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		next = &encoded
	}
	return rows, next, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindVariants(ctx context.Context, zureoCode string) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("zureo_code = ? AND is_active = ?", zureoCode, true).
		Order("color ASC, size ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
