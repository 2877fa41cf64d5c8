package content

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
)

type BrandDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

type BannerDTO struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ImageURL string    `json:"image_url"`
	LinkURL  *string   `json:"link_url,omitempty"`
	Position int       `json:"position"`
}

type SizeGuideDTO struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Content  string    `json:"content"`
}

// SyncStatusDTO reports the last Zureo catalog sync run to the admin panel.
type SyncStatusDTO struct {
	ID           uuid.UUID  `json:"id"`
	Status       string     `json:"status"`
	ProductCount int        `json:"product_count"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Service serves brands, banners, size guides and sync status for the
// storefront and the admin panel.
type Service interface {
	Brands(ctx context.Context) ([]BrandDTO, error)
	Banners(ctx context.Context) ([]BannerDTO, error)
	SizeGuides(ctx context.Context) ([]SizeGuideDTO, error)
	SyncStatus(ctx context.Context) (*SyncStatusDTO, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Brands(ctx context.Context) ([]BrandDTO, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, BrandDTO{ID: row.ID, Name: row.Name, LogoURL: row.LogoURL})
	}
	return out, nil
}

func (s *service) Banners(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	out := make([]BannerDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, BannerDTO{
			ID:       row.ID,
			Title:    row.Title,
			ImageURL: row.ImageURL,
			LinkURL:  row.LinkURL,
			Position: row.Position,
		})
	}
	return out, nil
}

func (s *service) SizeGuides(ctx context.Context) ([]SizeGuideDTO, error) {
	rows, err := s.repo.ListSizeGuides(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list size guides")
	}
	out := make([]SizeGuideDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SizeGuideDTO{ID: row.ID, Category: row.Category, Content: row.Content})
	}
	return out, nil
}

func (s *service) SyncStatus(ctx context.Context) (*SyncStatusDTO, error) {
	row, err := s.repo.LatestSyncStatus(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no hay sincronizaciones registradas")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sync status")
	}
	return toSyncStatusDTO(row), nil
}

func toSyncStatusDTO(row *models.SyncStatus) *SyncStatusDTO {
	return &SyncStatusDTO{
		ID:           row.ID,
		Status:       row.Status,
		ProductCount: row.ProductCount,
		ErrorMessage: row.ErrorMessage,
		StartedAt:    row.StartedAt,
		FinishedAt:   row.FinishedAt,
	}
}
