package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
)

type stubContentRepo struct {
	brands     []models.Brand
	banners    []models.Banner
	sizeGuides []models.SizeGuide
	syncStatus *models.SyncStatus
	err        error
}

func (s *stubContentRepo) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.brands, s.err
}

func (s *stubContentRepo) ListBanners(ctx context.Context) ([]models.Banner, error) {
	return s.banners, s.err
}

func (s *stubContentRepo) ListSizeGuides(ctx context.Context) ([]models.SizeGuide, error) {
	return s.sizeGuides, s.err
}

func (s *stubContentRepo) LatestSyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	if s.syncStatus == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.syncStatus, s.err
}

func TestBrandsMapsRows(t *testing.T) {
	logo := "https://cdn.amaro.com.uy/brands/levis.png"
	repo := &stubContentRepo{brands: []models.Brand{
		{ID: uuid.New(), Name: "Levi's", LogoURL: &logo},
		{ID: uuid.New(), Name: "Amaro"},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	brands, err := svc.Brands(context.Background())
	require.NoError(t, err)

	require.Len(t, brands, 2)
	assert.Equal(t, "Levi's", brands[0].Name)
	require.NotNil(t, brands[0].LogoURL)
	assert.Equal(t, logo, *brands[0].LogoURL)
	assert.Nil(t, brands[1].LogoURL)
}

func TestBannersMapsRows(t *testing.T) {
	link := "https://amaro.com.uy/sale"
	repo := &stubContentRepo{banners: []models.Banner{
		{ID: uuid.New(), Title: "Liquidación de invierno", ImageURL: "https://cdn.amaro.com.uy/banners/sale.jpg", LinkURL: &link, Position: 1},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	banners, err := svc.Banners(context.Background())
	require.NoError(t, err)

	require.Len(t, banners, 1)
	assert.Equal(t, "Liquidación de invierno", banners[0].Title)
	assert.Equal(t, 1, banners[0].Position)
}

func TestSyncStatusReturnsLatestRun(t *testing.T) {
	finished := time.Date(2025, 3, 1, 4, 10, 0, 0, time.UTC)
	repo := &stubContentRepo{syncStatus: &models.SyncStatus{
		ID:           uuid.New(),
		Status:       "completed",
		ProductCount: 412,
		StartedAt:    time.Date(2025, 3, 1, 4, 0, 0, 0, time.UTC),
		FinishedAt:   &finished,
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	status, err := svc.SyncStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "completed", status.Status)
	assert.Equal(t, 412, status.ProductCount)
	require.NotNil(t, status.FinishedAt)
	assert.True(t, finished.Equal(*status.FinishedAt))
}

func TestSyncStatusWithoutRunsIsNotFound(t *testing.T) {
	svc, err := NewService(&stubContentRepo{})
	require.NoError(t, err)

	_, err = svc.SyncStatus(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
