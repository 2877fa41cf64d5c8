package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
)

type stubCatalogRepo struct {
	products map[uuid.UUID]models.Product
	variants map[string][]models.Product
	next     *string
}

func (s *stubCatalogRepo) List(ctx context.Context, params ListParams) ([]models.Product, *string, error) {
	rows := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		rows = append(rows, p)
	}
	return rows, s.next, nil
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindVariants(ctx context.Context, zureoCode string) ([]models.Product, error) {
	return s.variants[zureoCode], nil
}

func strPtr(s string) *string { return &s }

func variantRow(code, color, size string, stock int) models.Product {
	return models.Product{
		ID:            uuid.New(),
		ZureoCode:     code,
		Name:          "Remera básica",
		Color:         strPtr(color),
		Size:          strPtr(size),
		Price:         decimal.NewFromInt(990),
		StockQuantity: stock,
		IsActive:      true,
	}
}

func TestDetailAggregatesVariantsByZureoCode(t *testing.T) {
	representative := variantRow("Z-100", "negro", "M", 3)
	siblings := []models.Product{
		representative,
		variantRow("Z-100", "negro", "L", 1),
		variantRow("Z-100", "blanco", "M", 0),
	}
	repo := &stubCatalogRepo{
		products: map[uuid.UUID]models.Product{representative.ID: representative},
		variants: map[string][]models.Product{"Z-100": siblings},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	detail, err := svc.Detail(context.Background(), representative.ID)
	require.NoError(t, err)

	assert.Len(t, detail.Variants, 3)
	assert.ElementsMatch(t, []string{"negro", "blanco"}, detail.Colors)
	assert.ElementsMatch(t, []string{"M", "L"}, detail.Sizes)
}

func TestDetailUnknownProduct(t *testing.T) {
	svc, err := NewService(&stubCatalogRepo{products: map[uuid.UUID]models.Product{}})
	require.NoError(t, err)

	_, err = svc.Detail(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListMapsEffectivePrice(t *testing.T) {
	sale := decimal.NewFromInt(790)
	discounted := models.Product{
		ID:                 uuid.New(),
		ZureoCode:          "Z-101",
		Name:               "Remera",
		Price:              decimal.NewFromInt(990),
		DiscountPercentage: 20,
		SalePrice:          &sale,
		IsActive:           true,
	}
	repo := &stubCatalogRepo{products: map[uuid.UUID]models.Product{discounted.ID: discounted}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)

	require.Len(t, list.Products, 1)
	assert.True(t, list.Products[0].EffectivePrice.Equal(sale))
	assert.True(t, list.Products[0].Price.Equal(decimal.NewFromInt(990)))
}

func TestListPassesThroughCursor(t *testing.T) {
	next := "eyJjdXJzb3IifQ"
	repo := &stubCatalogRepo{products: map[uuid.UUID]models.Product{}, next: &next}
	svc, err := NewService(repo)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)

	require.NotNil(t, list.NextCursor)
	assert.Equal(t, next, *list.NextCursor)
}
