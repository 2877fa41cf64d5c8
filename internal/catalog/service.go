package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
)

// Service exposes the storefront catalog operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ProductList, error)
	Detail(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ProductList, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	list := &ProductList{Products: make([]ProductDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		list.Products = append(list.Products, ToProductDTO(row))
	}
	return list, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	representative, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	siblings, err := s.repo.FindVariants(ctx, representative.ZureoCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product variants")
	}

	detail := &ProductDetail{
		ProductDTO: ToProductDTO(*representative),
		Variants:   make([]VariantDTO, 0, len(siblings)),
	}

	seenColors := map[string]bool{}
	seenSizes := map[string]bool{}
	for _, sibling := range siblings {
		detail.Variants = append(detail.Variants, VariantDTO{
			ID:            sibling.ID,
			Color:         sibling.Color,
			Size:          sibling.Size,
			StockQuantity: sibling.StockQuantity,
		})
		if sibling.Color != nil && *sibling.Color != "" && !seenColors[*sibling.Color] {
			seenColors[*sibling.Color] = true
			detail.Colors = append(detail.Colors, *sibling.Color)
		}
		if sibling.Size != nil && *sibling.Size != "" && !seenSizes[*sibling.Size] {
			seenSizes[*sibling.Size] = true
			detail.Sizes = append(detail.Sizes, *sibling.Size)
		}
	}

	return detail, nil
}
