package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

type repository interface {
	FindCake(ctx context.Context, id uuid.UUID) (*models.Cake, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	FindRefreshment(ctx context.Context, id uuid.UUID) (*models.Refreshment, error)
	FindRefreshments(ctx context.Context, ids []uuid.UUID) ([]models.Refreshment, error)
	ListRefreshments(ctx context.Context, category enums.RefreshmentCategory) ([]models.Refreshment, error)
	ListCakes(ctx context.Context, cakeType enums.CakeType) ([]models.Cake, error)
	ListVariants(ctx context.Context, variantType enums.VariantType) ([]models.Variant, error)
}

// Service resolves catalog references and enforces that each reference has
// the expected shape (right cake type, right variant axis, still active).
type Service interface {
	GetPresetCake(ctx context.Context, id uuid.UUID) (*models.Cake, error)
	GetCustomCake(ctx context.Context, id uuid.UUID) (*models.Cake, error)
	GetVariant(ctx context.Context, id uuid.UUID, axis enums.VariantType) (*models.Variant, error)
	GetRefreshment(ctx context.Context, id uuid.UUID) (*models.Refreshment, error)
	GetRefreshments(ctx context.Context, ids []uuid.UUID) ([]models.Refreshment, error)
	ListRefreshments(ctx context.Context, category enums.RefreshmentCategory) ([]models.Refreshment, error)
	ListCakes(ctx context.Context, cakeType enums.CakeType) ([]models.Cake, error)
	ListVariants(ctx context.Context, axis enums.VariantType) ([]models.Variant, error)
}

type service struct {
	repo repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetPresetCake(ctx context.Context, id uuid.UUID) (*models.Cake, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cake id is required")
	}
	cake, err := s.repo.FindCake(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cake not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cake")
	}
	if cake.Type != enums.CakeTypePreset {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "preset cake not found")
	}
	if !cake.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cake is no longer available")
	}
	return cake, nil
}

func (s *service) GetCustomCake(ctx context.Context, id uuid.UUID) (*models.Cake, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cake id is required")
	}
	cake, err := s.repo.FindCake(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cake not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cake")
	}
	if cake.Type != enums.CakeTypeCustom {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "custom cake not found")
	}
	if !cake.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cake is no longer available")
	}
	return cake, nil
}

func (s *service) GetVariant(ctx context.Context, id uuid.UUID, axis enums.VariantType) (*models.Variant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	variant, err := s.repo.FindVariant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s variant not found", axis))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
	}
	if variant.Type != axis {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("variant %s is a %s option, expected %s", id, variant.Type, axis))
	}
	if !variant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s option is no longer available", axis))
	}
	return variant, nil
}

func (s *service) GetRefreshment(ctx context.Context, id uuid.UUID) (*models.Refreshment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refreshment id is required")
	}
	refreshment, err := s.repo.FindRefreshment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "refreshment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refreshment")
	}
	if !refreshment.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "refreshment is no longer available")
	}
	return refreshment, nil
}

// GetRefreshments resolves every id or fails; a snack box must never be
// assembled around a missing item.
func (s *service) GetRefreshments(ctx context.Context, ids []uuid.UUID) ([]models.Refreshment, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one refreshment is required")
	}
	refreshments, err := s.repo.FindRefreshments(ctx, dedupe(ids))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refreshments")
	}

	byID := make(map[uuid.UUID]models.Refreshment, len(refreshments))
	for _, r := range refreshments {
		if !r.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("refreshment %q is no longer available", r.Name))
		}
		byID[r.ID] = r
	}

	// Expand back to the requested multiset so duplicates keep their count.
	resolved := make([]models.Refreshment, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "refreshment not found")
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}

func (s *service) ListRefreshments(ctx context.Context, category enums.RefreshmentCategory) ([]models.Refreshment, error) {
	if category != "" && !category.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown refreshment category")
	}
	refreshments, err := s.repo.ListRefreshments(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list refreshments")
	}
	return refreshments, nil
}

func (s *service) ListCakes(ctx context.Context, cakeType enums.CakeType) ([]models.Cake, error) {
	cakes, err := s.repo.ListCakes(ctx, cakeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cakes")
	}
	return cakes, nil
}

func (s *service) ListVariants(ctx context.Context, axis enums.VariantType) ([]models.Variant, error) {
	if !axis.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown variant axis")
	}
	variants, err := s.repo.ListVariants(ctx, axis)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list variants")
	}
	return variants, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
