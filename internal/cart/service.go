package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/internal/pricing"
	"github.com/cukedoh/bakery-backend/pkg/config"
	"github.com/cukedoh/bakery-backend/pkg/db/models"
	dbtypes "github.com/cukedoh/bakery-backend/pkg/db/types"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

const snackBoxLineName = "Snack Box"

// Owner identifies the cart holder.
type Owner struct {
	ID   string
	Kind enums.OwnerKind
}

// AddPresetCakeInput adds a fixed-recipe cake.
type AddPresetCakeInput struct {
	CakeID   uuid.UUID
	Message  *string
	Quantity int
}

// AddCustomCakeInput adds a made-to-order cake. SizeID is the only mandatory
// axis; an absent selection is a nil pointer — never uuid.Nil, never "".
type AddCustomCakeInput struct {
	CakeID          uuid.UUID
	SizeID          uuid.UUID
	BaseID          *uuid.UUID
	FillingID       *uuid.UUID
	CreamID         *uuid.UUID
	TopEdgeID       *uuid.UUID
	BottomEdgeID    *uuid.UUID
	DecorationID    *uuid.UUID
	SurfaceID       *uuid.UUID
	CreamColor      *string
	TopEdgeColor    *string
	BottomEdgeColor *string
	Message         *string
	Quantity        int
}

// AddRefreshmentInput adds a bakery or beverage item.
type AddRefreshmentInput struct {
	RefreshmentID uuid.UUID
	Quantity      int
}

// AddSnackBoxInput adds a composed snack box.
type AddSnackBoxInput struct {
	PackageType    enums.PackageType
	Beverage       enums.Beverage
	RefreshmentIDs []uuid.UUID
	Note           *string
	Quantity       int
}

// Service exposes cart aggregation: merge-or-append adds, quantity updates
// and catalog-joined materialization.
type Service interface {
	AddPresetCake(ctx context.Context, owner Owner, input AddPresetCakeInput) (*MaterializedCart, error)
	AddCustomCake(ctx context.Context, owner Owner, input AddCustomCakeInput) (*MaterializedCart, error)
	AddRefreshment(ctx context.Context, owner Owner, input AddRefreshmentInput) (*MaterializedCart, error)
	AddSnackBox(ctx context.Context, owner Owner, input AddSnackBoxInput) (*MaterializedCart, error)
	UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*MaterializedCart, error)
	GetMaterializedCart(ctx context.Context, owner Owner) (*MaterializedCart, error)
	ClearCart(ctx context.Context, ownerID string) error
}

type service struct {
	repo    Repository
	tx      txRunner
	catalog catalogResolver
	images  imageResolver
	cfg     config.PricingConfig
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, catalog catalogResolver, images imageResolver, cfg config.PricingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if images == nil {
		return nil, fmt.Errorf("image resolver required")
	}
	return &service{repo: repo, tx: tx, catalog: catalog, images: images, cfg: cfg}, nil
}

func (s *service) AddPresetCake(ctx context.Context, owner Owner, input AddPresetCakeInput) (*MaterializedCart, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.catalog.GetPresetCake(ctx, input.CakeID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := s.ensureCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		target, err := findMergeTarget(cart.Items, enums.CartItemPresetCake, func(item models.CartItem) bool {
			return item.CakeID != nil && *item.CakeID == input.CakeID
		})
		if err != nil {
			return err
		}
		if target != nil {
			return repo.UpdateItemQuantity(ctx, target.ID, target.Quantity+input.Quantity)
		}

		cakeID := input.CakeID
		return repo.CreateItem(ctx, &models.CartItem{
			CartID:      cart.ID,
			Kind:        enums.CartItemPresetCake,
			Quantity:    input.Quantity,
			CakeID:      &cakeID,
			CakeMessage: input.Message,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaterializedCart(ctx, owner)
}

func (s *service) AddCustomCake(ctx context.Context, owner Owner, input AddCustomCakeInput) (*MaterializedCart, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.SizeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}

	if _, err := s.catalog.GetCustomCake(ctx, input.CakeID); err != nil {
		return nil, err
	}
	size, err := s.catalog.GetVariant(ctx, input.SizeID, enums.VariantSize)
	if err != nil {
		return nil, err
	}

	// Optional axes still have to resolve when present; a dangling id here is
	// a bad request, not something to discover at display time.
	optional := []struct {
		id   *uuid.UUID
		axis enums.VariantType
	}{
		{input.BaseID, enums.VariantBase},
		{input.FillingID, enums.VariantFilling},
		{input.CreamID, enums.VariantCream},
		{input.TopEdgeID, enums.VariantTopEdge},
		{input.BottomEdgeID, enums.VariantBottomEdge},
		{input.DecorationID, enums.VariantDecoration},
		{input.SurfaceID, enums.VariantSurface},
	}
	for _, sel := range optional {
		id := canonicalID(sel.id)
		if id == nil {
			continue
		}
		if _, err := s.catalog.GetVariant(ctx, *id, sel.axis); err != nil {
			return nil, err
		}
	}

	unitPrice, err := pricing.CustomCakeUnitPrice(size.Name, s.cfg.CustomCakeRate())
	if err != nil {
		return nil, err
	}

	sizeID := input.SizeID
	axes := [8]*uuid.UUID{
		&sizeID,
		canonicalID(input.BaseID),
		canonicalID(input.FillingID),
		canonicalID(input.CreamID),
		canonicalID(input.TopEdgeID),
		canonicalID(input.BottomEdgeID),
		canonicalID(input.DecorationID),
		canonicalID(input.SurfaceID),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := s.ensureCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		target, err := findMergeTarget(cart.Items, enums.CartItemCustomCake, func(item models.CartItem) bool {
			if item.CakeID == nil || *item.CakeID != input.CakeID {
				return false
			}
			stored := [8]*uuid.UUID{
				item.SizeID, item.BaseID, item.FillingID, item.CreamID,
				item.TopEdgeID, item.BottomEdgeID, item.DecorationID, item.SurfaceID,
			}
			for i := range axes {
				if !equalID(axes[i], stored[i]) {
					return false
				}
			}
			return true
		})
		if err != nil {
			return err
		}
		if target != nil {
			return repo.UpdateItemQuantity(ctx, target.ID, target.Quantity+input.Quantity)
		}

		cakeID := input.CakeID
		price := unitPrice
		return repo.CreateItem(ctx, &models.CartItem{
			CartID:          cart.ID,
			Kind:            enums.CartItemCustomCake,
			Quantity:        input.Quantity,
			CakeID:          &cakeID,
			CakeMessage:     input.Message,
			SizeID:          axes[0],
			BaseID:          axes[1],
			FillingID:       axes[2],
			CreamID:         axes[3],
			TopEdgeID:       axes[4],
			BottomEdgeID:    axes[5],
			DecorationID:    axes[6],
			SurfaceID:       axes[7],
			CreamColor:      input.CreamColor,
			TopEdgeColor:    input.TopEdgeColor,
			BottomEdgeColor: input.BottomEdgeColor,
			UnitPrice:       &price,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaterializedCart(ctx, owner)
}

func (s *service) AddRefreshment(ctx context.Context, owner Owner, input AddRefreshmentInput) (*MaterializedCart, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.catalog.GetRefreshment(ctx, input.RefreshmentID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := s.ensureCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		target, err := findMergeTarget(cart.Items, enums.CartItemRefreshment, func(item models.CartItem) bool {
			return item.RefreshmentID != nil && *item.RefreshmentID == input.RefreshmentID
		})
		if err != nil {
			return err
		}
		if target != nil {
			return repo.UpdateItemQuantity(ctx, target.ID, target.Quantity+input.Quantity)
		}

		refreshmentID := input.RefreshmentID
		return repo.CreateItem(ctx, &models.CartItem{
			CartID:        cart.ID,
			Kind:          enums.CartItemRefreshment,
			Quantity:      input.Quantity,
			RefreshmentID: &refreshmentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaterializedCart(ctx, owner)
}

func (s *service) AddSnackBox(ctx context.Context, owner Owner, input AddSnackBoxInput) (*MaterializedCart, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if !input.PackageType.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown package type")
	}
	if !input.Beverage.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown beverage option")
	}

	refreshments, err := s.catalog.GetRefreshments(ctx, input.RefreshmentIDs)
	if err != nil {
		return nil, err
	}
	prices := make([]decimal.Decimal, 0, len(refreshments))
	for _, r := range refreshments {
		prices = append(prices, r.Price)
	}
	unitPrice := pricing.SnackBoxUnitPrice(prices, s.cfg.PackageFee(input.PackageType))

	contents := dbtypes.UUIDArray(input.RefreshmentIDs)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := s.ensureCart(ctx, repo, owner)
		if err != nil {
			return err
		}

		target, err := findMergeTarget(cart.Items, enums.CartItemSnackBox, func(item models.CartItem) bool {
			return item.PackageType != nil && *item.PackageType == input.PackageType &&
				item.Beverage != nil && *item.Beverage == input.Beverage &&
				item.RefreshmentIDs.EqualMultiset(contents) &&
				equalStr(item.Note, input.Note)
		})
		if err != nil {
			return err
		}
		if target != nil {
			return repo.UpdateItemQuantity(ctx, target.ID, target.Quantity+input.Quantity)
		}

		packageType := input.PackageType
		beverage := input.Beverage
		price := unitPrice
		return repo.CreateItem(ctx, &models.CartItem{
			CartID:         cart.ID,
			Kind:           enums.CartItemSnackBox,
			Quantity:       input.Quantity,
			PackageType:    &packageType,
			Beverage:       &beverage,
			RefreshmentIDs: contents,
			Note:           input.Note,
			UnitPrice:      &price,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaterializedCart(ctx, owner)
}

// UpdateQuantity sets a line's quantity; zero removes the line outright so a
// zero-quantity row can never be persisted.
func (s *service) UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*MaterializedCart, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByOwner(ctx, owner.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		var target *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				target = &cart.Items[i]
				break
			}
		}
		if target == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}

		if quantity == 0 {
			return repo.DeleteItem(ctx, target.ID)
		}
		return repo.UpdateItemQuantity(ctx, target.ID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMaterializedCart(ctx, owner)
}

// GetMaterializedCart joins the cart against the live catalog. Lines whose
// refreshment has disappeared are dropped from the view; a cake line that can
// no longer be priced is a data-consistency fault.
func (s *service) GetMaterializedCart(ctx context.Context, owner Owner) (*MaterializedCart, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}

	cart, err := s.repo.FindByOwner(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &MaterializedCart{OwnerID: owner.ID, OwnerKind: owner.Kind, Lines: []MaterializedLine{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	out := &MaterializedCart{
		CartID:    cart.ID,
		OwnerID:   cart.OwnerID,
		OwnerKind: cart.OwnerKind,
		Lines:     make([]MaterializedLine, 0, len(cart.Items)),
	}
	for i := range cart.Items {
		line, err := s.materializeLine(ctx, &cart.Items[i])
		if err != nil {
			return nil, err
		}
		if line == nil {
			continue
		}
		out.Lines = append(out.Lines, *line)
	}
	return out, nil
}

// ClearCart deletes the owner's cart and all of its lines.
func (s *service) ClearCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if err := s.repo.DeleteByOwner(ctx, ownerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
	}
	return nil
}

func (s *service) materializeLine(ctx context.Context, item *models.CartItem) (*MaterializedLine, error) {
	switch item.Kind {
	case enums.CartItemPresetCake:
		return s.materializePresetCake(ctx, item)
	case enums.CartItemCustomCake:
		return s.materializeCustomCake(ctx, item)
	case enums.CartItemRefreshment:
		return s.materializeRefreshment(ctx, item)
	case enums.CartItemSnackBox:
		return s.materializeSnackBox(ctx, item)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cart holds a line of unknown kind %q", item.Kind))
	}
}

func (s *service) materializePresetCake(ctx context.Context, item *models.CartItem) (*MaterializedLine, error) {
	if item.CakeID == nil {
		return nil, cakeConsistencyFault()
	}
	cake, err := s.catalog.GetPresetCake(ctx, *item.CakeID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, cakeConsistencyFault()
		}
		return nil, err
	}
	return s.newLine(item, cake.Name, s.images.Resolve(cake.Image), cake.Price, PresetCakeDetail{
		CakeID:  cake.ID,
		Message: item.CakeMessage,
	}), nil
}

func (s *service) materializeCustomCake(ctx context.Context, item *models.CartItem) (*MaterializedLine, error) {
	if item.CakeID == nil || item.UnitPrice == nil {
		return nil, cakeConsistencyFault()
	}
	cake, err := s.catalog.GetCustomCake(ctx, *item.CakeID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, cakeConsistencyFault()
		}
		return nil, err
	}

	detail := CustomCakeDetail{
		CakeID:          cake.ID,
		Size:            s.resolveAxis(ctx, item.SizeID, enums.VariantSize),
		Base:            s.resolveAxis(ctx, item.BaseID, enums.VariantBase),
		Filling:         s.resolveAxis(ctx, item.FillingID, enums.VariantFilling),
		Cream:           s.resolveAxis(ctx, item.CreamID, enums.VariantCream),
		TopEdge:         s.resolveAxis(ctx, item.TopEdgeID, enums.VariantTopEdge),
		BottomEdge:      s.resolveAxis(ctx, item.BottomEdgeID, enums.VariantBottomEdge),
		Decoration:      s.resolveAxis(ctx, item.DecorationID, enums.VariantDecoration),
		Surface:         s.resolveAxis(ctx, item.SurfaceID, enums.VariantSurface),
		CreamColor:      item.CreamColor,
		TopEdgeColor:    item.TopEdgeColor,
		BottomEdgeColor: item.BottomEdgeColor,
		Message:         item.CakeMessage,
	}
	return s.newLine(item, cake.Name, s.images.Resolve(cake.Image), *item.UnitPrice, detail), nil
}

func (s *service) materializeRefreshment(ctx context.Context, item *models.CartItem) (*MaterializedLine, error) {
	if item.RefreshmentID == nil {
		// No way to price the line; treat like a vanished refreshment.
		return nil, nil
	}
	refreshment, err := s.catalog.GetRefreshment(ctx, *item.RefreshmentID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.newLine(item, refreshment.Name, s.images.Resolve(refreshment.Image), refreshment.Price, RefreshmentDetail{
		RefreshmentID: refreshment.ID,
		Category:      refreshment.Category,
	}), nil
}

func (s *service) materializeSnackBox(ctx context.Context, item *models.CartItem) (*MaterializedLine, error) {
	if item.UnitPrice == nil || item.PackageType == nil || item.Beverage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart holds a snack box that can no longer be priced")
	}

	// The box price was fixed at add time; vanished contents only thin the
	// displayed listing.
	contents := make([]SnackBoxContent, 0, len(item.RefreshmentIDs))
	for _, id := range item.RefreshmentIDs {
		refreshment, err := s.catalog.GetRefreshment(ctx, id)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		contents = append(contents, SnackBoxContent{
			RefreshmentID: refreshment.ID,
			Name:          refreshment.Name,
			Image:         s.images.Resolve(refreshment.Image),
			UnitPrice:     refreshment.Price,
		})
	}

	detail := SnackBoxDetail{
		PackageType: *item.PackageType,
		Beverage:    *item.Beverage,
		Note:        item.Note,
		Contents:    contents,
	}
	return s.newLine(item, snackBoxLineName, "", *item.UnitPrice, detail), nil
}

func (s *service) newLine(item *models.CartItem, name, image string, unitPrice decimal.Decimal, detail LineDetail) *MaterializedLine {
	unit := unitPrice.Round(2)
	return &MaterializedLine{
		ItemID:    item.ID,
		Kind:      item.Kind,
		Name:      name,
		Image:     image,
		Quantity:  item.Quantity,
		UnitPrice: unit,
		LinePrice: unit.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		CreatedAt: item.CreatedAt,
		Detail:    detail,
	}
}

func (s *service) ensureCart(ctx context.Context, repo Repository, owner Owner) (*models.Cart, error) {
	cart, err := repo.FindByOwner(ctx, owner.ID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	fresh := &models.Cart{OwnerID: owner.ID, OwnerKind: owner.Kind}
	if err := repo.Create(ctx, fresh); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return fresh, nil
}

func (s *service) resolveAxis(ctx context.Context, id *uuid.UUID, axis enums.VariantType) *VariantRef {
	if id == nil {
		return nil
	}
	variant, err := s.catalog.GetVariant(ctx, *id, axis)
	if err != nil {
		return nil
	}
	return &VariantRef{
		ID:    variant.ID,
		Name:  variant.Name,
		Image: s.images.Resolve(variant.Image),
	}
}

// findMergeTarget returns the single existing line matching the merge key.
// More than one match means an earlier merge failed to collapse duplicates,
// which is invalid state, not something to compound.
func findMergeTarget(items []models.CartItem, kind enums.CartItemKind, match func(models.CartItem) bool) (*models.CartItem, error) {
	var target *models.CartItem
	for i := range items {
		if items[i].Kind != kind || !match(items[i]) {
			continue
		}
		if target != nil {
			return nil, pkgerrors.New(pkgerrors.CodeInvariant, "cart holds ambiguous duplicate lines for the same item")
		}
		target = &items[i]
	}
	return target, nil
}

func validateOwner(owner Owner) error {
	if owner.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if !owner.Kind.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown owner kind")
	}
	return nil
}

func canonicalID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}

func equalID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalStr(a, b *string) bool {
	if a == nil || b == nil {
		return (a == nil || *a == "") && (b == nil || *b == "")
	}
	return *a == *b
}

func cakeConsistencyFault() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "cart references a cake that can no longer be priced")
}
