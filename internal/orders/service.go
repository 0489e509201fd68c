package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/internal/cart"
	"github.com/cukedoh/bakery-backend/internal/pricing"
	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

// MaterializeInput carries the checkout form fields that accompany the cart
// into the order snapshot.
type MaterializeInput struct {
	PaymentType     enums.PaymentType
	PaymentMethod   enums.PaymentMethod
	ReceivedVia     enums.ReceivedVia
	CustomerName    string
	Phone           string
	Email           *string
	DeliveryAddress *string
	Remark          *string
}

// Overview summarizes order volume for the back office.
type Overview struct {
	Total    int64                       `json:"total"`
	ByStatus map[enums.OrderStatus]int64 `json:"byStatus"`
	Recent   []models.Order              `json:"recent"`
}

// Service owns the order lifecycle: snapshot creation at checkout, reads,
// and the status state machine.
type Service interface {
	Materialize(ctx context.Context, view *cart.MaterializedCart, quote *pricing.Quote, input MaterializeInput) (*models.Order, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus) (*models.Order, error)
	AttachStripeSession(ctx context.Context, id uuid.UUID, sessionID string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetOverview(ctx context.Context) (*Overview, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the order service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Materialize freezes the cart view and quote into a PENDING_PAYMENT1 order.
// An empty cart cannot become an order.
func (s *service) Materialize(ctx context.Context, view *cart.MaterializedCart, quote *pricing.Quote, input MaterializeInput) (*models.Order, error) {
	if view.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
	}
	if quote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvariant, "order materialization requires a price quote")
	}
	if err := validateMaterializeInput(input); err != nil {
		return nil, err
	}

	order, err := buildSnapshot(view, quote, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return order, nil
}

// GetByID returns the order only when it belongs to the given owner. An
// order that exists but belongs to someone else reads as not found.
func (s *service) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != "" && order.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]models.Order, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	orders, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return orders, nil
}

// UpdateStatus applies one step of the order state machine. Illegal moves
// are rejected without touching the row.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	if !to.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", to))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
		}
		if !order.Status.CanTransition(to) {
			return pkgerrors.New(pkgerrors.CodeState,
				fmt.Sprintf("order cannot move from %s to %s", order.Status, to))
		}
		if err := repo.UpdateStatus(ctx, id, to); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		order.Status = to
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) AttachStripeSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.repo.UpdateStripeSession(ctx, id, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach stripe session")
	}
	return nil
}

// Delete removes an order outright. This is the checkout compensation path;
// it is idempotent so a retried compensation never fails.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

func (s *service) GetOverview(ctx context.Context) (*Overview, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	recent, err := s.repo.ListRecent(ctx, 20)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent orders")
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &Overview{Total: total, ByStatus: counts, Recent: recent}, nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find order")
	}
	return order, nil
}

func validateMaterializeInput(in MaterializeInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number is required")
	}
	switch in.ReceivedVia {
	case enums.ReceivedDelivery:
		if in.DeliveryAddress == nil || strings.TrimSpace(*in.DeliveryAddress) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required for delivery orders")
		}
	case enums.ReceivedPickUp:
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown received-via %q", in.ReceivedVia))
	}
	switch in.PaymentType {
	case enums.PaymentTypeSingle, enums.PaymentTypeInstallment:
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment type %q", in.PaymentType))
	}
	if !in.PaymentMethod.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	return nil
}
