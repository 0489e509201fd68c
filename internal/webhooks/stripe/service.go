package stripewebhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v84"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/logger"
)

// replayTTL bounds how long a processed event id is remembered. Stripe
// retries failed deliveries for up to three days.
const replayTTL = 72 * time.Hour

type orderStatusService interface {
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus) (*models.Order, error)
}

type replayGuard interface {
	MarkWebhookEvent(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

type ServiceParams struct {
	Orders      orderStatusService
	ReplayGuard replayGuard
	Logger      *logger.Logger
}

// Service advances order payment state from Stripe events.
type Service struct {
	orders orderStatusService
	guard  replayGuard
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order service required")
	}
	if params.ReplayGuard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "replay guard required")
	}
	return &Service{orders: params.Orders, guard: params.ReplayGuard, logg: params.Logger}, nil
}

// HandleEvent processes one verified Stripe event. Unknown event types and
// replayed deliveries are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	fresh, err := s.guard.MarkWebhookEvent(ctx, event.ID, replayTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record webhook event")
	}
	if !fresh {
		if s.logg != nil {
			s.logg.Info(ctx, "skipping replayed stripe event "+event.ID)
		}
		return nil
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.recordPayment(ctx, session.Metadata)
	default:
		return nil
	}
}

// recordPayment advances the order one payment step: the first settled
// payment moves it into the kitchen queue, the second closes it out.
func (s *Service) recordPayment(ctx context.Context, metadata map[string]string) error {
	raw := metadata["orderId"]
	if raw == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id missing from session metadata")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse order id from session metadata")
	}

	order, err := s.orders.GetByID(ctx, "", orderID)
	if err != nil {
		return err
	}

	var next enums.OrderStatus
	switch order.Status {
	case enums.OrderPendingPayment1:
		next = enums.OrderPendingOrder
	case enums.OrderPendingPayment2:
		next = enums.OrderCompleted
	default:
		if s.logg != nil {
			s.logg.Warn(ctx, "payment event for order not awaiting payment, status "+string(order.Status))
		}
		return nil
	}

	if _, err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return err
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, orderID.String())
		s.logg.Info(ctx, "order advanced to "+string(next)+" after payment")
	}
	return nil
}
