package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cukedoh/bakery-backend/internal/cart"
	"github.com/cukedoh/bakery-backend/internal/orders"
	"github.com/cukedoh/bakery-backend/internal/payment"
	"github.com/cukedoh/bakery-backend/internal/pricing"
	"github.com/cukedoh/bakery-backend/internal/users"
	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/logger"
	"github.com/cukedoh/bakery-backend/pkg/metrics"
)

type cartService interface {
	GetMaterializedCart(ctx context.Context, owner cart.Owner) (*cart.MaterializedCart, error)
	ClearCart(ctx context.Context, ownerID string) error
}

type quoter interface {
	Compute(ctx context.Context, lines []pricing.Line, receivedVia enums.ReceivedVia) (*pricing.Quote, error)
}

type orderService interface {
	Materialize(ctx context.Context, view *cart.MaterializedCart, quote *pricing.Quote, input orders.MaterializeInput) (*models.Order, error)
	AttachStripeSession(ctx context.Context, id uuid.UUID, sessionID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionBroker interface {
	CreateSession(ctx context.Context, input payment.SessionInput) (*payment.Session, error)
}

type contactResolver interface {
	ResolveContact(ctx context.Context, userID string, addressID *uuid.UUID) (*users.Contact, error)
}

type locker interface {
	AcquireCheckoutLock(ctx context.Context, ownerID string, ttl time.Duration) (string, bool, error)
	ReleaseCheckoutLock(ctx context.Context, ownerID, token string) error
}

// Config carries the orchestrator's knobs.
type Config struct {
	Currency       string
	LockTTL        time.Duration
	SessionTimeout time.Duration
}

// Input is one checkout request.
type Input struct {
	Owner         cart.Owner
	AddressID     *uuid.UUID
	ReceivedVia   enums.ReceivedVia
	PaymentType   enums.PaymentType
	PaymentMethod enums.PaymentMethod
	Email         *string
	Remark        *string
}

// Result is a successful checkout: the frozen order plus the hosted payment
// page to redirect the customer to.
type Result struct {
	OrderID     uuid.UUID `json:"orderId"`
	SessionID   string    `json:"sessionId"`
	RedirectURL string    `json:"stripeUrl"`
}

// Service runs the checkout pipeline: lock, resolve contact, price the cart,
// freeze it into an order, open a payment session, clear the cart. Failure
// after the order exists deletes that order again so no half-checked-out
// state survives.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	carts    cartService
	calc     quoter
	orders   orderService
	broker   sessionBroker
	contacts contactResolver
	locks    locker
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	cfg      Config
}

// NewService wires the checkout orchestrator.
func NewService(
	carts cartService,
	calc quoter,
	orderSvc orderService,
	broker sessionBroker,
	contacts contactResolver,
	locks locker,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	cfg Config,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if calc == nil {
		return nil, fmt.Errorf("price calculator required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if broker == nil {
		return nil, fmt.Errorf("payment broker required")
	}
	if contacts == nil {
		return nil, fmt.Errorf("contact resolver required")
	}
	if locks == nil {
		return nil, fmt.Errorf("checkout locker required")
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 15 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "thb"
	}
	return &service{
		carts:    carts,
		calc:     calc,
		orders:   orderSvc,
		broker:   broker,
		contacts: contacts,
		locks:    locks,
		metrics:  checkoutMetrics,
		logg:     logg,
		cfg:      cfg,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input Input) (*Result, error) {
	started := time.Now()
	result, err := s.run(ctx, input)
	if err != nil {
		s.metrics.ObserveDuration("failure", time.Since(started))
		return nil, err
	}
	s.metrics.ObserveDuration("success", time.Since(started))
	s.metrics.IncSuccess()
	return result, nil
}

func (s *service) run(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.Owner.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if s.logg != nil {
		ctx = s.logg.WithOwner(ctx, input.Owner.ID)
	}

	lockToken, acquired, err := s.locks.AcquireCheckoutLock(ctx, input.Owner.ID, s.cfg.LockTTL)
	if err != nil {
		s.metrics.IncFailure("lock")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		s.metrics.IncFailure("lock")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress for this cart")
	}
	defer func() {
		if err := s.locks.ReleaseCheckoutLock(ctx, input.Owner.ID, lockToken); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to release checkout lock: "+err.Error())
		}
	}()

	contact, err := s.contacts.ResolveContact(ctx, input.Owner.ID, input.AddressID)
	if err != nil {
		s.metrics.IncFailure("contact")
		return nil, err
	}
	// An email given on the request wins over the profile's.
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		contact.Email = input.Email
	}

	view, err := s.carts.GetMaterializedCart(ctx, input.Owner)
	if err != nil {
		s.metrics.IncFailure("cart")
		return nil, err
	}
	if view.Empty() {
		s.metrics.IncFailure("cart")
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
	}

	lines := make([]pricing.Line, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
	}
	quote, err := s.calc.Compute(ctx, lines, input.ReceivedVia)
	if err != nil {
		s.metrics.IncFailure("pricing")
		return nil, err
	}

	order, err := s.orders.Materialize(ctx, view, quote, orders.MaterializeInput{
		PaymentType:     input.PaymentType,
		PaymentMethod:   input.PaymentMethod,
		ReceivedVia:     input.ReceivedVia,
		CustomerName:    contact.Name,
		Phone:           contact.Phone,
		Email:           contact.Email,
		DeliveryAddress: contact.DeliveryAddress,
		Remark:          input.Remark,
	})
	if err != nil {
		s.metrics.IncFailure("order")
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
	}

	session, err := s.openSession(ctx, view, quote, order)
	if err != nil {
		s.compensate(ctx, order.ID)
		s.metrics.IncFailure("payment_session")
		return nil, err
	}

	if err := s.orders.AttachStripeSession(ctx, order.ID, session.ID); err != nil && s.logg != nil {
		// The session exists and the webhook carries the order id, so the
		// checkout still stands.
		s.logg.Error(ctx, "failed to attach stripe session to order", err)
	}

	if err := s.carts.ClearCart(ctx, input.Owner.ID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to clear cart after checkout", err)
	}

	if s.logg != nil {
		s.logg.Info(ctx, "checkout completed")
	}
	return &Result{
		OrderID:     order.ID,
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

func (s *service) openSession(ctx context.Context, view *cart.MaterializedCart, quote *pricing.Quote, order *models.Order) (*payment.Session, error) {
	sessionLines := make([]payment.SessionLine, 0, len(view.Lines)+1)
	for _, line := range view.Lines {
		sessionLines = append(sessionLines, payment.SessionLine{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	if quote.ShippingFee.IsPositive() {
		sessionLines = append(sessionLines, payment.SessionLine{
			Name:      "Delivery",
			UnitPrice: quote.ShippingFee,
			Quantity:  1,
		})
	}

	sessionCtx, cancel := context.WithTimeout(ctx, s.cfg.SessionTimeout)
	defer cancel()

	var paymentMethod string
	if order.PaymentMethod != nil {
		paymentMethod = string(*order.PaymentMethod)
	}
	return s.broker.CreateSession(sessionCtx, payment.SessionInput{
		UserID:        order.OwnerID,
		OrderID:       order.ID.String(),
		OrderStatus:   string(order.Status),
		Currency:      s.cfg.Currency,
		PaymentMethod: paymentMethod,
		Lines:         sessionLines,
		TotalDiscount: quote.TotalDiscount,
	})
}

// compensate deletes the order created earlier in this very call. The id
// never leaves the call frame, so concurrent checkouts cannot interfere.
func (s *service) compensate(ctx context.Context, orderID uuid.UUID) {
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "failed to delete order after payment session failure", err)
		}
		return
	}
	s.metrics.IncCompensation()
	if s.logg != nil {
		s.logg.Warn(ctx, "order rolled back after payment session failure")
	}
}
