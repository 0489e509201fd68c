package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v84"

	"github.com/cukedoh/bakery-backend/pkg/config"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

// stripeAPI is the slice of the Stripe client the broker consumes.
type stripeAPI interface {
	CreateCoupon(ctx context.Context, params *stripe.CouponParams) (*stripe.Coupon, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// SessionLine is one display line on the hosted payment page.
type SessionLine struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// SessionInput describes the payment to collect. The broker knows the
// amounts and the metadata to echo back on webhooks; it knows nothing about
// orders or carts.
type SessionInput struct {
	UserID        string
	OrderID       string
	OrderStatus   string
	Currency      string
	PaymentMethod string
	Lines         []SessionLine
	TotalDiscount decimal.Decimal
}

// Session is the created hosted-checkout session.
type Session struct {
	ID          string
	RedirectURL string
}

// Broker creates hosted Stripe checkout sessions.
type Broker struct {
	api stripeAPI
	cfg config.CheckoutConfig
}

// NewBroker wires the broker to a Stripe client and redirect configuration.
func NewBroker(api stripeAPI, cfg config.CheckoutConfig) (*Broker, error) {
	if api == nil {
		return nil, fmt.Errorf("stripe api required")
	}
	if strings.TrimSpace(cfg.RedirectBaseURL) == "" {
		return nil, fmt.Errorf("redirect base url required")
	}
	return &Broker{api: api, cfg: cfg}, nil
}

// minorUnits converts a major-unit amount to Stripe's minor units. This is
// the only place in the codebase where the x100 scaling happens.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateSession builds a one-off payment session. A positive discount is
// applied as a single-use coupon covering the whole cart-level reduction.
func (b *Broker) CreateSession(ctx context.Context, input SessionInput) (*Session, error) {
	if err := validateSessionInput(input); err != nil {
		return nil, err
	}

	currency := strings.ToLower(input.Currency)

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{strings.ToLower(input.PaymentMethod)}),
		SuccessURL:         stripe.String(b.cfg.RedirectBaseURL + "/checkout/success?orderId=" + input.OrderID),
		CancelURL:          stripe.String(b.cfg.RedirectBaseURL + "/checkout/cancel?orderId=" + input.OrderID),
	}
	params.AddMetadata("userId", input.UserID)
	params.AddMetadata("orderId", input.OrderID)
	params.AddMetadata("orderStatus", input.OrderStatus)

	for _, line := range input.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(minorUnits(line.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}

	if input.TotalDiscount.IsPositive() {
		coupon, err := b.api.CreateCoupon(ctx, &stripe.CouponParams{
			Name:      stripe.String("Discount"),
			AmountOff: stripe.Int64(minorUnits(input.TotalDiscount)),
			Currency:  stripe.String(currency),
			Duration:  stripe.String(string(stripe.CouponDurationOnce)),
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe coupon")
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(coupon.ID)},
		}
	}

	session, err := b.api.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe checkout session")
	}
	if session.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe session has no redirect url")
	}

	return &Session{ID: session.ID, RedirectURL: session.URL}, nil
}

func validateSessionInput(input SessionInput) error {
	if strings.TrimSpace(input.OrderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if strings.TrimSpace(input.Currency) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment session requires at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "line price must not be negative")
		}
	}
	if input.TotalDiscount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	return nil
}
