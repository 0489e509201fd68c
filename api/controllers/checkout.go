package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cukedoh/bakery-backend/api/responses"
	"github.com/cukedoh/bakery-backend/api/validators"
	cartsvc "github.com/cukedoh/bakery-backend/internal/cart"
	checkoutsvc "github.com/cukedoh/bakery-backend/internal/checkout"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/logger"
)

type checkoutRequest struct {
	UserID        string     `json:"userId" validate:"required"`
	AddressID     *uuid.UUID `json:"addressId,omitempty"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	ReceivedVia   string     `json:"receivedVia" validate:"required,oneof=PICK_UP DELIVERY"`
	PaymentType   string     `json:"paymentType" validate:"required,oneof=SINGLE INSTALLMENT"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=CARD PROMPTPAY"`
	Remark        *string    `json:"remark,omitempty"`
}

// Checkout submits the owner's cart and returns the hosted payment page.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), checkoutsvc.Input{
			Owner:         cartsvc.Owner{ID: payload.UserID, Kind: enums.OwnerMember},
			AddressID:     payload.AddressID,
			Email:         payload.Email,
			ReceivedVia:   enums.ReceivedVia(payload.ReceivedVia),
			PaymentType:   enums.PaymentType(payload.PaymentType),
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			Remark:        payload.Remark,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
