package cart

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cukedoh/bakery-backend/api/responses"
	"github.com/cukedoh/bakery-backend/api/validators"
	cartsvc "github.com/cukedoh/bakery-backend/internal/cart"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/logger"
)

type ownerRequest struct {
	UserID    string `json:"userId" validate:"required"`
	OwnerKind string `json:"ownerKind,omitempty" validate:"omitempty,oneof=MEMBER GUEST"`
}

func (o ownerRequest) owner() cartsvc.Owner {
	kind := enums.OwnerMember
	if o.OwnerKind == string(enums.OwnerGuest) {
		kind = enums.OwnerGuest
	}
	return cartsvc.Owner{ID: o.UserID, Kind: kind}
}

type addPresetCakeRequest struct {
	ownerRequest
	CakeID   uuid.UUID `json:"cakeId" validate:"required"`
	Message  *string   `json:"message,omitempty"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type addCustomCakeRequest struct {
	ownerRequest
	CakeID          uuid.UUID  `json:"cakeId" validate:"required"`
	SizeID          uuid.UUID  `json:"sizeId" validate:"required"`
	BaseID          *uuid.UUID `json:"baseId,omitempty"`
	FillingID       *uuid.UUID `json:"fillingId,omitempty"`
	CreamID         *uuid.UUID `json:"creamId,omitempty"`
	TopEdgeID       *uuid.UUID `json:"topEdgeId,omitempty"`
	BottomEdgeID    *uuid.UUID `json:"bottomEdgeId,omitempty"`
	DecorationID    *uuid.UUID `json:"decorationId,omitempty"`
	SurfaceID       *uuid.UUID `json:"surfaceId,omitempty"`
	CreamColor      *string    `json:"creamColor,omitempty"`
	TopEdgeColor    *string    `json:"topEdgeColor,omitempty"`
	BottomEdgeColor *string    `json:"bottomEdgeColor,omitempty"`
	Message         *string    `json:"message,omitempty"`
	Quantity        int        `json:"quantity" validate:"required,min=1"`
}

type addRefreshmentRequest struct {
	ownerRequest
	RefreshmentID uuid.UUID `json:"refreshmentId" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
}

type addSnackBoxRequest struct {
	ownerRequest
	PackageType    string      `json:"packageType" validate:"required,oneof=PAPER_BAG SNACK_BOX_S SNACK_BOX_M"`
	Beverage       string      `json:"beverage" validate:"required,oneof=INCLUDE EXCLUDE NONE"`
	RefreshmentIDs []uuid.UUID `json:"refreshmentIds" validate:"required,min=1"`
	Note           *string     `json:"note,omitempty"`
	Quantity       int         `json:"quantity" validate:"required,min=1"`
}

type updateQuantityRequest struct {
	ownerRequest
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

// AddPresetCake puts a fixed-recipe cake into the owner's cart.
func AddPresetCake(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addPresetCakeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddPresetCake(r.Context(), payload.owner(), cartsvc.AddPresetCakeInput{
			CakeID:   payload.CakeID,
			Message:  payload.Message,
			Quantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AddCustomCake puts a made-to-order cake into the owner's cart.
func AddCustomCake(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCustomCakeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddCustomCake(r.Context(), payload.owner(), cartsvc.AddCustomCakeInput{
			CakeID:          payload.CakeID,
			SizeID:          payload.SizeID,
			BaseID:          payload.BaseID,
			FillingID:       payload.FillingID,
			CreamID:         payload.CreamID,
			TopEdgeID:       payload.TopEdgeID,
			BottomEdgeID:    payload.BottomEdgeID,
			DecorationID:    payload.DecorationID,
			SurfaceID:       payload.SurfaceID,
			CreamColor:      payload.CreamColor,
			TopEdgeColor:    payload.TopEdgeColor,
			BottomEdgeColor: payload.BottomEdgeColor,
			Message:         payload.Message,
			Quantity:        payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AddRefreshment puts a bakery or beverage item into the owner's cart.
func AddRefreshment(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addRefreshmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddRefreshment(r.Context(), payload.owner(), cartsvc.AddRefreshmentInput{
			RefreshmentID: payload.RefreshmentID,
			Quantity:      payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AddSnackBox puts a composed snack box into the owner's cart.
func AddSnackBox(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addSnackBoxRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddSnackBox(r.Context(), payload.owner(), cartsvc.AddSnackBoxInput{
			PackageType:    enums.PackageType(payload.PackageType),
			Beverage:       enums.Beverage(payload.Beverage),
			RefreshmentIDs: payload.RefreshmentIDs,
			Note:           payload.Note,
			Quantity:       payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// UpdateQuantity sets an item's quantity; zero removes the line.
func UpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParseURLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "quantity is required"))
			return
		}

		view, err := svc.UpdateQuantity(r.Context(), payload.owner(), itemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Fetch returns the owner's materialized cart. A missing cart reads as an
// empty one.
func Fetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.RequireQuery(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetMaterializedCart(r.Context(), cartsvc.Owner{ID: userID, Kind: enums.OwnerMember})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
