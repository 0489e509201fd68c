package orders

import (
	"fmt"

	"github.com/cukedoh/bakery-backend/internal/cart"
	"github.com/cukedoh/bakery-backend/internal/pricing"
	"github.com/cukedoh/bakery-backend/pkg/db/models"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

// buildSnapshot copies a materialized cart and its quote into an order row.
// Every name, image and price is copied by value so later catalog edits can
// never change what the customer agreed to pay.
func buildSnapshot(view *cart.MaterializedCart, quote *pricing.Quote, in MaterializeInput) (*models.Order, error) {
	paymentMethod := in.PaymentMethod
	order := &models.Order{
		OwnerID:         view.OwnerID,
		Status:          enums.OrderPendingPayment1,
		PaymentType:     in.PaymentType,
		PaymentMethod:   &paymentMethod,
		ReceivedVia:     in.ReceivedVia,
		CustomerName:    in.CustomerName,
		Phone:           in.Phone,
		Email:           in.Email,
		DeliveryAddress: in.DeliveryAddress,
		Remark:          in.Remark,
		Subtotal:        quote.Subtotal,
		Discounts:       quote.Discounts,
		ShippingFee:     quote.ShippingFee,
		Total:           quote.Total,
	}

	for _, line := range view.Lines {
		switch detail := line.Detail.(type) {
		case cart.PresetCakeDetail:
			order.Cakes = append(order.Cakes, models.OrderCake{
				Type:      enums.CakeTypePreset,
				Name:      line.Name,
				Image:     optString(line.Image),
				Message:   detail.Message,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		case cart.CustomCakeDetail:
			oc := models.OrderCake{
				Type:            enums.CakeTypeCustom,
				Name:            line.Name,
				Image:           optString(line.Image),
				Message:         detail.Message,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				SizeName:        variantName(detail.Size),
				BaseName:        variantName(detail.Base),
				FillingName:     variantName(detail.Filling),
				CreamName:       variantName(detail.Cream),
				CreamColor:      detail.CreamColor,
				TopEdgeName:     variantName(detail.TopEdge),
				TopEdgeColor:    detail.TopEdgeColor,
				BottomEdgeName:  variantName(detail.BottomEdge),
				BottomEdgeColor: detail.BottomEdgeColor,
				DecorationName:  variantName(detail.Decoration),
				SurfaceName:     variantName(detail.Surface),
			}
			order.Cakes = append(order.Cakes, oc)
		case cart.RefreshmentDetail:
			order.Refreshments = append(order.Refreshments, models.OrderRefreshment{
				Name:      line.Name,
				Category:  detail.Category,
				Image:     optString(line.Image),
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		case cart.SnackBoxDetail:
			box := models.OrderSnackBox{
				PackageType: detail.PackageType,
				Beverage:    detail.Beverage,
				Note:        detail.Note,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			}
			for _, content := range detail.Contents {
				box.Contents = append(box.Contents, models.OrderSnackBoxRefreshment{
					Name:      content.Name,
					Image:     optString(content.Image),
					UnitPrice: content.UnitPrice,
				})
			}
			order.SnackBoxes = append(order.SnackBoxes, box)
		default:
			return nil, pkgerrors.New(pkgerrors.CodeInvariant,
				fmt.Sprintf("cart line %s has unknown kind %q", line.ItemID, line.Kind))
		}
	}

	return order, nil
}

func variantName(ref *cart.VariantRef) *string {
	if ref == nil {
		return nil
	}
	name := ref.Name
	return &name
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
