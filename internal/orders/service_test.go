package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/internal/cart"
	"github.com/cukedoh/bakery-backend/internal/pricing"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/types"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING_PAYMENT1',
  payment_type TEXT NOT NULL,
  payment_method TEXT,
  received_via TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  delivery_address TEXT,
  remark TEXT,
  subtotal NUMERIC NOT NULL,
  discounts TEXT NOT NULL DEFAULT '[]',
  shipping_fee NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  stripe_session_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_cakes (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  type TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  message TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  size_name TEXT,
  base_name TEXT,
  filling_name TEXT,
  cream_name TEXT,
  cream_color TEXT,
  top_edge_name TEXT,
  top_edge_color TEXT,
  bottom_edge_name TEXT,
  bottom_edge_color TEXT,
  decoration_name TEXT,
  surface_name TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_refreshments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  image TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_snack_boxes (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  package_type TEXT NOT NULL,
  beverage TEXT NOT NULL,
  note TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_snack_box_refreshments (
  id TEXT PRIMARY KEY,
  order_snack_box_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newOrderService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), testTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func sampleCartView(owner string) *cart.MaterializedCart {
	sizeRef := &cart.VariantRef{ID: uuid.New(), Name: "2", Image: "https://cdn.test/pound-2.png"}
	creamRef := &cart.VariantRef{ID: uuid.New(), Name: "Vanilla Cream"}
	contents := []cart.SnackBoxContent{
		{RefreshmentID: uuid.New(), Name: "Croissant", UnitPrice: decimal.RequireFromString("25.50")},
		{RefreshmentID: uuid.New(), Name: "Thai Tea", UnitPrice: decimal.RequireFromString("30")},
	}
	return &cart.MaterializedCart{
		CartID:    uuid.New(),
		OwnerID:   owner,
		OwnerKind: enums.OwnerMember,
		Lines: []cart.MaterializedLine{
			{
				ItemID:    uuid.New(),
				Kind:      enums.CartItemPresetCake,
				Name:      "Chocolate Fudge",
				Image:     "https://cdn.test/fudge.png",
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("450"),
				LinePrice: decimal.RequireFromString("900"),
				Detail:    cart.PresetCakeDetail{CakeID: uuid.New(), Message: strPtr("Happy Birthday")},
			},
			{
				ItemID:    uuid.New(),
				Kind:      enums.CartItemCustomCake,
				Name:      "Custom Cake",
				Quantity:  1,
				UnitPrice: decimal.RequireFromString("684"),
				LinePrice: decimal.RequireFromString("684"),
				Detail: cart.CustomCakeDetail{
					CakeID:     uuid.New(),
					Size:       sizeRef,
					Cream:      creamRef,
					CreamColor: strPtr("#FFF0F0"),
				},
			},
			{
				ItemID:    uuid.New(),
				Kind:      enums.CartItemRefreshment,
				Name:      "Croissant",
				Quantity:  3,
				UnitPrice: decimal.RequireFromString("25.50"),
				LinePrice: decimal.RequireFromString("76.50"),
				Detail:    cart.RefreshmentDetail{RefreshmentID: contents[0].RefreshmentID, Category: enums.RefreshmentBakery},
			},
			{
				ItemID:    uuid.New(),
				Kind:      enums.CartItemSnackBox,
				Name:      "Snack Box",
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("75.50"),
				LinePrice: decimal.RequireFromString("151"),
				Detail: cart.SnackBoxDetail{
					PackageType: enums.PackageSnackBoxS,
					Beverage:    enums.BeverageInclude,
					Note:        strPtr("no nuts"),
					Contents:    contents,
				},
			},
		},
	}
}

func sampleQuote() *pricing.Quote {
	return &pricing.Quote{
		Subtotal: decimal.RequireFromString("1811.50"),
		Discounts: types.Discounts{
			{Name: "ร้านกำลังอยู่ในช่วงพัฒนา ลดให้เลย 10 บาท", Amount: decimal.NewFromInt(10)},
			{Name: "พอดีเป็นคนใจดีน่ะ ลดให้เลย 10 บาท", Amount: decimal.NewFromInt(10)},
		},
		TotalDiscount: decimal.NewFromInt(20),
		ShippingFee:   decimal.NewFromInt(130),
		Total:         decimal.RequireFromString("1921.50"),
	}
}

func sampleInput() MaterializeInput {
	return MaterializeInput{
		PaymentType:     enums.PaymentTypeSingle,
		PaymentMethod:   enums.PaymentMethodCard,
		ReceivedVia:     enums.ReceivedDelivery,
		CustomerName:    "Somchai J.",
		Phone:           "0812345678",
		Email:           strPtr("somchai@example.com"),
		DeliveryAddress: strPtr("99/1 Sukhumvit Rd, Bangkok"),
		Remark:          strPtr("call on arrival"),
	}
}

func TestMaterializeSnapshotsEveryLine(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	order, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, enums.OrderPendingPayment1, order.Status)

	got, err := svc.GetByID(ctx, "u1", order.ID)
	require.NoError(t, err)

	assert.Equal(t, "u1", got.OwnerID)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("1811.50")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("1921.50")))
	assert.True(t, got.ShippingFee.Equal(decimal.NewFromInt(130)))
	require.Len(t, got.Discounts, 2)
	assert.Equal(t, "ร้านกำลังอยู่ในช่วงพัฒนา ลดให้เลย 10 บาท", got.Discounts[0].Name)
	require.NotNil(t, got.Remark)
	assert.Equal(t, "call on arrival", *got.Remark)
	require.NotNil(t, got.PaymentMethod)
	assert.Equal(t, enums.PaymentMethodCard, *got.PaymentMethod)

	require.Len(t, got.Cakes, 2)
	var preset, custom *int
	for i := range got.Cakes {
		switch got.Cakes[i].Type {
		case enums.CakeTypePreset:
			idx := i
			preset = &idx
		case enums.CakeTypeCustom:
			idx := i
			custom = &idx
		}
	}
	require.NotNil(t, preset)
	require.NotNil(t, custom)
	assert.Equal(t, "Chocolate Fudge", got.Cakes[*preset].Name)
	assert.Equal(t, 2, got.Cakes[*preset].Quantity)
	require.NotNil(t, got.Cakes[*preset].Message)
	assert.Equal(t, "Happy Birthday", *got.Cakes[*preset].Message)
	assert.Nil(t, got.Cakes[*preset].SizeName)

	require.NotNil(t, got.Cakes[*custom].SizeName)
	assert.Equal(t, "2", *got.Cakes[*custom].SizeName)
	require.NotNil(t, got.Cakes[*custom].CreamName)
	assert.Equal(t, "Vanilla Cream", *got.Cakes[*custom].CreamName)
	require.NotNil(t, got.Cakes[*custom].CreamColor)
	assert.Equal(t, "#FFF0F0", *got.Cakes[*custom].CreamColor)
	assert.Nil(t, got.Cakes[*custom].BaseName)
	assert.True(t, got.Cakes[*custom].UnitPrice.Equal(decimal.RequireFromString("684")))

	require.Len(t, got.Refreshments, 1)
	assert.Equal(t, "Croissant", got.Refreshments[0].Name)
	assert.Equal(t, enums.RefreshmentBakery, got.Refreshments[0].Category)

	require.Len(t, got.SnackBoxes, 1)
	box := got.SnackBoxes[0]
	assert.Equal(t, enums.PackageSnackBoxS, box.PackageType)
	assert.Equal(t, enums.BeverageInclude, box.Beverage)
	assert.True(t, box.UnitPrice.Equal(decimal.RequireFromString("75.50")))
	require.Len(t, box.Contents, 2)
	names := []string{box.Contents[0].Name, box.Contents[1].Name}
	assert.Contains(t, names, "Croissant")
	assert.Contains(t, names, "Thai Tea")
}

func TestMaterializeEmptyCart(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)

	view := &cart.MaterializedCart{CartID: uuid.New(), OwnerID: "u1", OwnerKind: enums.OwnerMember}
	_, err := svc.Materialize(context.Background(), view, sampleQuote(), sampleInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestMaterializeValidation(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	in := sampleInput()
	in.CustomerName = "  "
	_, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = sampleInput()
	in.DeliveryAddress = nil
	_, err = svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = sampleInput()
	in.PaymentMethod = "CASH"
	_, err = svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = sampleInput()
	in.ReceivedVia = enums.ReceivedPickUp
	in.DeliveryAddress = nil
	_, err = svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), in)
	assert.NoError(t, err)
}

func TestOrderIsImmuneToSourceMutation(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	view := sampleCartView("u1")
	order, err := svc.Materialize(ctx, view, sampleQuote(), sampleInput())
	require.NoError(t, err)

	// The caller's view keeps living after checkout; mutating it must not
	// reach the stored snapshot.
	view.Lines[0].Name = "RENAMED"
	view.Lines[0].UnitPrice = decimal.NewFromInt(1)

	got, err := svc.GetByID(ctx, "u1", order.ID)
	require.NoError(t, err)
	for _, c := range got.Cakes {
		if c.Type == enums.CakeTypePreset {
			assert.Equal(t, "Chocolate Fudge", c.Name)
			assert.True(t, c.UnitPrice.Equal(decimal.NewFromInt(450)))
		}
	}
}

func TestGetByIDOwnerScoped(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	order, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, "someone-else", order.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetByID(ctx, "u1", uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	order, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)

	// Skipping straight to COMPLETED is illegal.
	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderCompleted)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeState))

	updated, err := svc.UpdateStatus(ctx, order.ID, enums.OrderPendingOrder)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderPendingOrder, updated.Status)

	updated, err = svc.UpdateStatus(ctx, order.ID, enums.OrderOnProcess)
	require.NoError(t, err)
	updated, err = svc.UpdateStatus(ctx, order.ID, enums.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderCompleted, updated.Status)

	// Terminal states reject everything, cancellation included.
	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderCancelled)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeState))

	_, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatus("SHIPPED"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteRemovesChildren(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	order, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))

	_, err = svc.GetByID(ctx, "u1", order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var cakeCount, boxContentCount int64
	require.NoError(t, db.Table("order_cakes").Where("order_id = ?", order.ID).Count(&cakeCount).Error)
	require.NoError(t, db.Table("order_snack_box_refreshments").Count(&boxContentCount).Error)
	assert.Zero(t, cakeCount)
	assert.Zero(t, boxContentCount)

	// Compensation may retry; a second delete is a no-op.
	assert.NoError(t, svc.Delete(ctx, order.ID))
}

func TestOverviewCounts(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	first, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)
	_, err = svc.Materialize(ctx, sampleCartView("u2"), sampleQuote(), sampleInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID, enums.OrderPendingOrder)
	require.NoError(t, err)

	overview, err := svc.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.Total)
	assert.Equal(t, int64(1), overview.ByStatus[enums.OrderPendingPayment1])
	assert.Equal(t, int64(1), overview.ByStatus[enums.OrderPendingOrder])
	assert.Len(t, overview.Recent, 2)
}

func TestListByOwner(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	_, err := svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)
	_, err = svc.Materialize(ctx, sampleCartView("u1"), sampleQuote(), sampleInput())
	require.NoError(t, err)
	_, err = svc.Materialize(ctx, sampleCartView("u2"), sampleQuote(), sampleInput())
	require.NoError(t, err)

	orders, err := svc.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = svc.ListByOwner(ctx, " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
