package services_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/config"
	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/services"
	"github.com/example/deshimart/internal/testutil"
)

func newOrderService(db *gorm.DB) *services.OrderService {
	cfg := &config.Config{
		ShippingInsideDhaka:  80,
		ShippingOutsideDhaka: 150,
	}
	return services.NewOrderService(db, cfg, nil, nil, zap.NewNop())
}

func checkoutInput(city string) services.CheckoutInput {
	return services.CheckoutInput{
		ShippingName:          "Rahim Uddin",
		ShippingPhone:         "01712345678",
		ShippingEmail:         "rahim@example.com",
		ShippingAddressLine1:  "House 12, Road 5, Dhanmondi",
		ShippingCity:          city,
		BillingSameAsShipping: true,
	}
}

func TestCheckout_DhakaOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Nakshi Kantha", 500, 10)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 3))

	order, err := orders.Checkout(guest, checkoutInput("Dhaka"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, 1500.0, order.Subtotal)
	assert.Equal(t, 80.0, order.ShippingCost)
	assert.Equal(t, 1580.0, order.Total)
	assert.Equal(t, "rahim@example.com", order.GuestEmail)
	assert.Equal(t, order.ShippingCity, order.BillingCity)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 7, got.StockQuantity)
	assert.Equal(t, 3, got.TotalSales)

	assert.EqualValues(t, 0, countCartRows(t, db, "guest_session_id = ?", guest.GuestToken))

	var items []models.OrderItem
	require.NoError(t, db.Find(&items, "order_id = ?", order.ID).Error)
	require.Len(t, items, 1)
	assert.Equal(t, product.Name, items[0].ProductName)
	assert.Equal(t, 500.0, items[0].Price)
	assert.Equal(t, 1500.0, items[0].Total)
}

func TestCheckout_OutsideDhakaShipping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Rajshahi Silk", 3000, 5)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 1))

	order, err := orders.Checkout(guest, checkoutInput("Rajshahi"))
	require.NoError(t, err)
	assert.Equal(t, 150.0, order.ShippingCost)
	assert.Equal(t, 3150.0, order.Total)
}

func TestCheckout_VariantPricing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Fatua", 800, 10)
	variant := seedVariant(t, db, product.ID, "Size", "XL", 100, 6)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, &variant.ID, 2))

	order, err := orders.Checkout(guest, checkoutInput("Dhaka"))
	require.NoError(t, err)
	assert.Equal(t, 1800.0, order.Subtotal)

	var items []models.OrderItem
	require.NoError(t, db.Find(&items, "order_id = ?", order.ID).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 900.0, items[0].Price)
	assert.Equal(t, "Size: XL", items[0].VariantDetails)

	var gotVariant models.ProductVariant
	require.NoError(t, db.First(&gotVariant, "id = ?", variant.ID).Error)
	assert.Equal(t, 4, gotVariant.StockQuantity)
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	orders := newOrderService(db)

	guest := models.GuestPrincipal(uuid.NewString())
	_, err := orders.Checkout(guest, checkoutInput("Dhaka"))
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCheckout_InvalidInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	orders := newOrderService(db)

	guest := models.GuestPrincipal(uuid.NewString())

	in := checkoutInput("Dhaka")
	in.ShippingPhone = "123"
	_, err := orders.Checkout(guest, in)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	in = checkoutInput("Dhaka")
	in.ShippingEmail = "not-an-email"
	_, err = orders.Checkout(guest, in)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	plenty := seedProduct(t, db, "Plenty", 200, 50)
	scarce := seedProduct(t, db, "Scarce", 400, 10)
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(guest, plenty.ID, nil, 2))
	require.NoError(t, cart.AddItem(guest, scarce.ID, nil, 3))

	// Someone else buys out the scarce product before checkout.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", scarce.ID).
		Update("stock_quantity", 1).Error)

	_, err := orders.Checkout(guest, checkoutInput("Dhaka"))
	require.ErrorIs(t, err, services.ErrOutOfStock)

	// Nothing committed: stock, orders and the cart are untouched.
	var gotPlenty models.Product
	require.NoError(t, db.First(&gotPlenty, "id = ?", plenty.ID).Error)
	assert.Equal(t, 50, gotPlenty.StockQuantity)
	assert.Equal(t, 0, gotPlenty.TotalSales)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)

	assert.EqualValues(t, 2, countCartRows(t, db, "guest_session_id = ?", guest.GuestToken))
}

func TestCheckout_ConcurrentOversell(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Last One", 999, 1)

	const buyers = 5
	guests := make([]models.Principal, buyers)
	for i := range guests {
		guests[i] = models.GuestPrincipal(uuid.NewString())
		require.NoError(t, cart.AddItem(guests[i], product.ID, nil, 1))
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := range guests {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orders.Checkout(guests[i], checkoutInput("Dhaka"))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, services.ErrOutOfStock)
		}
	}
	assert.Equal(t, 1, won)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 0, got.StockQuantity)
}

func TestCheckout_PriceSnapshotImmutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Muslin Scarf", 1000, 10)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 1))

	order, err := orders.Checkout(guest, checkoutInput("Dhaka"))
	require.NoError(t, err)

	// A later catalog price change must not touch the historical order.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", 9999).Error)

	var items []models.OrderItem
	require.NoError(t, db.Find(&items, "order_id = ?", order.ID).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 1000.0, items[0].Price)

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, 1000.0, got.Subtotal)
}

func TestCheckout_UserOwnsOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Pitha Mix", 300, 10)
	user := seedUser(t, db, "buyer@example.com")
	p := models.UserPrincipal(user.ID, user.Email, user.Role)
	require.NoError(t, cart.AddItem(p, product.ID, nil, 1))

	order, err := orders.Checkout(p, checkoutInput("Dhaka"))
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)
	assert.Empty(t, order.GuestEmail)
}

func TestCheckout_SeparateBillingAddress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())
	orders := newOrderService(db)

	product := seedProduct(t, db, "Shital Pati", 700, 10)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 1))

	in := checkoutInput("Dhaka")
	in.BillingSameAsShipping = false
	in.BillingName = "Karim Mia"
	in.BillingCity = "Khulna"

	order, err := orders.Checkout(guest, in)
	require.NoError(t, err)
	assert.Equal(t, "Karim Mia", order.BillingName)
	assert.Equal(t, "Khulna", order.BillingCity)
	// Shipping city still drives the delivery fee.
	assert.Equal(t, 80.0, order.ShippingCost)
}
