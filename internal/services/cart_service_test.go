package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/services"
	"github.com/example/deshimart/internal/testutil"
)

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Slug:          name + "-" + uuid.NewString()[:8],
		SKU:           "SKU-" + uuid.NewString()[:8],
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedVariant(t *testing.T, db *gorm.DB, productID uuid.UUID, name, value string, modifier float64, stock int) models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{
		ProductID:     productID,
		VariantName:   name,
		VariantValue:  value,
		PriceModifier: modifier,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func countCartRows(t *testing.T, db *gorm.DB, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where(where, args...).Count(&n).Error)
	return n
}

func TestCartAddItem_MergesSameKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Panjabi", 1200, 20)
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(guest, product.ID, nil, 2))
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 3))

	var line models.CartItem
	require.NoError(t, db.First(&line, "guest_session_id = ?", guest.GuestToken).Error)
	assert.Equal(t, 5, line.Quantity)
	assert.EqualValues(t, 1, countCartRows(t, db, "guest_session_id = ?", guest.GuestToken))
}

func TestCartAddItem_VariantIsDistinctKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Saree", 2500, 20)
	variant := seedVariant(t, db, product.ID, "Color", "Red", 100, 10)
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(guest, product.ID, nil, 1))
	require.NoError(t, cart.AddItem(guest, product.ID, &variant.ID, 1))

	assert.EqualValues(t, 2, countCartRows(t, db, "guest_session_id = ?", guest.GuestToken))
}

func TestCartAddItem_RejectsForeignVariant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Lungi", 450, 20)
	other := seedProduct(t, db, "Gamcha", 150, 20)
	variant := seedVariant(t, db, other.ID, "Size", "L", 0, 5)
	guest := models.GuestPrincipal(uuid.NewString())

	err := cart.AddItem(guest, product.ID, &variant.ID, 1)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCartAddItem_InactiveProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Discontinued", 100, 20)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)
	guest := models.GuestPrincipal(uuid.NewString())

	err := cart.AddItem(guest, product.ID, nil, 1)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCartSetQuantity_ClampedByStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Honey", 900, 4)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 2))

	var line models.CartItem
	require.NoError(t, db.First(&line, "guest_session_id = ?", guest.GuestToken).Error)

	assert.ErrorIs(t, cart.SetQuantity(guest, line.ID, 5), services.ErrInvalidInput)
	require.NoError(t, cart.SetQuantity(guest, line.ID, 4))

	require.NoError(t, db.First(&line, "id = ?", line.ID).Error)
	assert.Equal(t, 4, line.Quantity)
}

func TestCartSetQuantity_NotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Tea", 300, 10)
	owner := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(owner, product.ID, nil, 1))

	var line models.CartItem
	require.NoError(t, db.First(&line, "guest_session_id = ?", owner.GuestToken).Error)

	stranger := models.GuestPrincipal(uuid.NewString())
	assert.ErrorIs(t, cart.SetQuantity(stranger, line.ID, 2), services.ErrNotFound)
}

func TestCartRemoveItem_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Jaggery", 250, 10)
	guest := models.GuestPrincipal(uuid.NewString())
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 1))

	var line models.CartItem
	require.NoError(t, db.First(&line, "guest_session_id = ?", guest.GuestToken).Error)

	require.NoError(t, cart.RemoveItem(guest, line.ID))
	require.NoError(t, cart.RemoveItem(guest, line.ID))
	assert.EqualValues(t, 0, countCartRows(t, db, "guest_session_id = ?", guest.GuestToken))
}

func TestCartListItems_Totals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Khejur Gur", 500, 50)
	variant := seedVariant(t, db, product.ID, "Weight", "1kg", 50, 30)
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(guest, product.ID, nil, 2))
	require.NoError(t, cart.AddItem(guest, product.ID, &variant.ID, 3))

	summary, err := cart.ListItems(guest)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, 5, summary.ItemCount)
	// 2*500 plain + 3*(500+50) variant
	assert.Equal(t, 2650.0, summary.Subtotal)
}

func TestCartMerge_AddsIntoExistingLine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Mustard Oil", 350, 30)
	user := seedUser(t, db, "merge-add@example.com")
	userPrincipal := models.UserPrincipal(user.ID, user.Email, user.Role)
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(userPrincipal, product.ID, nil, 2))
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 3))

	require.NoError(t, cart.MergeGuestIntoUser(guest.GuestToken, user.ID))

	var line models.CartItem
	require.NoError(t, db.First(&line, "user_id = ?", user.ID).Error)
	assert.Equal(t, 5, line.Quantity)
	assert.EqualValues(t, 1, countCartRows(t, db, "user_id = ?", user.ID))
	assert.EqualValues(t, 0, countCartRows(t, db, "guest_session_id = ?", guest.GuestToken))
}

func TestCartMerge_ReassignsUnmatchedLine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Black Seed Oil", 600, 30)
	user := seedUser(t, db, "merge-reassign@example.com")
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(guest, product.ID, nil, 4))
	require.NoError(t, cart.MergeGuestIntoUser(guest.GuestToken, user.ID))

	var line models.CartItem
	require.NoError(t, db.First(&line, "user_id = ?", user.ID).Error)
	assert.Equal(t, 4, line.Quantity)
	assert.Nil(t, line.GuestSessionID)
}

func TestCartMerge_Rerun_NoDoubleCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	product := seedProduct(t, db, "Chanachur", 120, 30)
	user := seedUser(t, db, "merge-rerun@example.com")
	userPrincipal := models.UserPrincipal(user.ID, user.Email, user.Role)
	guest := models.GuestPrincipal(uuid.NewString())

	require.NoError(t, cart.AddItem(userPrincipal, product.ID, nil, 2))
	require.NoError(t, cart.AddItem(guest, product.ID, nil, 3))

	require.NoError(t, cart.MergeGuestIntoUser(guest.GuestToken, user.ID))
	require.NoError(t, cart.MergeGuestIntoUser(guest.GuestToken, user.ID))

	var line models.CartItem
	require.NoError(t, db.First(&line, "user_id = ?", user.ID).Error)
	assert.Equal(t, 5, line.Quantity)
}

func TestCartMerge_EmptyTokenIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cart := services.NewCartService(db, zap.NewNop())

	user := seedUser(t, db, "merge-noop@example.com")
	require.NoError(t, cart.MergeGuestIntoUser("", user.ID))
}
