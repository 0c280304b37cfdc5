package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/models"
	"github.com/example/deshimart/internal/services"
	"github.com/example/deshimart/internal/testutil"
)

func validAddress(name string, isDefault bool) models.Address {
	return models.Address{
		FullName:     name,
		Phone:        "01712345678",
		AddressLine1: "House 1, Road 2",
		City:         "Dhaka",
		IsDefault:    isDefault,
	}
}

func countDefaults(t *testing.T, db *gorm.DB, userID interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&n).Error)
	return n
}

func TestAddress_SingleDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	addresses := services.NewAddressService(db)
	user := seedUser(t, db, "addr@example.com")

	first := validAddress("Home", true)
	require.NoError(t, addresses.Create(user.ID, &first))

	second := validAddress("Office", true)
	require.NoError(t, addresses.Create(user.ID, &second))

	assert.EqualValues(t, 1, countDefaults(t, db, user.ID))

	var got models.Address
	require.NoError(t, db.First(&got, "user_id = ? AND is_default = ?", user.ID, true).Error)
	assert.Equal(t, "Office", got.FullName)
}

func TestAddress_UpdateSwitchesDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	addresses := services.NewAddressService(db)
	user := seedUser(t, db, "addr-switch@example.com")

	first := validAddress("Home", true)
	require.NoError(t, addresses.Create(user.ID, &first))
	second := validAddress("Office", false)
	require.NoError(t, addresses.Create(user.ID, &second))

	require.NoError(t, addresses.Update(user.ID, second.ID,
		map[string]interface{}{"is_default": true}))

	assert.EqualValues(t, 1, countDefaults(t, db, user.ID))

	var got models.Address
	require.NoError(t, db.First(&got, "id = ?", first.ID).Error)
	assert.False(t, got.IsDefault)
}

func TestAddress_ListDefaultFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	addresses := services.NewAddressService(db)
	user := seedUser(t, db, "addr-list@example.com")

	first := validAddress("Home", false)
	require.NoError(t, addresses.Create(user.ID, &first))
	second := validAddress("Office", true)
	require.NoError(t, addresses.Create(user.ID, &second))

	list, err := addresses.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Office", list[0].FullName)
}

func TestAddress_UpdateNotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	addresses := services.NewAddressService(db)
	owner := seedUser(t, db, "addr-owner@example.com")
	other := seedUser(t, db, "addr-other@example.com")

	address := validAddress("Home", true)
	require.NoError(t, addresses.Create(owner.ID, &address))

	err := addresses.Update(other.ID, address.ID,
		map[string]interface{}{"city": "Khulna"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
