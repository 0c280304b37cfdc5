package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/deshimart/internal/models"
)

// AddressService manages a user's saved addresses and keeps the
// at-most-one-default invariant: switching the default unsets every
// other default in the same transaction.
type AddressService struct {
	db *gorm.DB
}

// NewAddressService constructs an AddressService.
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default desc, created_at desc").
		Find(&addresses).Error
	return addresses, err
}

// Create saves a new address for the user.
func (s *AddressService) Create(userID uuid.UUID, address *models.Address) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	address.UserID = userID

	return s.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := unsetDefaults(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

// Update applies field updates to an address the user owns. Setting
// is_default switches the default atomically.
func (s *AddressService) Update(userID, addressID uuid.UUID, updates map[string]interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.First(&address, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: address not found", ErrNotFound)
			}
			return err
		}

		if isDefault, ok := updates["is_default"].(bool); ok && isDefault {
			if err := unsetDefaults(tx, userID); err != nil {
				return err
			}
		}

		return tx.Model(&address).Updates(updates).Error
	})
}

// Delete removes an address the user owns. Idempotent.
func (s *AddressService) Delete(userID, addressID uuid.UUID) error {
	return s.db.Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{}).Error
}

func unsetDefaults(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func validateAddress(address *models.Address) error {
	if address.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if len(address.Phone) < 10 {
		return fmt.Errorf("%w: valid phone number is required", ErrInvalidInput)
	}
	if len(address.AddressLine1) < 5 {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if address.City == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if address.Country == "" {
		address.Country = "Bangladesh"
	}
	if address.AddressType == "" {
		address.AddressType = "both"
	}
	return nil
}
