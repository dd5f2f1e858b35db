package service

import (
	"context"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type addressStore interface {
	GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*models.Address, error)
	ListAddressesForUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	CreateAddress(ctx context.Context, addr *models.Address) error
	UpdateAddress(ctx context.Context, addr *models.Address) error
	DeleteAddress(ctx context.Context, addressID, userID uuid.UUID) error
}

// pincodeValidator resolves a postal code to locality data or rejects it.
type pincodeValidator interface {
	Validate(ctx context.Context, pincode string) (*models.PincodeEntry, error)
}

// AddressService handles saved addresses, always scoped to the owning user.
// Pincodes are validated when an address is saved or edited, not at checkout:
// checkout snapshots an already-validated address.
type AddressService struct {
	store    addressStore
	pincodes pincodeValidator
	logger   *zap.Logger
}

// NewAddressService creates a new address service
func NewAddressService(store addressStore, pincodes pincodeValidator) *AddressService {
	return &AddressService{
		store:    store,
		pincodes: pincodes,
		logger:   util.GetLogger(),
	}
}

// Save stores a new address for the user
func (s *AddressService) Save(ctx context.Context, addr *models.Address, userID uuid.UUID) (*models.Address, error) {
	if err := s.validate(ctx, addr); err != nil {
		return nil, err
	}

	addr.UserID = userID
	if err := s.store.CreateAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// List retrieves all of the user's saved addresses
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return s.store.ListAddressesForUser(ctx, userID)
}

// Update edits one of the user's own addresses
func (s *AddressService) Update(ctx context.Context, addr *models.Address, userID uuid.UUID) (*models.Address, error) {
	if err := s.validate(ctx, addr); err != nil {
		return nil, err
	}

	addr.UserID = userID
	if err := s.store.UpdateAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// Delete removes one of the user's own addresses. Delivery snapshots taken
// from it remain untouched.
func (s *AddressService) Delete(ctx context.Context, addressID, userID uuid.UUID) error {
	return s.store.DeleteAddress(ctx, addressID, userID)
}

func (s *AddressService) validate(ctx context.Context, addr *models.Address) error {
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.Country == "" {
		return apperr.Validation("street, city, state and country are required")
	}
	if addr.Phone == "" {
		return apperr.Validation("phone is required")
	}

	if _, err := s.pincodes.Validate(ctx, addr.Pincode); err != nil {
		return err
	}
	return nil
}
