package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type AddressService struct {
	addresses repository.AddressRepository
}

type AddressRequest struct {
	Name              string `json:"name" validate:"required,max=100"`
	HouseNumber       string `json:"house_number" validate:"required,max=100"`
	Street            string `json:"address" validate:"required,max=500"`
	Landmark          string `json:"landmark" validate:"omitempty,max=255"`
	City              string `json:"city" validate:"required,max=100"`
	State             string `json:"state" validate:"required,max=100"`
	Pincode           string `json:"pincode" validate:"required,pincode"`
	PhoneNumber       string `json:"phone_number" validate:"required,mobile"`
	IsDefault         bool   `json:"is_default"`
	PickupAvailable   bool   `json:"pickup_available"`
	DeliveryAvailable bool   `json:"delivery_available"`
	CODAvailable      bool   `json:"cod_available"`
}

func (r *AddressRequest) apply(address *models.Address) {
	address.Name = strings.TrimSpace(r.Name)
	address.HouseNumber = strings.TrimSpace(r.HouseNumber)
	address.Street = strings.TrimSpace(r.Street)
	address.Landmark = strings.TrimSpace(r.Landmark)
	address.City = strings.TrimSpace(r.City)
	address.State = strings.TrimSpace(r.State)
	address.Pincode = r.Pincode
	address.PhoneNumber = r.PhoneNumber
	address.PickupAvailable = r.PickupAvailable
	address.DeliveryAvailable = r.DeliveryAvailable
	address.CODAvailable = r.CODAvailable
}

func NewAddressService(addresses repository.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// Create stores a new address. A user's first address becomes the default.
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req *AddressRequest) (*models.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	count, err := s.addresses.CountByUser(ctx, userID)
	if err != nil {
		return nil, unexpected("failed to count addresses", err)
	}

	address := &models.Address{UserID: userID, IsDefault: req.IsDefault || count == 0}
	req.apply(address)

	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, unexpected("failed to create address", err)
	}
	return address, nil
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID, params utils.PaginationParams) ([]models.Address, int64, error) {
	addresses, total, err := s.addresses.ListByUser(ctx, userID, repository.Page{
		Offset: params.Offset(),
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, 0, unexpected("failed to list addresses", err)
	}
	return addresses, total, nil
}

func (s *AddressService) owned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.addresses.GetByID(ctx, addressID)
	if err != nil {
		return nil, notFoundOr(err, ErrAddressNotFound, "failed to load address")
	}
	if address.UserID != userID {
		return nil, ErrAddressForbidden
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req *AddressRequest) (*models.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	address, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	req.apply(address)
	// The default can only move to another address, never be dropped.
	address.IsDefault = address.IsDefault || req.IsDefault

	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, notFoundOr(err, ErrAddressNotFound, "failed to update address")
	}
	return address, nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addresses.SetDefault(ctx, userID, addressID); err != nil {
		return nil, notFoundOr(err, ErrAddressNotFound, "failed to set default address")
	}
	address.IsDefault = true
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if address.IsDefault {
		return ErrDefaultAddressDel
	}

	if err := s.addresses.Delete(ctx, addressID); err != nil {
		return notFoundOr(err, ErrAddressNotFound, "failed to delete address")
	}
	return nil
}
