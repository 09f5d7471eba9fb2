// internal/services/shipping_service.go
package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/clients"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

const (
	DefaultWaybillCount = 6
	maxWaybillCount     = 25
	sellerShipDays      = 3
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

type ShippingService struct {
	provider  clients.ShippingProvider
	products  repository.ProductRepository
	addresses repository.AddressRepository
	now       func() time.Time
}

type Serviceability struct {
	Pincode    string              `json:"pincode"`
	PostalCode *clients.PostalCode `json:"postal_code"`
}

type DeliveryEstimate struct {
	ProductID      uuid.UUID `json:"product_id"`
	SellerPincode  string    `json:"seller_pincode"`
	BuyerPincode   string    `json:"buyer_pincode"`
	Zone           string    `json:"zone"`
	EstimatedDays  int       `json:"estimated_days"`
	SellerShipDate time.Time `json:"seller_ship_date"`
	DeliveryDate   time.Time `json:"delivery_date"`
}

func NewShippingService(provider clients.ShippingProvider, repos repository.Repositories) *ShippingService {
	return &ShippingService{
		provider:  provider,
		products:  repos.Products,
		addresses: repos.Addresses,
		now:       time.Now,
	}
}

// buyerPincode prefers the explicit pincode, then the viewer's default address.
func (s *ShippingService) buyerPincode(ctx context.Context, pincode string, viewer *uuid.UUID, missing error) (string, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode != "" {
		if !pincodePattern.MatchString(pincode) {
			return "", ErrPincodeRequired
		}
		return pincode, nil
	}
	if viewer == nil {
		return "", missing
	}
	address, err := s.addresses.GetDefault(ctx, *viewer)
	if err != nil {
		return "", notFoundOr(err, missing, "failed to load default address")
	}
	if address.Pincode == "" {
		return "", missing
	}
	return address.Pincode, nil
}

func (s *ShippingService) Serviceability(ctx context.Context, pincode string, viewer *uuid.UUID) (*Serviceability, error) {
	pincode, err := s.buyerPincode(ctx, pincode, viewer, ErrPincodeRequired)
	if err != nil {
		return nil, err
	}

	postal, err := s.provider.CheckPincode(ctx, pincode)
	if err != nil {
		return nil, shippingError(err)
	}
	return &Serviceability{Pincode: pincode, PostalCode: postal}, nil
}

// Estimate predicts shipping and delivery dates between the product's pickup
// address and the buyer.
func (s *ShippingService) Estimate(ctx context.Context, productID uuid.UUID, pincode string, viewer *uuid.UUID) (*DeliveryEstimate, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	if product.PickupAddressID == nil {
		return nil, ErrSellerPincodeMissing
	}
	pickup, err := s.addresses.GetByID(ctx, *product.PickupAddressID)
	if err != nil {
		return nil, notFoundOr(err, ErrSellerPincodeMissing, "failed to load pickup address")
	}
	if pickup.Pincode == "" {
		return nil, ErrSellerPincodeMissing
	}

	buyerPin, err := s.buyerPincode(ctx, pincode, viewer, ErrBuyerPincodeRequired)
	if err != nil {
		return nil, err
	}

	zone, err := s.provider.Zone(ctx, pickup.Pincode, buyerPin)
	if err != nil {
		return nil, shippingError(err)
	}
	zone = clients.NormalizeZone(zone)
	days := clients.EstimatedDays(zone)

	today := s.now()
	return &DeliveryEstimate{
		ProductID:      product.ID,
		SellerPincode:  pickup.Pincode,
		BuyerPincode:   buyerPin,
		Zone:           zone,
		EstimatedDays:  days,
		SellerShipDate: today.AddDate(0, 0, sellerShipDays),
		DeliveryDate:   today.AddDate(0, 0, days),
	}, nil
}

func (s *ShippingService) Waybills(ctx context.Context, count int) ([]string, error) {
	if count < 1 || count > maxWaybillCount {
		return nil, ErrInvalidWaybillCount
	}

	waybills, err := s.provider.Waybills(ctx, count)
	if err != nil {
		return nil, shippingError(err)
	}
	return waybills, nil
}
