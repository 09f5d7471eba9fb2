// internal/services/product_service.go
package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/pricing"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type ProductService struct {
	products  repository.ProductRepository
	users     repository.UserRepository
	addresses repository.AddressRepository
	prices    *PriceService
	storage   *StorageService
	config    *config.Config
}

type ProductRequest struct {
	Title                string               `json:"title" validate:"required,min=3,max=255"`
	Description          string               `json:"description" validate:"required,min=10"`
	PrimaryCategory      string               `json:"primary_category" validate:"required,max=100"`
	SecondaryCategory    string               `json:"secondary_category" validate:"omitempty,max=100"`
	TertiaryCategory     string               `json:"tertiary_category" validate:"omitempty,max=100"`
	Images               []string             `json:"images" validate:"required,min=1,dive,required"`
	Thumbnails           []string             `json:"thumbnails,omitempty"`
	Video                string               `json:"video,omitempty"`
	PickupAddressID      *uuid.UUID           `json:"pickup_address_id,omitempty"`
	Condition            string               `json:"condition" validate:"required,max=50"`
	ManufacturingCountry string               `json:"manufacturing_country" validate:"omitempty,max=100"`
	Weight               float64              `json:"weight" validate:"gte=0"`
	Brand                string               `json:"brand,omitempty" validate:"omitempty,max=100"`
	Occasion             string               `json:"occasion,omitempty" validate:"omitempty,max=100"`
	Color                string               `json:"color,omitempty" validate:"omitempty,max=50"`
	Shape                string               `json:"shape,omitempty" validate:"omitempty,max=50"`
	Fabric               string               `json:"fabric,omitempty" validate:"omitempty,max=50"`
	Quantity             int                  `json:"quantity" validate:"gte=0"`
	ShippingMethod       string               `json:"shipping_method" validate:"omitempty,max=50"`
	Size                 models.ProductSize   `json:"size"`
	Price                models.ProductPrice  `json:"price"`
	Status               models.ProductStatus `json:"status,omitempty"`
}

func (r *ProductRequest) apply(product *models.Product) {
	product.Title = strings.TrimSpace(r.Title)
	product.Description = strings.TrimSpace(r.Description)
	product.PrimaryCategory = r.PrimaryCategory
	product.SecondaryCategory = r.SecondaryCategory
	product.TertiaryCategory = r.TertiaryCategory
	product.Images = pq.StringArray(r.Images)
	product.Thumbnails = pq.StringArray(r.Thumbnails)
	product.Video = r.Video
	product.Condition = r.Condition
	product.ManufacturingCountry = r.ManufacturingCountry
	product.Weight = r.Weight
	product.Brand = r.Brand
	product.Occasion = r.Occasion
	product.Color = r.Color
	product.Shape = r.Shape
	product.Fabric = r.Fabric
	product.Quantity = r.Quantity
	if product.Quantity == 0 {
		product.Quantity = 1
	}
	product.ShippingMethod = r.ShippingMethod
	product.Size = r.Size
	product.Price = r.Price
}

type SellerInfo struct {
	models.UserSummary
	IsOnline    bool `json:"is_online"`
	HolidayMode bool `json:"holiday_mode"`
}

func sellerInfo(user *models.User) *SellerInfo {
	if user == nil {
		return nil
	}
	return &SellerInfo{UserSummary: user.Summary(), IsOnline: user.IsOnline, HolidayMode: user.HolidayMode}
}

// ProductPrivate holds the listing details only the seller sees.
type ProductPrivate struct {
	GSTNumber       string     `json:"gst_number,omitempty"`
	PickupAddressID *uuid.UUID `json:"pickup_address_id,omitempty"`
	Quantity        int        `json:"quantity"`
	ShippingMethod  string     `json:"shipping_method"`
}

// ProductView is the product page for a particular viewer.
type ProductView struct {
	ID                   uuid.UUID              `json:"id"`
	Slug                 string                 `json:"slug"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	PrimaryCategory      string                 `json:"primary_category"`
	SecondaryCategory    string                 `json:"secondary_category,omitempty"`
	TertiaryCategory     string                 `json:"tertiary_category,omitempty"`
	Images               []string               `json:"images"`
	Thumbnails           []string               `json:"thumbnails"`
	Video                string                 `json:"video,omitempty"`
	Condition            string                 `json:"condition"`
	ManufacturingCountry string                 `json:"manufacturing_country,omitempty"`
	Weight               float64                `json:"weight"`
	Brand                string                 `json:"brand,omitempty"`
	Occasion             string                 `json:"occasion,omitempty"`
	Color                string                 `json:"color,omitempty"`
	Shape                string                 `json:"shape,omitempty"`
	Fabric               string                 `json:"fabric,omitempty"`
	Size                 models.ProductSize     `json:"size"`
	Status               models.ProductStatus   `json:"status"`
	Views                int64                  `json:"views"`
	Price                pricing.EffectivePrice `json:"price"`
	Seller               *SellerInfo            `json:"seller,omitempty"`
	IsOwner              bool                   `json:"is_owner"`
	Private              *ProductPrivate        `json:"private,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
}

type ProductCard struct {
	ID        uuid.UUID              `json:"id"`
	Slug      string                 `json:"slug"`
	Title     string                 `json:"title"`
	Image     string                 `json:"image"`
	Condition string                 `json:"condition"`
	Category  string                 `json:"category"`
	Status    models.ProductStatus   `json:"status"`
	Price     pricing.EffectivePrice `json:"price"`
	Seller    *SellerInfo            `json:"seller,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func newProductCard(product *models.Product, price pricing.EffectivePrice) ProductCard {
	image := ""
	if len(product.Thumbnails) > 0 {
		image = product.Thumbnails[0]
	} else if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return ProductCard{
		ID:        product.ID,
		Slug:      product.Slug,
		Title:     product.Title,
		Image:     image,
		Condition: product.Condition,
		Category:  product.Category(),
		Status:    product.Status,
		Price:     price,
		Seller:    sellerInfo(product.Seller),
		CreatedAt: product.CreatedAt,
	}
}

type CardFilter struct {
	Category  string
	Status    string
	Condition string
	Search    string
	utils.PaginationParams
}

func NewProductService(repos repository.Repositories, prices *PriceService, storage *StorageService, config *config.Config) *ProductService {
	return &ProductService{
		products:  repos.Products,
		users:     repos.Users,
		addresses: repos.Addresses,
		prices:    prices,
		storage:   storage,
		config:    config,
	}
}

func (s *ProductService) UploadImages(ctx context.Context, headers []*multipart.FileHeader) ([]UploadResult, error) {
	if len(headers) == 0 {
		return nil, ErrNoFilesUploaded
	}
	if len(headers) > s.config.Marketplace.MaxProductImages {
		return nil, badRequest(models.ErrTooManyImages)
	}
	return s.storage.UploadFiles(ctx, headers, s.storage.GetDefaultUploadOptions("products"))
}

func (s *ProductService) UploadVideo(ctx context.Context, header *multipart.FileHeader) (*UploadResult, error) {
	if header == nil {
		return nil, ErrNoFilesUploaded
	}
	return s.storage.UploadFile(ctx, header, s.storage.GetDefaultUploadOptions("videos"))
}

func (s *ProductService) CreateProduct(ctx context.Context, sellerID uuid.UUID, req *ProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "failed to load seller")
	}

	pickup, err := s.pickupAddress(ctx, sellerID, req.PickupAddressID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:        sellerID,
		GSTNumber:       seller.GSTNumber,
		PickupAddressID: &pickup.ID,
		Status:          models.ProductStatusAvailable,
	}
	product.ID = uuid.New()
	req.apply(product)
	product.Slug = productSlug(product.Title, product.ID)

	if err := product.Validate(s.config.Marketplace.MaxProductImages); err != nil {
		return nil, badRequest(err)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, unexpected("failed to create product", err)
	}
	product.Seller = seller
	return product, nil
}

// pickupAddress falls back to the seller's default address.
func (s *ProductService) pickupAddress(ctx context.Context, sellerID uuid.UUID, addressID *uuid.UUID) (*models.Address, error) {
	if addressID == nil {
		address, err := s.addresses.GetDefault(ctx, sellerID)
		if err != nil {
			return nil, notFoundOr(err, ErrPickupAddressRequired, "failed to load default address")
		}
		return address, nil
	}

	address, err := s.addresses.GetByID(ctx, *addressID)
	if err != nil {
		return nil, notFoundOr(err, ErrAddressNotFound, "failed to load pickup address")
	}
	if address.UserID != sellerID {
		return nil, ErrPickupAddressInvalid
	}
	return address, nil
}

func productSlug(title string, id uuid.UUID) string {
	return slug.Make(title) + "-" + id.String()[:8]
}

func (s *ProductService) owned(ctx context.Context, sellerID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	if product.SellerID != sellerID {
		return nil, ErrProductForbidden
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, req *ProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	product, err := s.owned(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	if req.PickupAddressID != nil {
		pickup, err := s.pickupAddress(ctx, sellerID, req.PickupAddressID)
		if err != nil {
			return nil, err
		}
		product.PickupAddressID = &pickup.ID
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, ErrInvalidProductStatus
		}
		product.Status = req.Status
	}
	req.apply(product)

	if err := product.Validate(s.config.Marketplace.MaxProductImages); err != nil {
		return nil, badRequest(err)
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, unexpected("failed to update product", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error {
	if _, err := s.owned(ctx, sellerID, productID); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return notFoundOr(err, ErrProductNotFound, "failed to delete product")
	}
	return nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID, viewer *uuid.UUID) (*ProductView, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	return s.view(ctx, product, viewer)
}

func (s *ProductService) GetProductBySlug(ctx context.Context, productSlug string, viewer *uuid.UUID) (*ProductView, error) {
	product, err := s.products.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	return s.view(ctx, product, viewer)
}

func (s *ProductService) view(ctx context.Context, product *models.Product, viewer *uuid.UUID) (*ProductView, error) {
	price, err := s.prices.ForProduct(ctx, viewer, product)
	if err != nil {
		return nil, err
	}

	isOwner := viewer != nil && *viewer == product.SellerID
	if !isOwner {
		if err := s.products.IncrementViews(ctx, product.ID); err != nil {
			logrus.WithError(err).WithField("product_id", product.ID).Warn("Failed to increment product views")
		} else {
			product.Views++
		}
	}

	view := &ProductView{
		ID:                   product.ID,
		Slug:                 product.Slug,
		Title:                product.Title,
		Description:          product.Description,
		PrimaryCategory:      product.PrimaryCategory,
		SecondaryCategory:    product.SecondaryCategory,
		TertiaryCategory:     product.TertiaryCategory,
		Images:               product.Images,
		Thumbnails:           product.Thumbnails,
		Video:                product.Video,
		Condition:            product.Condition,
		ManufacturingCountry: product.ManufacturingCountry,
		Weight:               product.Weight,
		Brand:                product.Brand,
		Occasion:             product.Occasion,
		Color:                product.Color,
		Shape:                product.Shape,
		Fabric:               product.Fabric,
		Size:                 product.Size,
		Status:               product.Status,
		Views:                product.Views,
		Price:                price,
		Seller:               sellerInfo(product.Seller),
		IsOwner:              isOwner,
		CreatedAt:            product.CreatedAt,
	}
	if isOwner {
		view.Private = &ProductPrivate{
			GSTNumber:       product.GSTNumber,
			PickupAddressID: product.PickupAddressID,
			Quantity:        product.Quantity,
			ShippingMethod:  product.ShippingMethod,
		}
	}
	return view, nil
}

// ListCards lists products for browsing. Without a status filter only
// available products are shown.
func (s *ProductService) ListCards(ctx context.Context, filter CardFilter, viewer *uuid.UUID) ([]ProductCard, int64, error) {
	status := models.ProductStatusAvailable
	if filter.Status != "" {
		status = models.ProductStatus(filter.Status)
		if !status.Valid() {
			return nil, 0, ErrInvalidProductStatus
		}
	}

	return s.cards(ctx, repository.ProductFilter{
		Status:    &status,
		Condition: filter.Condition,
		Category:  filter.Category,
		Search:    strings.TrimSpace(filter.Search),
		Page:      repository.Page{Offset: filter.Offset(), Limit: filter.Limit},
	}, viewer)
}

func (s *ProductService) SellerCards(ctx context.Context, sellerID uuid.UUID, params utils.PaginationParams, viewer *uuid.UUID) ([]ProductCard, int64, error) {
	if _, err := s.users.GetByID(ctx, sellerID); err != nil {
		return nil, 0, notFoundOr(err, ErrUserNotFound, "failed to load seller")
	}

	return s.cards(ctx, repository.ProductFilter{
		SellerID: &sellerID,
		Page:     repository.Page{Offset: params.Offset(), Limit: params.Limit},
	}, viewer)
}

func (s *ProductService) cards(ctx context.Context, filter repository.ProductFilter, viewer *uuid.UUID) ([]ProductCard, int64, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, unexpected("failed to list products", err)
	}

	prices, err := s.prices.ForViewer(ctx, viewer, products)
	if err != nil {
		return nil, 0, err
	}

	cards := make([]ProductCard, 0, len(products))
	for i := range products {
		cards = append(cards, newProductCard(&products[i], prices[products[i].ID]))
	}
	return cards, total, nil
}
