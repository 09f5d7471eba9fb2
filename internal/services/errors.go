// internal/services/errors.go
package services

import (
	"errors"

	"github.com/swapkaro/swapkaro-backend/internal/apperrors"
	"github.com/swapkaro/swapkaro-backend/internal/clients"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

// Authentication
var (
	ErrEmailTaken          = apperrors.BadRequest("EMAIL_TAKEN", "email is already registered")
	ErrUsernameTaken       = apperrors.BadRequest("USERNAME_TAKEN", "username is already taken")
	ErrMobileTaken         = apperrors.BadRequest("MOBILE_TAKEN", "mobile number is already registered")
	ErrInvalidCredentials  = apperrors.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrEmailNotVerified    = apperrors.Forbidden("EMAIL_NOT_VERIFIED", "please verify your email before logging in")
	ErrInvalidOTP          = apperrors.BadRequest("INVALID_OTP", "invalid OTP")
	ErrOTPExpired          = apperrors.BadRequest("OTP_EXPIRED", "OTP has expired, request a new one")
	ErrAlreadyVerified     = apperrors.BadRequest("ALREADY_VERIFIED", "email is already verified")
	ErrOTPCooldown         = apperrors.BadRequest("OTP_COOLDOWN", "please wait before requesting another OTP")
	ErrInvalidRefreshToken = apperrors.Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
)

// Users and community
var (
	ErrUserNotFound      = apperrors.NotFound("USER_NOT_FOUND", "user not found")
	ErrCannotFollowSelf  = apperrors.BadRequest("CANNOT_FOLLOW_SELF", "you cannot follow yourself")
	ErrUserNotVerified   = apperrors.Forbidden("USER_NOT_VERIFIED", "only verified users can be followed")
	ErrAlreadyFollowing  = apperrors.BadRequest("ALREADY_FOLLOWING", "you are already following this user")
	ErrNotFollowing      = apperrors.BadRequest("NOT_FOLLOWING", "you are not following this user")
	ErrCannotReportSelf  = apperrors.BadRequest("CANNOT_REPORT_SELF", "you cannot report yourself")
	ErrAddressNotFound   = apperrors.NotFound("ADDRESS_NOT_FOUND", "address not found")
	ErrAddressForbidden  = apperrors.Forbidden("ADDRESS_FORBIDDEN", "you can only manage your own addresses")
	ErrDefaultAddressDel = apperrors.BadRequest("DEFAULT_ADDRESS", "the default address cannot be deleted, set another default first")
)

// Products
var (
	ErrProductNotFound       = apperrors.NotFound("PRODUCT_NOT_FOUND", "product not found")
	ErrProductForbidden      = apperrors.Forbidden("PRODUCT_FORBIDDEN", "you can only manage your own products")
	ErrPickupAddressRequired = apperrors.BadRequest("PICKUP_ADDRESS_REQUIRED", "pickup address is required, add a default address first")
	ErrPickupAddressInvalid  = apperrors.BadRequest("PICKUP_ADDRESS_INVALID", "pickup address does not belong to you")
	ErrInvalidProductStatus  = apperrors.BadRequest("INVALID_STATUS", "invalid product status")
	ErrNoFilesUploaded       = apperrors.BadRequest("NO_FILES", "no files uploaded")
)

// Bargains
var (
	ErrBargainNotFound        = apperrors.NotFound("BARGAIN_NOT_FOUND", "bargain not found")
	ErrBargainExists          = apperrors.BadRequest("BARGAIN_EXISTS", "you already made an offer on this product, update it instead")
	ErrOwnProductBargain      = apperrors.Forbidden("OWN_PRODUCT", "you cannot bargain on your own product")
	ErrBargainSellerOnly      = apperrors.Forbidden("NOT_PRODUCT_SELLER", "only the product's seller can respond to this bargain")
	ErrBargainAlreadyAccepted = apperrors.BadRequest("BARGAIN_ACCEPTED", "bargain is already accepted")
	ErrBargainIsRejected      = apperrors.BadRequest("BARGAIN_REJECTED", "bargain has been rejected")
	ErrInvalidOfferChannel    = apperrors.BadRequest("INVALID_OFFER_CHANNEL", "offered_in must be cash or coin")
	ErrInvalidOfferedPrice    = apperrors.BadRequest("INVALID_OFFERED_PRICE", "offered_price must be greater than zero")
	ErrSellerReceivesRequired = apperrors.BadRequest("SELLER_RECEIVES_REQUIRED", "seller_receives is required")
	ErrInvalidBargainStatus   = apperrors.BadRequest("INVALID_STATUS", "invalid bargain status")
	ErrBargainListForbidden   = apperrors.Forbidden("BARGAIN_LIST_FORBIDDEN", "you can only view your own bargains")
)

// Cart, orders and wishlist
var (
	ErrOwnProductCart        = apperrors.Forbidden("OWN_PRODUCT", "you cannot add your own product to the cart")
	ErrProductUnavailable    = apperrors.BadRequest("PRODUCT_UNAVAILABLE", "product is not available")
	ErrCartFull              = apperrors.BadRequest("CART_FULL", "this seller's cart is full")
	ErrAlreadyInCart         = apperrors.BadRequest("ALREADY_IN_CART", "product is already in your cart")
	ErrCartNotFound          = apperrors.NotFound("CART_NOT_FOUND", "cart not found")
	ErrCartItemNotFound      = apperrors.NotFound("CART_ITEM_NOT_FOUND", "product is not in your cart")
	ErrCartTargetRequired    = apperrors.BadRequest("CART_TARGET_REQUIRED", "seller_id or product_id is required")
	ErrInvalidPaymentChannel = apperrors.BadRequest("INVALID_PAYMENT_CHANNEL", "payment_channel must be cash, coin or mix")
	ErrChannelNotOffered     = apperrors.BadRequest("CHANNEL_NOT_OFFERED", "a product in the cart is not sold through this payment channel")
	ErrShippingAddressNeeded = apperrors.BadRequest("SHIPPING_ADDRESS_REQUIRED", "shipping address is required, add a default address first")
	ErrAlreadyWishlisted     = apperrors.BadRequest("ALREADY_WISHLISTED", "product is already in your wishlist")
	ErrWishlistItemNotFound  = apperrors.NotFound("WISHLIST_ITEM_NOT_FOUND", "product is not in your wishlist")
	ErrInvalidPriceType      = apperrors.BadRequest("INVALID_PRICE_TYPE", "price_type must be cash, coin or mix")
	ErrInvalidWishlistSort   = apperrors.BadRequest("INVALID_SORT", "sort must be newest or oldest")
)

// Comments and shipping
var (
	ErrCommentNotFound       = apperrors.NotFound("COMMENT_NOT_FOUND", "comment not found")
	ErrPincodeRequired       = apperrors.BadRequest("PINCODE_REQUIRED", "pincode is required")
	ErrBuyerPincodeRequired  = apperrors.BadRequest("BUYER_PINCODE_REQUIRED", "buyer's pincode is required")
	ErrSellerPincodeMissing  = apperrors.BadRequest("SELLER_PINCODE_MISSING", "pickup address not found for this product")
	ErrPincodeNotServiceable = apperrors.NotFound("PINCODE_NOT_SERVICEABLE", "pincode not serviceable")
	ErrInvalidWaybillCount   = apperrors.BadRequest("INVALID_COUNT", "count must be between 1 and 25")
	ErrShippingNotConfigured = &apperrors.AppError{
		Kind:    apperrors.KindInternal,
		Code:    "SHIPPING_NOT_CONFIGURED",
		Message: "shipping provider not configured",
	}
)

// validationError wraps validator output so handlers can list the failing fields.
func validationError(err error) *apperrors.AppError {
	return &apperrors.AppError{
		Kind:    apperrors.KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Err:     err,
	}
}

func badRequest(err error) *apperrors.AppError {
	return apperrors.BadRequest("BAD_REQUEST", err.Error())
}

// unexpected wraps an infrastructure failure.
func unexpected(op string, err error) error {
	return apperrors.Internal(op, err)
}

// bargainError maps the model's state machine errors onto API errors.
func bargainError(err error) error {
	switch {
	case errors.Is(err, models.ErrBargainAccepted):
		return ErrBargainAlreadyAccepted
	case errors.Is(err, models.ErrBargainRejected):
		return ErrBargainIsRejected
	case errors.Is(err, models.ErrInvalidOfferChannel):
		return ErrInvalidOfferChannel
	case errors.Is(err, models.ErrInvalidOfferedPrice):
		return ErrInvalidOfferedPrice
	case errors.Is(err, models.ErrInvalidSellerReceives):
		return ErrSellerReceivesRequired
	}
	return err
}

func shippingError(err error) error {
	switch {
	case errors.Is(err, clients.ErrShippingNotConfigured):
		return ErrShippingNotConfigured
	case errors.Is(err, clients.ErrPincodeNotServiceable):
		return ErrPincodeNotServiceable
	}
	return unexpected("shipping provider request failed", err)
}

func notFoundOr(err, notFound error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return unexpected(op, err)
}
