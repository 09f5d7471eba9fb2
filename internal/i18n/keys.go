// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthTokenRevoked       = "auth.token_revoked"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthSignupSuccess      = "auth.signup_success"
	KeyAuthOTPVerified        = "auth.otp_verified"
	KeyAuthOTPSent            = "auth.otp_sent"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthTokenRefreshed     = "auth.token_refreshed"
	KeyAccessDenied           = "access.denied"

	// Users
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserAvatarUpdated  = "user.avatar_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserHolidayOn      = "user.holiday_enabled"
	KeyUserHolidayOff     = "user.holiday_disabled"
	KeyUserFollowed       = "user.followed"
	KeyUserUnfollowed     = "user.unfollowed"
	KeyUserReported       = "user.reported"

	// Addresses
	KeyAddressCreated    = "address.created"
	KeyAddressUpdated    = "address.updated"
	KeyAddressDeleted    = "address.deleted"
	KeyAddressDefaultSet = "address.default_set"
	KeyAddressNotFound   = "address.not_found"

	// Products
	KeyProductCreated        = "product.created"
	KeyProductUpdated        = "product.updated"
	KeyProductDeleted        = "product.deleted"
	KeyProductNotFound       = "product.not_found"
	KeyProductImagesUploaded = "product.images_uploaded"
	KeyProductVideoUploaded  = "product.video_uploaded"

	// Bargains
	KeyBargainCreated  = "bargain.created"
	KeyBargainUpdated  = "bargain.updated"
	KeyBargainAccepted = "bargain.accepted"
	KeyBargainRejected = "bargain.rejected"
	KeyBargainNotFound = "bargain.not_found"

	// Cart and orders
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartCleared     = "cart.cleared"
	KeyCartCheckedOut  = "cart.checked_out"

	// Wishlist
	KeyWishlistAdded   = "wishlist.added"
	KeyWishlistRemoved = "wishlist.removed"

	// Comments
	KeyCommentCreated = "comment.created"
	KeyReplyCreated   = "comment.reply_created"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
