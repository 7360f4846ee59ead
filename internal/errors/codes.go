package errors

// Error code constants, CATEGORY_SPECIFIC_DETAIL. The view layer maps
// these codes to user-facing states (retry prompt, disabled button,
// non-blocking warning).

const (
	// ==================== Storefront backend (STOREFRONT_) ====================
	StorefrontFetchFailed = "STOREFRONT_FETCH_FAILED" // transport/backend failure or malformed payload; retryable

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound  = "PRODUCT_NOT_FOUND"  // valid response, no such product; not retryable
	ProductNotLoaded = "PRODUCT_NOT_LOADED" // detail operation before a product load

	// ==================== Variants (VARIANT_) ====================
	VariantNoMatch = "VARIANT_NO_MATCH" // no exact match for a full selection; purchase disabled

	// ==================== Cart (CART_) ====================
	CartInvalidQuantity = "CART_INVALID_QUANTITY" // quantity < 1 on add
	CartItemUnavailable = "CART_ITEM_UNAVAILABLE" // variant not available for sale
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"   // update on a missing line
	CartPersistFailed   = "CART_PERSIST_FAILED"   // snapshot write failed; in-memory cart stands

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Request lifecycle (REQUEST_) ====================
	RequestSuperseded = "REQUEST_SUPERSEDED" // stale load discarded in favor of a newer one

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
