package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/pkg/storefront"
)

// ErrorInfo is the HTTP rendering of a classified error
type ErrorInfo struct {
	Status  int    // HTTP status code
	Code    string // error code (codes.go)
	Message string // user-facing message
}

// ParseError maps classified service and storefront errors to their
// HTTP rendering. Nothing is swallowed: an unrecognized error becomes
// an internal server error.
func ParseError(err error) ErrorInfo {
	switch {
	case err == nil:
		return ErrorInfo{http.StatusInternalServerError, InternalServerError, "Something went wrong"}

	case errors.Is(err, storefront.ErrFetch):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    StorefrontFetchFailed,
			Message: "Couldn't load the shop right now. Please try again",
		}

	case errors.Is(err, service.ErrProductNotFound):
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ProductNotFound,
			Message: "This product doesn't exist or has been removed",
		}

	case errors.Is(err, service.ErrNoProductLoaded):
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    ProductNotLoaded,
			Message: "Load the product before changing the selection",
		}

	case errors.Is(err, service.ErrStaleLoad):
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    RequestSuperseded,
			Message: "A newer product load replaced this one",
		}

	case errors.Is(err, service.ErrNoMatchingVariant):
		return ErrorInfo{
			Status:  http.StatusUnprocessableEntity,
			Code:    VariantNoMatch,
			Message: "This combination is unavailable",
		}

	case errors.Is(err, service.ErrInvalidQuantity):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    CartInvalidQuantity,
			Message: "Quantity must be at least 1",
		}

	case errors.Is(err, service.ErrVariantUnavailable):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    CartItemUnavailable,
			Message: "This item is out of stock",
		}

	case errors.Is(err, service.ErrCartItemNotFound):
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    CartItemNotFound,
			Message: "That item isn't in your cart",
		}

	case errors.Is(err, service.ErrInvalidImageIndex):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidRange,
			Message: "Image index out of range",
		}

	default:
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Something went wrong. Please try again shortly",
		}
	}
}

// Respond renders a classified error on the gin context
func Respond(c *gin.Context, err error) {
	info := ParseError(err)
	RespondWithError(c, info.Status, info.Code, info.Message)
}
