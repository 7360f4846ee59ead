package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/pkg/storefront"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"storefront fetch", storefront.ErrFetch, http.StatusBadGateway, StorefrontFetchFailed},
		{"wrapped storefront fetch", fmt.Errorf("%w: timeout", storefront.ErrFetch), http.StatusBadGateway, StorefrontFetchFailed},
		{"product not found", service.ErrProductNotFound, http.StatusNotFound, ProductNotFound},
		{"no product loaded", service.ErrNoProductLoaded, http.StatusConflict, ProductNotLoaded},
		{"stale load", service.ErrStaleLoad, http.StatusConflict, RequestSuperseded},
		{"no matching variant", service.ErrNoMatchingVariant, http.StatusUnprocessableEntity, VariantNoMatch},
		{"invalid quantity", service.ErrInvalidQuantity, http.StatusBadRequest, CartInvalidQuantity},
		{"variant unavailable", service.ErrVariantUnavailable, http.StatusBadRequest, CartItemUnavailable},
		{"cart item not found", service.ErrCartItemNotFound, http.StatusNotFound, CartItemNotFound},
		{"invalid image index", service.ErrInvalidImageIndex, http.StatusBadRequest, ValidationInvalidRange},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}
