package controllers

import (
	"net/http"

	"github.com/quickkart/quickkart-backend/api/responses"
	"github.com/quickkart/quickkart-backend/api/validators"
	checkoutsvc "github.com/quickkart/quickkart-backend/internal/checkout"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
	"github.com/quickkart/quickkart-backend/pkg/types"
)

type checkoutRequest struct {
	DeliveryAddress types.Address `json:"delivery_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required,oneof=cod online"`
}

// Checkout converts the stored cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentMethod, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.PlaceOrder(r.Context(), checkoutsvc.PlaceOrderInput{
			CustomerID:      customerID,
			DeliveryAddress: payload.DeliveryAddress,
			PaymentMethod:   paymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
