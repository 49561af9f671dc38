package adaptor

import (
	"net/http"

	"staynest/internal/dto/request"
	"staynest/internal/usecase"
	"staynest/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// Create handles POST /api/payments
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.Initiate(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "Payment order created", order)
}

// Capture handles POST /api/payments/capture
func (h *PaymentHandler) Capture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CapturePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.Capture(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "capture payment")
		return
	}

	utils.ResponseSuccess(w, "Payment captured", booking)
}
