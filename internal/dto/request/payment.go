package request

type CreatePaymentRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
}

type CapturePaymentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}
