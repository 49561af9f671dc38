package response

type LinkResponse struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// OrderResponse is returned when a payment order is opened.
type OrderResponse struct {
	OrderID  string         `json:"orderId"`
	Amount   float64        `json:"amount"`
	Currency string         `json:"currency"`
	Links    []LinkResponse `json:"links"`
}
