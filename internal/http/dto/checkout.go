package dto

type CheckoutRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	TableNumber   int     `json:"table_number"`
}

type PaymentRequest struct {
	Reference string `json:"reference"`
}
