package dto

type InsertLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type IncrementLineRequest struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
