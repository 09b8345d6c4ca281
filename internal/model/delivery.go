package model

// Delivery records that goods for an LPO were physically delivered.
// Status is always the constant "delivered"; exactly one delivery is
// created per LPO by the pending → delivered transition.
type Delivery struct {
	ID          string     `json:"id,omitempty"`
	DeliveryNo  string     `json:"deliveryNo"`
	LPOID       string     `json:"lpoId,omitempty"`
	LPONumber   string     `json:"lpoNumber,omitempty"`
	CompanyID   string     `json:"companyId"`
	CompanyName string     `json:"companyName"`
	Items       []LineItem `json:"items"`
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"createdAt"`
}

// DeliveryStatusDelivered is the only value Delivery.Status ever takes.
const DeliveryStatusDelivered = "delivered"
