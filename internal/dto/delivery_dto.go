package dto

// CreateDeliveryRequest is the body of POST /api/deliveries — the raw
// facade path that only auto-assigns the delivery number. The safe
// pending→delivered transition lives at POST /api/lpos/{id}/deliver.
type CreateDeliveryRequest struct {
	LPOID       string          `json:"lpoId"`
	LPONumber   string          `json:"lpoNumber"`
	CompanyID   string          `json:"companyId" validate:"required"`
	CompanyName string          `json:"companyName"`
	Items       []LineItemInput `json:"items"     validate:"dive"`
	Date        string          `json:"date"`
}
