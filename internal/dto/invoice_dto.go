package dto

// CreateInvoiceRequest is the body of POST /api/invoices.
//
// With LPOID set the invoice is derived from that LPO (items and totals
// inherited verbatim, duplicate billing rejected) and CompanyID/Items are
// ignored. Without it, a standalone invoice is created from the given items.
// InvoiceNo, when supplied, bypasses the generator.
type CreateInvoiceRequest struct {
	LPOID     string          `json:"lpoId"`
	InvoiceNo string          `json:"invoiceNo"`
	CompanyID string          `json:"companyId" validate:"required_without=LPOID"`
	Items     []LineItemInput `json:"items"     validate:"required_without=LPOID,dive"`
	Date      string          `json:"date"`
}
