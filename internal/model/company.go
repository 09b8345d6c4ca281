package model

// Company is a customer/supplier the business trades with.
// Name is copied onto LPOs, Invoices and Payments at creation time as a
// historical snapshot; editing a company never rewrites past documents.
type Company struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	KRAPin        string `json:"kraPin,omitempty"`
	CreatedAt     string `json:"createdAt"`
}
