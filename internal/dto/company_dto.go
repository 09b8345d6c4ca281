package dto

// CreateCompanyRequest is the body of POST /api/companies.
type CreateCompanyRequest struct {
	Name          string `json:"name"          validate:"required,min=2"`
	ContactPerson string `json:"contactPerson" validate:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"         validate:"omitempty,email"`
	Address       string `json:"address"`
	KRAPin        string `json:"kraPin"`
}
