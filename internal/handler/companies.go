package handler

import (
	"net/http"

	"tradeledger/internal/dto"
	"tradeledger/internal/service"

	"github.com/gin-gonic/gin"
)

type CompaniesHandler struct{ svc *service.CompanyService }

func NewCompaniesHandler(svc *service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{svc: svc}
}

// Create godoc
// @Summary      Register a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateCompanyRequest true "Company details"
// @Success      201  {object} model.Company
// @Failure      400  {object} apierror.APIError
// @Router       /api/companies [post]
func (h *CompaniesHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	company, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *CompaniesHandler) List(c *gin.Context) {
	companies, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *CompaniesHandler) Get(c *gin.Context) {
	company, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompaniesHandler) Update(c *gin.Context) {
	var partial map[string]interface{}
	if !bindPartial(c, &partial) {
		return
	}
	company, err := h.svc.Update(c.Request.Context(), c.Param("id"), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompaniesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
