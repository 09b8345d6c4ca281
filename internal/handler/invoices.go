package handler

import (
	"net/http"

	"tradeledger/internal/dto"
	"tradeledger/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc *service.InvoiceService }

func NewInvoicesHandler(svc *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// Create godoc
// @Summary      Create an invoice
// @Description  With lpoId set the invoice inherits the LPO's items and totals verbatim; billing the same LPO twice is rejected. Without lpoId a standalone invoice is computed from the given items.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateInvoiceRequest true "Invoice details"
// @Success      201  {object} model.Invoice
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError "lpo not found"
// @Failure      409  {object} apierror.APIError "LPO already billed"
// @Router       /api/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	invoice, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoicesHandler) List(c *gin.Context) {
	invoices, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	invoice, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoicesHandler) Update(c *gin.Context) {
	var partial map[string]interface{}
	if !bindPartial(c, &partial) {
		return
	}
	invoice, err := h.svc.Update(c.Request.Context(), c.Param("id"), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoicesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
