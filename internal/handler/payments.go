package handler

import (
	"net/http"

	"tradeledger/internal/dto"
	"tradeledger/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc *service.PaymentService }

func NewPaymentsHandler(svc *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Create godoc
// @Summary      Record a payment
// @Description  Applies a payment against an invoice, an LPO, or the company alone. Overpayment beyond the outstanding balance is rejected before anything is written; once the payment record exists it is never rolled back.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body body dto.CreatePaymentRequest true "Payment details"
// @Success      201  {object} model.Payment
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError "target not found"
// @Failure      422  {object} apierror.APIError "overpayment"
// @Router       /api/payments [post]
func (h *PaymentsHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	payment, err := h.svc.Apply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentsHandler) List(c *gin.Context) {
	payments, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentsHandler) Get(c *gin.Context) {
	payment, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Delete godoc
// @Summary      Remove a mistaken payment
// @Description  Deletes the payment record and queues a balance re-derivation for whatever it targeted. Payments are otherwise immutable: there is no update route.
// @Tags         payments
// @Param        id path string true "Payment id"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /api/payments/{id} [delete]
func (h *PaymentsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
