package handler

import (
	"net/http"

	"tradeledger/internal/dto"
	"tradeledger/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveriesHandler struct{ svc *service.DeliveryService }

func NewDeliveriesHandler(svc *service.DeliveryService) *DeliveriesHandler {
	return &DeliveriesHandler{svc: svc}
}

func (h *DeliveriesHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	delivery, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, delivery)
}

func (h *DeliveriesHandler) List(c *gin.Context) {
	deliveries, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

func (h *DeliveriesHandler) Get(c *gin.Context) {
	delivery, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}

func (h *DeliveriesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
