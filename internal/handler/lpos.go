package handler

import (
	"net/http"

	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/service"

	"github.com/gin-gonic/gin"
)

type LPOsHandler struct{ svc *service.LPOService }

func NewLPOsHandler(svc *service.LPOService) *LPOsHandler { return &LPOsHandler{svc: svc} }

// Create godoc
// @Summary      Create a purchase order
// @Description  Recomputes all totals server-side and assigns the next LPO number unless a manual one is supplied.
// @Tags         lpos
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateLPORequest true "Order details"
// @Success      201  {object} model.LPO
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "manual LPO number already taken"
// @Router       /api/lpos [post]
func (h *LPOsHandler) Create(c *gin.Context) {
	var req dto.CreateLPORequest
	if !bindAndValidate(c, &req) {
		return
	}
	lpo, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lpo)
}

func (h *LPOsHandler) List(c *gin.Context) {
	lpos, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lpos)
}

func (h *LPOsHandler) Get(c *gin.Context) {
	lpo, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lpo)
}

func (h *LPOsHandler) Update(c *gin.Context) {
	var partial map[string]interface{}
	if !bindPartial(c, &partial) {
		return
	}
	lpo, err := h.svc.Update(c.Request.Context(), c.Param("id"), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lpo)
}

func (h *LPOsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkDelivered godoc
// @Summary      Mark an LPO delivered
// @Description  One-way transition pending → delivered; records the matching delivery document.
// @Tags         lpos
// @Produce      json
// @Param        id path string true "LPO id"
// @Success      200  {object} handler.DeliverResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "already delivered"
// @Router       /api/lpos/{id}/deliver [post]
func (h *LPOsHandler) MarkDelivered(c *gin.Context) {
	lpo, delivery, err := h.svc.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeliverResponse{LPO: lpo, Delivery: delivery})
}

// DeliverResponse bundles the updated LPO with the delivery it produced.
type DeliverResponse struct {
	LPO      *model.LPO      `json:"lpo"`
	Delivery *model.Delivery `json:"delivery"`
}
