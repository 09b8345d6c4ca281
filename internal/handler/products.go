package handler

import (
	"net/http"

	"tradeledger/internal/dto"
	"tradeledger/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc *service.ProductService }

func NewProductsHandler(svc *service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	product, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// List godoc
// @Summary      List the product catalog
// @Description  Served through a short-lived Redis cache; any catalog mutation invalidates it.
// @Tags         products
// @Produce      json
// @Success      200  {array} model.Product
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	var partial map[string]interface{}
	if !bindPartial(c, &partial) {
		return
	}
	product, err := h.svc.Update(c.Request.Context(), c.Param("id"), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
