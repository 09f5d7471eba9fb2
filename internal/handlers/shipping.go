// internal/handlers/shipping.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type ShippingHandler struct {
	shippingService *services.ShippingService
}

func NewShippingHandler(shippingService *services.ShippingService) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
	}
}

// GET /shipping/serviceability?pincode=
func (h *ShippingHandler) Serviceability(c *gin.Context) {
	result, err := h.shippingService.Serviceability(c.Request.Context(), c.Query("pincode"), utils.GetViewerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /shipping/estimate?product_id=&pincode=
func (h *ShippingHandler) Estimate(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product_id", nil)
		return
	}

	estimate, err := h.shippingService.Estimate(c.Request.Context(), productID, c.Query("pincode"), utils.GetViewerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, estimate)
}

// GET /shipping/waybills?count=
func (h *ShippingHandler) Waybills(c *gin.Context) {
	count := services.DefaultWaybillCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid count", nil)
			return
		}
		count = parsed
	}

	waybills, err := h.shippingService.Waybills(c.Request.Context(), count)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"count":    len(waybills),
		"waybills": waybills,
	})
}
