// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const orderPageSize = 10

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// POST /cart
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), buyerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    cart,
	})
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// GET /cart/summary
func (h *CartHandler) Summary(c *gin.Context) {
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.cartService.Summary(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// DELETE /cart?seller_id= or /cart?product_id=
func (h *CartHandler) Remove(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}

	sellerParam, productParam := c.Query("seller_id"), c.Query("product_id")
	switch {
	case sellerParam != "":
		sellerID, err := uuid.Parse(sellerParam)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid seller_id", nil)
			return
		}
		if err := h.cartService.RemoveSeller(c.Request.Context(), buyerID, sellerID); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyCartCleared)})

	case productParam != "":
		productID, err := uuid.Parse(productParam)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid product_id", nil)
			return
		}
		if err := h.cartService.RemoveProduct(c.Request.Context(), buyerID, productID); err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyCartItemRemoved)})

	default:
		respondError(c, services.ErrCartTargetRequired)
	}
}

// POST /cart/checkout/:sellerId
func (h *CartHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}
	sellerID, ok := uuidParam(c, "sellerId")
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cartService.Checkout(c.Request.Context(), buyerID, sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCheckedOut),
		"order":   result.Order,
		"payment": result.Payment,
	})
}

// GET /orders
func (h *CartHandler) Orders(c *gin.Context) {
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c, orderPageSize)

	orders, total, err := h.cartService.Orders(c.Request.Context(), buyerID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}
