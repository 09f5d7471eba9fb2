// internal/handlers/wishlist.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const wishlistPageSize = 10

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
	}
}

// POST /wishlist/:productId
func (h *WishlistHandler) Add(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	item, err := h.wishlistService.Add(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyWishlistAdded),
		"wishlist": item,
	})
}

// DELETE /wishlist/:productId
func (h *WishlistHandler) Remove(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), userID, productID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWishlistRemoved),
	})
}

// GET /wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page := pageParam(c)

	items, total, err := h.wishlistService.List(c.Request.Context(), userID, services.WishlistQuery{
		Status:    c.Query("status"),
		Condition: c.Query("condition"),
		Category:  c.Query("category"),
		PriceType: c.Query("price_type"),
		MinPrice:  c.Query("min_price"),
		MaxPrice:  c.Query("max_price"),
		Sort:      c.Query("sort"),
		Page:      page,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.PaginationParams{Page: page, Limit: wishlistPageSize}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(items, total, params))
}

// GET /wishlist/count/:productId
func (h *WishlistHandler) Count(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	count, err := h.wishlistService.Count(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": productID,
		"count":      count,
	})
}
