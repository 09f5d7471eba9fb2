// internal/handlers/bargain.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type bargainAction func(ctx context.Context, sellerID, bargainID uuid.UUID) (*models.Bargain, error)

type BargainHandler struct {
	bargainService *services.BargainService
}

func NewBargainHandler(bargainService *services.BargainService) *BargainHandler {
	return &BargainHandler{
		bargainService: bargainService,
	}
}

// POST /bargains/:productId
func (h *BargainHandler) CreateBargain(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	var req services.BargainRequest
	if !bindJSON(c, &req) {
		return
	}

	bargain, err := h.bargainService.CreateBargain(c.Request.Context(), buyerID, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBargainCreated),
		"bargain": bargain,
	})
}

// PUT /bargains/:productId
func (h *BargainHandler) UpdateBargain(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	var req services.BargainRequest
	if !bindJSON(c, &req) {
		return
	}

	bargain, err := h.bargainService.UpdateBargain(c.Request.Context(), buyerID, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBargainUpdated),
		"bargain": bargain,
	})
}

// PATCH /bargains/:bargainId/accept
func (h *BargainHandler) AcceptBargain(c *gin.Context) {
	h.respond(c, h.bargainService.AcceptBargain, i18n.KeyBargainAccepted)
}

// PATCH /bargains/:bargainId/reject
func (h *BargainHandler) RejectBargain(c *gin.Context) {
	h.respond(c, h.bargainService.RejectBargain, i18n.KeyBargainRejected)
}

func (h *BargainHandler) respond(c *gin.Context, action bargainAction, messageKey string) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUser(c)
	if !ok {
		return
	}
	bargainID, ok := uuidParam(c, "bargainId")
	if !ok {
		return
	}

	bargain, err := action(c.Request.Context(), sellerID, bargainID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"bargain": bargain,
	})
}

// GET /bargains/product/:productId
func (h *BargainHandler) ProductBargains(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	result, err := h.bargainService.ProductBargains(
		c.Request.Context(), productID, utils.GetViewerFromContext(c), c.Query("status"), pageParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /bargains/buyer/:userId
func (h *BargainHandler) BuyerBargains(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}
	buyerID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	page := pageParam(c)

	items, total, err := h.bargainService.BuyerBargains(c.Request.Context(), callerID, buyerID, c.Query("status"), page)
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.PaginationParams{Page: page, Limit: services.BargainPageSize}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(items, total, params))
}

// GET /bargains/seller/:sellerId
func (h *BargainHandler) SellerBargains(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}
	sellerID, ok := uuidParam(c, "sellerId")
	if !ok {
		return
	}
	page := pageParam(c)

	items, total, err := h.bargainService.SellerBargains(c.Request.Context(), callerID, sellerID, c.Query("status"), page)
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.PaginationParams{Page: page, Limit: services.BargainPageSize}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(items, total, params))
}
