// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const productCardPageSize = 15

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// POST /products/upload-images
func (h *ProductHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, services.ErrNoFilesUploaded)
		return
	}

	results, err := h.productService.UploadImages(c.Request.Context(), form.File["images"])
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductImagesUploaded),
		"files":   results,
	})
}

// POST /products/upload-video
func (h *ProductHandler) UploadVideo(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile("video")
	if err != nil {
		respondError(c, services.ErrNoFilesUploaded)
		return
	}

	result, err := h.productService.UploadVideo(c.Request.Context(), header)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductVideoUploaded),
		"file":    result,
	})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), sellerID, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sellerID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), sellerID, productID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.productService.GetProduct(c.Request.Context(), productID, utils.GetViewerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": view,
	})
}

// GET /products/slug/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	view, err := h.productService.GetProductBySlug(c.Request.Context(), c.Param("slug"), utils.GetViewerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": view,
	})
}

// GET /products/cards
func (h *ProductHandler) GetCards(c *gin.Context) {
	params := utils.GetPaginationParams(c, productCardPageSize)

	filter := services.CardFilter{
		Category:         params.Category,
		Status:           c.Query("status"),
		Condition:        c.Query("condition"),
		Search:           params.Search,
		PaginationParams: params,
	}

	cards, total, err := h.productService.ListCards(c.Request.Context(), filter, utils.GetViewerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(cards, total, params))
}

// GET /products/cards/seller/:sellerId
func (h *ProductHandler) GetSellerCards(c *gin.Context) {
	sellerID, ok := uuidParam(c, "sellerId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c, productCardPageSize)

	cards, total, err := h.productService.SellerCards(c.Request.Context(), sellerID, params, utils.GetViewerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(cards, total, params))
}
