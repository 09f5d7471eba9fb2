// internal/handlers/comment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const commentPageSize = 10

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// POST /comments/:id where id is the product
func (h *CommentHandler) CreateComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), userID, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCommentCreated),
		"comment": comment,
	})
}

// POST /comments/:id/replies where id is the comment
func (h *CommentHandler) CreateReply(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.commentService.CreateReply(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReplyCreated),
		"reply":   reply,
	})
}

// GET /comments/product/:productId
func (h *CommentHandler) ListByProduct(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c, commentPageSize)

	comments, total, err := h.commentService.ListByProduct(c.Request.Context(), productID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(comments, total, params))
}
