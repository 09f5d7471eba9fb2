// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const (
	userSearchPageSize = 20
	followPageSize     = 20
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// POST /users/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, services.ErrNoFilesUploaded)
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, header)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserAvatarUpdated),
		"user":    user,
	})
}

// GET /users/search?username=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c, userSearchPageSize)

	users, total, err := h.userService.SearchUsers(c.Request.Context(), c.Query("username"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// GET /users/profile/:username
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"profile": profile,
	})
}

// GET /users/mentions?q=
func (h *UserHandler) Mentions(c *gin.Context) {
	users, err := h.userService.Mentions(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"users": users,
	})
}

// PUT /users/holiday-mode
func (h *UserHandler) SetHolidayMode(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		HolidayMode *bool `json:"holiday_mode" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userService.SetHolidayMode(c.Request.Context(), userID, *req.HolidayMode)
	if err != nil {
		respondError(c, err)
		return
	}

	key := i18n.KeyUserHolidayOff
	if result.HolidayMode {
		key = i18n.KeyUserHolidayOn
	}
	utils.SuccessResponse(c, gin.H{
		"message":          i18n.T(lang, key),
		"holiday_mode":     result.HolidayMode,
		"products_updated": result.ProductsUpdated,
	})
}

// POST /users/follow/:id
func (h *UserHandler) Follow(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Follow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserFollowed),
	})
}

// POST /users/unfollow/:id
func (h *UserHandler) Unfollow(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserUnfollowed),
	})
}

// GET /users/followers/:id
func (h *UserHandler) Followers(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c, followPageSize)

	users, total, err := h.userService.Followers(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// GET /users/following/:id
func (h *UserHandler) Following(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c, followPageSize)

	users, total, err := h.userService.Following(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// POST /users/report
func (h *UserHandler) Report(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.ReportUserRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.userService.Report(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserReported),
		"report":  report,
	})
}
