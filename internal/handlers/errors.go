// internal/handlers/errors.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/apperrors"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

// respondError writes err using the status its kind maps to.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled error")
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if appErr.Kind == apperrors.KindValidation && appErr.Err != nil {
		if fields := utils.GetValidationErrors(appErr.Err); len(fields) > 0 {
			utils.ValidationErrorResponse(c, fields)
			return
		}
	}
	if appErr.Kind == apperrors.KindInternal {
		logrus.WithError(appErr).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, appErr.Error())
		return
	}

	utils.ErrorResponse(c, appErr.Status(), appErr.Code, appErr.Message, nil)
}
