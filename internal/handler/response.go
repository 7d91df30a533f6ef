package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Payphone-Digital/storefront/internal/constants"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/validation"
)

// respondError writes err as a JSON error with its domain code. Server-side
// failures are logged at error, client mistakes at warn.
func respondError(ctx context.Context, c *gin.Context, message string, err error) {
	status := apperrors.ToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, message).
			Int("http_status", status).
			Err(err).
			Log()
	} else {
		logger.WarnWithContext(ctx, message).
			Int("http_status", status).
			Err(err).
			Log()
	}

	response := constants.BuildErrorResponse(message, apperrors.GetErrorMessage(err))
	response[constants.ResponseFieldCode] = apperrors.GetErrorCode(err)
	c.JSON(status, response)
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(ctx context.Context, c *gin.Context, err error) {
	logger.WarnWithContext(ctx, "Invalid request").
		Err(err).
		Log()

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]validation.FieldError, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, e)
		}
		response := constants.BuildErrorResponse(constants.MsgValidationFailed, validation.Messages(fields))
		response[constants.ResponseFieldCode] = apperrors.ErrInvalidInput.Code
		c.JSON(http.StatusBadRequest, response)
		return
	}

	response := constants.BuildErrorResponse(constants.MsgBadRequest, err.Error())
	response[constants.ResponseFieldCode] = apperrors.ErrInvalidInput.Code
	c.JSON(http.StatusBadRequest, response)
}
