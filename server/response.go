package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as a structured error body. Fatal graph
// defects map to 409 Conflict, other application errors carry their own
// status and anything else becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	c.JSON(statusOf(appErr), appErr.ToResponse())
}

func statusOf(appErr *apperrors.AppError) int {
	switch {
	case apperrors.IsFatalCode(appErr.Code):
		return http.StatusConflict
	case appErr.HTTPStatus != 0:
		return appErr.HTTPStatus
	default:
		return http.StatusInternalServerError
	}
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
