package handler

import (
	"net/http"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps a service failure to an HTTP response. Typed failures
// keep their machine code in the body; anything else is a 500 with the
// message passed through.
func writeError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := httpStatus(code)
	if code == "" {
		c.JSON(status, response.Error(status, err.Error()))
		return
	}
	c.JSON(status, response.ErrorWithCode(status, string(code), err.Error()))
}

func httpStatus(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeInvalidState, apperr.CodeInsufficientStock, apperr.CodeConcurrentModification:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
