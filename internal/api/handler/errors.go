package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tmsftt/backend/pkg/apperrors"
	"tmsftt/backend/pkg/response"
)

// handleServiceError 按业务错误类别映射 HTTP 状态码。
// 非业务错误一律 500，不向客户端透出内部细节。
func handleServiceError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		response.BadRequest(c, 10001, err.Error())
	case apperrors.KindNotFound:
		response.NotFound(c, 10404, err.Error())
	case apperrors.KindStateConflict:
		response.Error(c, http.StatusConflict, 10409, err.Error())
	case apperrors.KindIntegrity:
		response.Error(c, http.StatusInternalServerError, 10500, err.Error())
	default:
		response.InternalError(c)
	}
}
