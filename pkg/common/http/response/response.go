package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-fifo/pkg/common/apperr"
)

// Response codes
const (
	CodeSuccess          = 20000
	CodeParamInvalid     = apperr.CodeInvalidRequest
	CodeValidationFailed = apperr.CodeValidation
	CodeInternalServer   = apperr.CodeInternal
)

var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamInvalid:     "invalid parameters",
	CodeValidationFailed: "validation failed",
	CodeInternalServer:   "internal server error",
}

var codeStatus = map[int]int{
	CodeSuccess:          http.StatusOK,
	CodeParamInvalid:     http.StatusBadRequest,
	CodeValidationFailed: http.StatusUnprocessableEntity,
	CodeInternalServer:   http.StatusInternalServerError,
}

// Response is the JSON envelope of every reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SuccessResponse writes data with HTTP 200.
func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: codeMessages[code],
		Data:    data,
	})
}

// ErrorResponse writes err and aborts the chain. An *apperr.AppError anywhere
// in err's chain decides code and status; otherwise code is used.
func ErrorResponse(c *gin.Context, code int, err error) {
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	msg := codeMessages[code]

	var appErr *apperr.AppError
	if err != nil {
		_ = c.Error(err)
		if ae := apperr.From(err); ae != nil && ae.Code != apperr.CodeInternal {
			appErr = ae
		}
	}
	if appErr != nil {
		code, msg = appErr.Code, appErr.Message
		if appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
	}

	resp := Response{Code: code, Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}
