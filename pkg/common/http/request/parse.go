package request

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-fifo/pkg/common/apperr"
	"github.com/huynhanx03/go-fifo/pkg/common/http/validation"
)

// ParseRequest binds URI parameters and, when present, the JSON body into a T,
// then validates it.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindUri(&req); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalidRequest, "invalid path parameters", http.StatusBadRequest)
	}

	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, apperr.Wrap(err, apperr.CodeInvalidRequest, "invalid request body", http.StatusBadRequest)
		}
	}

	if ok, msg := validation.IsRequestValid(req); !ok {
		return nil, apperr.New(apperr.CodeValidation, msg, http.StatusUnprocessableEntity, nil)
	}

	return &req, nil
}
