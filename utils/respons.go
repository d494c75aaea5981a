package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	ErrorKind ErrorKind   `json:"error_kind,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the structured error shape. AppErrors keep their kind
// and status mapping; anything else is reported as internal without leaking
// the underlying detail.
func RespondError(c *gin.Context, err error) {
	kind := KindOf(err)

	message := "internal server error"
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.JSON(StatusFor(kind), JSONResponse{
		Status:    false,
		Message:   message,
		ErrorKind: kind,
	})
}

// RespondErrorWithData is for failures that still return a best-known
// resource, e.g. a gateway poll that fails after the order was persisted.
func RespondErrorWithData(c *gin.Context, err error, data interface{}) {
	kind := KindOf(err)

	message := "internal server error"
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.JSON(StatusFor(kind), JSONResponse{
		Status:    false,
		Message:   message,
		ErrorKind: kind,
		Data:      data,
	})
}
