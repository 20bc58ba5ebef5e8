package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or falls back to a generic response.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			message := cs.Message
			if message == "" {
				message = err.Error()
			}
			c.JSON(cs.Status, NewErrorResponse(c, message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

// respondValidationError surfaces the field-level message from a validation
// failure with status 400.
func respondValidationError(c *gin.Context, err error) {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, ve.Message))
		return
	}
	c.JSON(http.StatusBadRequest, NewErrorResponse(c, "validation failed"))
}
