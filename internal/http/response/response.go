package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitzurapp/qa-backend/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps err onto the stable error taxonomy: the HTTP status
// and code come from the sentinel wrapped in err, not from the handler.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(apperr.HTTPStatus(err), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apperr.Code(err),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
