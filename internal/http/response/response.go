package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datapar/analysis-backend/internal/platform/apierr"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondFromError maps a service error onto the wire using the closed
// error-kind taxonomy; anything unclassified is a 500.
func RespondFromError(c *gin.Context, err error) {
	ae := apierr.From(err)
	msg := ae.Message
	if msg == "" {
		msg = "Internal Server Error"
	}
	c.JSON(ae.Kind.Status(), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Kind.Code(),
			Details: ae.Details,
		},
	})
}
