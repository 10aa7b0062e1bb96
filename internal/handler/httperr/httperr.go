package httperr

import (
	"net/http"

	"order-fulfillment/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Class   string `json:"class,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError records err on the context for the error middleware and
// writes the JSON body.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Class = string(errs.ClassOf(err))
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// StatusFor maps an error class to the HTTP status the API reports for it.
func StatusFor(err error) int {
	switch errs.ClassOf(err) {
	case errs.ClassValidation:
		return http.StatusBadRequest
	case errs.ClassNotFound:
		return http.StatusNotFound
	case errs.ClassConflict:
		return http.StatusConflict
	case errs.ClassRetriable:
		return http.StatusServiceUnavailable
	case errs.ClassPermanent:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AbortClassified aborts with the status derived from err's class. Unclassified
// errors get a generic message so internals do not leak.
func AbortClassified(c *gin.Context, err error, msg string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		AbortWithError(c, status, err, "Internal server error", nil)
		return
	}
	AbortWithError(c, status, err, msg, err.Error())
}
