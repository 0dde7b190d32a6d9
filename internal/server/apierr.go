package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiError carries the HTTP status and machine-readable code of a failed
// request.
type apiError struct {
	Status int
	Code   string
	Err    error
}

func (e *apiError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *apiError) Unwrap() error { return e.Err }

func newAPIError(status int, code string, err error) *apiError {
	return &apiError{Status: status, Code: code, Err: err}
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

// respondError writes err as a JSON error envelope. Errors that are not an
// *apiError become 500s with a generic message.
func respondError(c *gin.Context, err error) {
	var ae *apiError
	if !errors.As(err, &ae) {
		_ = c.Error(err)
		ae = newAPIError(http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
	c.AbortWithStatusJSON(ae.Status, errorEnvelope{Error: errorPayload{Code: ae.Code, Message: ae.Error()}})
}
