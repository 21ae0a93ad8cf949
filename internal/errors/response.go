package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for every error the API returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail holds the machine code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError writes a JSON error response and aborts the request.
func RespondWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusBadRequest, code, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusUnauthorized, code, message)
}

// Forbidden writes a 403 response.
func Forbidden(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusForbidden, code, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusNotFound, code, message)
}

// Conflict writes a 409 response.
func Conflict(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusConflict, code, message)
}

// UnprocessableEntity writes a 422 response.
func UnprocessableEntity(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, code, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusInternalServerError, code, message)
}

// RespondWithDBError classifies a database error and writes the
// corresponding response.
func RespondWithDBError(c *gin.Context, err error) {
	info := ParseDBError(err)
	RespondWithError(c, info.StatusCode, info.Code, info.Message)
}
