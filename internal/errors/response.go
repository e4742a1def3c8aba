package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope: {status, message} with the failure's
// HTTP status repeated in the body.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// SuccessResponse wraps every success body as {status, message, data?}.
type SuccessResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Conflicts (duplicate username, duplicate like/rating) answer 400, not 409.
var errorStatusMap = map[ErrorCode]int{
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,

	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidCredentials: http.StatusBadRequest,

	ErrBadRequest: http.StatusBadRequest,
	ErrValidation: http.StatusBadRequest,
	ErrNotFound:   http.StatusNotFound,
	ErrConflict:   http.StatusBadRequest,
}

// HTTPStatus resolves the status an error code answers with.
func HTTPStatus(code ErrorCode) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError writes the error envelope for err. Anything that is not an
// *AppError falls through to a generic 500.
func HandleError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		status := HTTPStatus(appErr.Code)

		resp := ErrorResponse{
			Status:  status,
			Message: appErr.Message,
		}
		if appErr.Code == ErrValidation && appErr.Err != nil {
			resp.Detail = appErr.Err.Error()
		}

		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	})
}

// HandleSuccess writes the success envelope with the given status.
func HandleSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Status:  status,
		Message: "OK",
		Data:    data,
	})
}
