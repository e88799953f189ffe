package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/productdesk/internal/domain"
)

// Response is the success envelope
type Response struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Data: data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

// failErr renders a catalog error with the status its code maps to.
func failErr(c echo.Context, err error, details interface{}) error {
	return fail(c, statusOf(err), string(domain.CodeOf(err)), domain.MessageOf(err), details)
}

func statusOf(err error) int {
	switch domain.CodeOf(err) {
	case domain.CodeValidation, domain.CodeNoPendingEdit:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeRemote:
		return http.StatusBadGateway
	case domain.CodeStorageQuota:
		return http.StatusInsufficientStorage
	case domain.CodeDecode:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
