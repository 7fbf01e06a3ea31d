package httpapi

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// StatusFor maps an error onto an HTTP status using its go-errors category.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerrors.IsValidation(err), goerrors.IsCategory(err, goerrors.CategoryBadInput):
		return http.StatusBadRequest
	case goerrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON payload written for failed requests.
type ErrorBody struct {
	Error  string                    `json:"error"`
	Fields goerrors.ValidationErrors `json:"fields,omitempty"`
}

// NewErrorBody builds the payload for err.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	if fields, ok := goerrors.GetValidationErrors(err); ok {
		body.Fields = fields
	}
	return body
}

// BadInput marks a malformed request payload.
func BadInput(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, msg)
}
