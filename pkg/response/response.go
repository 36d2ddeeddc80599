// Package response defines the JSON envelope returned by every API
// endpoint, plus canned error responses and validation error formatting.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Error:   "Empty Request Body",
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Error:   "Bad Request",
	Message: "The request could not be processed. Please check your input.",
}

var UnauthorizedResponse = Response{
	Status:  StatusError,
	Error:   "Unauthorized",
	Message: "Authentication is required to access this resource.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Error:   "Resource Not Found",
	Message: "The requested resource was not found.",
}

var TooManyRequestsResponse = Response{
	Status:  StatusError,
	Error:   "Too Many Requests",
	Message: "Request rate limit exceeded. Please try again later.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Error:   "Server Error",
	Message: "An internal server error occurred. Please try again later.",
}

// Response is the envelope wrapping every API payload.
type Response struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// SuccessResponse builds a success envelope. Only the first data value, if
// any, is attached.
func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 && data[0] != nil {
		resp.Data = data[0]
	}

	return resp
}

// ConflictResponse builds an error envelope for duplicate-resource cases.
func ConflictResponse(msg string) Response {
	return Response{
		Status:  StatusError,
		Error:   "Conflict",
		Message: msg,
	}
}

// validationError describes a single failed validation rule.
type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

// getValidationErrors converts validator errors into response details.
func getValidationErrors(err error) []validationError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	errs := make([]validationError, 0, len(validationErrs))

	for _, err := range validationErrs {
		e := validationError{
			Field: err.Field(),
			Value: err.Value(),
		}

		switch err.Tag() {
		case "required":
			e.Issue = "This field is required."
		case "min":
			e.Issue = fmt.Sprintf("Must be at least %s characters long.", err.Param())
		case "max":
			e.Issue = fmt.Sprintf("Must be at most %s characters long.", err.Param())
		case "email":
			e.Issue = "Invalid email."
		case "oneof":
			e.Issue = fmt.Sprintf("Must be one of: %s.", err.Param())
		default:
			e.Issue = fmt.Sprintf("Invalid %s.", err.Tag())
		}

		errs = append(errs, e)
	}

	return errs
}

// ValidationErrorResponse builds an error envelope carrying per-field
// validation details.
func ValidationErrorResponse(err error) Response {
	resp := Response{
		Status:  StatusError,
		Error:   "Validation Error",
		Message: "The provided data is invalid. Please check your input.",
	}

	for _, e := range getValidationErrors(err) {
		resp.Details = append(resp.Details, e)
	}

	return resp
}
