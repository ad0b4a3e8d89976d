package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a request whose input failed validation.
// Surfaced as HTTP 400 with the offending fields enumerated.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NotFoundError rejects a request referencing an entity that does not exist.
// Surfaced as HTTP 404.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// StorageError wraps an unexpected persistence failure. Surfaced as HTTP 500;
// the underlying error is logged, never returned to the client.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func storeErr(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// UploadError rejects an invalid file upload before any state is mutated.
// Surfaced as HTTP 400.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string { return e.Reason }

type errorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// HTTPErrorHandler maps the application error taxonomy onto JSON responses.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		ve *ValidationError
		nf *NotFoundError
		se *StorageError
		ue *UploadError
		he *echo.HTTPError
	)

	status := http.StatusInternalServerError
	resp := errorResponse{Message: "internal server error"}

	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		resp = errorResponse{Message: "validation failed", Errors: ve.Fields}
	case errors.As(err, &nf):
		status = http.StatusNotFound
		resp = errorResponse{Message: nf.Error()}
	case errors.As(err, &ue):
		status = http.StatusBadRequest
		resp = errorResponse{Message: ue.Error()}
	case errors.As(err, &se):
		zap.L().Error("storage failure", zap.String("op", se.Op), zap.Error(se.Err))
	case errors.As(err, &he):
		status = he.Code
		resp = errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	default:
		zap.L().Error("unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, resp)
}

// requestValidator adapts go-playground/validator to echo's Validator
// interface, turning tag failures into the API's field-error shape.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator installed on the echo instance.
// Field names in error output come from json tags, not Go field names.
func NewValidator() echo.Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidField("body", "is malformed")
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: tagMessage(fe)})
	}
	return &ValidationError{Fields: fields}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "e164":
		return "must be a valid E.164 phone number"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be " + fe.Param() + " characters or fewer"
		}
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
