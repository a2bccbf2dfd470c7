package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pdv/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// SetupValidator configures gin's validator: violations are reported under
// the JSON (or query) field name, and decimal amounts validate as numbers so
// tags such as gt=0 apply to them.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}

// BindJSON decodes and validates the request body into obj. On failure it
// writes a 400 listing every violation and returns false; the caller must
// return without touching the response.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithViolations(c, FormatValidationErrors(err, "body"))
		return false
	}
	return true
}

// BindQuery decodes and validates the query string into obj, with the same
// contract as BindJSON.
func BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		abortWithViolations(c, FormatValidationErrors(err, "query"))
		return false
	}
	return true
}

// ParseUUIDParam parses a path parameter as a UUID. An invalid value is
// reported as a violation of that parameter.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithViolations(c, []dto.ValidationError{{Field: name, Message: "Invalid UUID format"}})
		return uuid.Nil, false
	}
	return id, true
}

// FormatValidationErrors turns a bind error into field violations. Errors
// that name no field are reported against source ("body" or "query").
func FormatValidationErrors(err error, source string) []dto.ValidationError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationError, 0, len(validationErrs))
		for _, e := range validationErrs {
			details = append(details, dto.ValidationError{
				Field:   fieldPath(e),
				Message: getValidationMessage(e),
			})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []dto.ValidationError{{Field: typeErr.Field, Message: "Must be of type " + typeErr.Type.String()}}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return []dto.ValidationError{{Field: source, Message: "Request body is too large"}}
	}

	if errors.Is(err, io.EOF) {
		return []dto.ValidationError{{Field: source, Message: "Request body is required"}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []dto.ValidationError{{Field: source, Message: "Malformed JSON"}}
	}
	if source == "query" {
		return []dto.ValidationError{{Field: source, Message: "Invalid query parameter"}}
	}
	return []dto.ValidationError{{Field: source, Message: "Invalid request"}}
}

// AbortWithValidationError answers 400 with a single field violation
func AbortWithValidationError(c *gin.Context, field, message string) {
	abortWithViolations(c, []dto.ValidationError{{Field: field, Message: message}})
}

func abortWithViolations(c *gin.Context, details []dto.ValidationError) {
	resp := dto.NewValidationErrorResponse(details)
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// fieldPath drops the top-level struct name so nested fields read as
// "items[0].quantity"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if isString(e) {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if isString(e) {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	case "numeric":
		return "Must be numeric"
	default:
		return "Invalid value"
	}
}

func isString(e validator.FieldError) bool {
	return e.Kind() == reflect.String
}
