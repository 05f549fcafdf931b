package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Field is a JSON body field that remembers whether it was present and
// whether it was null, so partial updates can tell "unchanged" from "clear".
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Present reports a non-null value was sent
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr returns the value when present, nil otherwise
func (f Field[T]) Ptr() *T {
	if !f.Present() {
		return nil
	}
	v := f.Value
	return &v
}

// OrZero returns the value when present, the zero value otherwise
func (f Field[T]) OrZero() T {
	if !f.Present() {
		var zero T
		return zero
	}
	return f.Value
}

// fieldValue exposes the wrapped value to the validator; unset and null
// fields validate as absent
func fieldValue(v reflect.Value) interface{} {
	switch f := v.Interface().(type) {
	case Field[string]:
		if f.Present() {
			return f.Value
		}
	case Field[[]string]:
		if f.Present() {
			return f.Value
		}
	}
	return nil
}

var setupValidator sync.Once

// registerValidations installs the custom types, tags and json field names on
// gin's validator engine
func registerValidations() {
	setupValidator.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(fieldValue, Field[string]{}, Field[[]string]{})
		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return graph.IsValidID(fl.Field().String())
		})
		_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
			u, err := url.ParseRequestURI(fl.Field().String())
			return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		})
		_ = v.RegisterValidation("nodekind", func(fl validator.FieldLevel) bool {
			return graph.NodeKind(fl.Field().String()).Valid()
		})
	})
}

// fieldLabels are the human names used in validation messages
var fieldLabels = map[string]string{
	"firstName":           "First name",
	"lastName":            "Last name",
	"name":                "Name",
	"description":         "Description",
	"dateOfBirth":         "Date of birth",
	"websites":            "Websites",
	"images":              "Images",
	"place":               "Place",
	"region":              "Region",
	"type":                "Entity type",
	"from":                "From",
	"to":                  "To",
	"fromModel":           "From model",
	"toModel":             "To model",
	"relationship":        "Relationship type",
	"reverseRelationship": "Reverse relationship type",
}

func label(field string) string {
	base := field
	if i := strings.IndexByte(field, '['); i >= 0 {
		base = field[:i]
	}
	if l, ok := fieldLabels[base]; ok {
		if base != field {
			return l + " " + field[len(base):]
		}
		return l
	}
	return field
}

func fieldMessage(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "objectid":
		return fmt.Sprintf("Invalid %s ID format", strings.ToLower(label(strings.SplitN(fe.Field(), "[", 2)[0])))
	case "weburl", "url":
		return "Invalid URL format"
	case "nodekind":
		return fmt.Sprintf("%s must be either Person or Entity", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// bindBody decodes and validates the JSON body into dst, collecting every
// failed check into one validation error
func bindBody(c *gin.Context, dst interface{}) error {
	registerValidations()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return apperrors.NewInvalidArgument("Unable to read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	err = c.ShouldBindJSON(dst)
	if err == nil {
		if v, ok := dst.(interface{ validate() []string }); ok {
			if details := v.validate(); len(details) > 0 {
				return apperrors.NewValidation(details)
			}
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
		if v, ok := dst.(interface{ validate() []string }); ok {
			details = append(details, v.validate()...)
		}
		return apperrors.NewValidation(details)
	}
	return apperrors.NewValidation([]string{decodeMessage(err)})
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s must be a %s", label(typeErr.Field), jsonKind(typeErr.Type))
	case errors.As(err, &syntaxErr):
		return "Request body must be valid JSON"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return strings.TrimPrefix(err.Error(), "json: unknown field ") + " is not allowed"
	default:
		return "Request body must be valid JSON"
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "number"
	default:
		return "string"
	}
}

// required checks a mandatory field. On create it must be sent; on update it
// may be omitted but never blanked.
func required(details []string, create bool, name string, f Field[string]) []string {
	if !create && !f.Set {
		return details
	}
	if !f.Present() || strings.TrimSpace(f.Value) == "" {
		details = append(details, fmt.Sprintf("%s is required", label(name)))
	}
	return details
}

// clearable maps a sent field to a patch value; null clears it
func clearable(f Field[string]) *string {
	if !f.Set {
		return nil
	}
	v := f.OrZero()
	return &v
}

// listPatch maps a sent list to a patch value; null empties it
func listPatch(f Field[[]string]) *[]string {
	if !f.Set {
		return nil
	}
	v := f.OrZero()
	if v == nil {
		v = []string{}
	}
	return &v
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
