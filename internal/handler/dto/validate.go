package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/easydelivery/easydelivery/internal/model"
)

// ValidationError describes why a request body was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks req against its struct tags.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalid("invalid request: %v", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{Message: strings.Join(msgs, "; ")}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be an RFC 3339 timestamp"
	case "max", "lte":
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}

// DecodeDocument reads a JSON object body, validates it against schema and
// returns the full document. schema must be a pointer to a request struct.
// Unknown fields are kept in the document.
func DecodeDocument(body io.Reader, schema any) (model.Document, error) {
	raw, err := readBody(body)
	if err != nil {
		return nil, err
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, invalid("request body must be a JSON object")
	}

	if err := decodeInto(raw, schema); err != nil {
		return nil, err
	}

	return doc, nil
}

// Decode reads a JSON object body into schema and validates it.
func Decode(body io.Reader, schema any) error {
	raw, err := readBody(body)
	if err != nil {
		return err
	}
	return decodeInto(raw, schema)
}

func readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, invalid("request body is required")
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, invalid("request body too large")
		}
		return nil, invalid("failed to read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, invalid("request body is required")
	}
	return raw, nil
}

// decodeInto fills schema from the exact-case keys of the body, so the values
// validated are the values stored. encoding/json alone would also match
// "Email" or "EMAIL" against the email field.
func decodeInto(raw []byte, schema any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return invalid("request body must be a JSON object")
	}

	known := make(map[string]json.RawMessage)
	for _, name := range fieldNames(reflect.TypeOf(schema)) {
		if v, ok := fields[name]; ok {
			known[name] = v
		}
	}

	canonical, err := json.Marshal(known)
	if err != nil {
		return invalid("request body must be a JSON object")
	}

	if err := json.Unmarshal(canonical, schema); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return invalid("%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
		}
		return invalid("request body must be a JSON object")
	}
	return Validate(schema)
}

// fieldNames lists the json names of a request struct's fields.
func fieldNames(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a " + t.Kind().String()
	}
}
