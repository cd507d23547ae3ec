package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"webhook-inbox-go/internal/model"
)

const (
	// MaxTextLength is the maximum number of characters accepted in text
	MaxTextLength = 4096
	// MaxKeyLength bounds message_id, from, to and ts so every backend can
	// index them as stored
	MaxKeyLength = 768
)

// ErrValidation is wrapped by every parse failure
var ErrValidation = errors.New("validation error")

// envelope is the inbound JSON shape. Pointers distinguish missing keys from
// empty values.
type envelope struct {
	MessageID *string `json:"message_id" validate:"required,min=1,max=768"`
	From      *string `json:"from" validate:"required,min=1,max=768"`
	To        *string `json:"to" validate:"required,min=1,max=768"`
	Timestamp *string `json:"ts" validate:"required,max=768"`
	Text      *string `json:"text" validate:"omitempty,max=4096"`
}

// fields lists the envelope keys in the order they are checked
func (e *envelope) fields() []struct {
	name string
	dst  **string
} {
	return []struct {
		name string
		dst  **string
	}{
		{"message_id", &e.MessageID},
		{"from", &e.From},
		{"to", &e.To},
		{"ts", &e.Timestamp},
		{"text", &e.Text},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes and validates a raw webhook body into a message candidate.
// CreatedAt is left empty for the store to assign.
func Parse(body []byte) (*model.Message, error) {
	if len(body) == 0 {
		return nil, invalid("Empty request body")
	}
	if !utf8.Valid(body) {
		return nil, invalid("Invalid UTF-8 encoding")
	}
	if !json.Valid(body) {
		return nil, invalid("Invalid JSON")
	}
	if trimmed := bytes.TrimLeft(body, " \t\r\n"); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, invalid("Request body must be a JSON object")
	}

	// keys match exactly; struct decoding would also accept MESSAGE_ID or From
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, invalid("Invalid JSON")
	}

	var env envelope
	for _, f := range env.fields() {
		value, ok := raw[f.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return nil, invalid(fmt.Sprintf("field '%s' must be a string", f.name))
		}
	}

	if err := validate.Struct(env); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, invalid(describe(fieldErrs[0]))
		}
		return nil, invalid(err.Error())
	}

	return &model.Message{
		MessageID:   *env.MessageID,
		FromAddress: *env.From,
		ToAddress:   *env.To,
		Timestamp:   *env.Timestamp,
		Text:        env.Text,
	}, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", fe.Field())
	case "min":
		return fmt.Sprintf("field '%s' must not be empty", fe.Field())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// Reason strips the sentinel prefix for display to clients
func Reason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
