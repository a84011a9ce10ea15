// Package validation checks request payloads with go-playground/validator and
// reports failures as a list of field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"geni-palette/internal/colorspace"
	"geni-palette/internal/model"
	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every *Error.
var ErrValidation = errors.New("validation failed")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an input validation failure. It never reaches the generator.
type Error struct {
	Fields []FieldError `json:"details"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// First returns the first field message, or a generic one.
func (e *Error) First() string {
	if len(e.Fields) == 0 {
		return "Invalid Values"
	}
	return e.Fields[0].Message
}

// NewError builds an *Error from explicit field messages.
func NewError(fields ...FieldError) *Error {
	return &Error{Fields: fields}
}

type Validator struct {
	v *validator.Validate
}

var (
	hasLetter           = regexp.MustCompile(`[A-Za-z]`)
	instructionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(create|generate|make|give me|show me|build|add|remove|delete|update|change|modify)\b`),
		regexp.MustCompile(`(?i)\b(how to|what is|why|when|where|who)\b`),
		regexp.MustCompile(`(?i)\b(please|can you|could you|would you|will you)\b`),
		regexp.MustCompile(`(?i)\b(instruction|command|task|action|step|process)\b`),
		regexp.MustCompile(`(?i)\b(ignore|disregard|forget|override|bypass)\b`),
	}
)

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("harmony", func(fl validator.FieldLevel) bool {
		return model.HarmonyType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return colorspace.IsHex(fl.Field().String())
	})
	_ = v.RegisterValidation("hasletter", func(fl validator.FieldLevel) bool {
		return hasLetter.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return !LooksLikeInstruction(fl.Field().String())
	})

	return &Validator{v: v}
}

// LooksLikeInstruction reports whether a prompt reads as a command rather
// than a mood, theme or concept.
func LooksLikeInstruction(s string) bool {
	for _, p := range instructionPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Validate returns nil or an *Error listing every failing field, sorted by field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fieldPath(fe), Message: friendlyMessage(fe)})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &Error{Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func friendlyMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be %s characters or less", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "harmony":
		return "must be one of: " + harmonyList()
	case "hexcolor6":
		return "must be a #RRGGBB hex color"
	case "hasletter":
		return "must contain at least one letter"
	case "theme":
		return "should describe a mood, theme, or concept"
	default:
		return "is invalid"
	}
}

func harmonyList() string {
	names := make([]string, 0, len(model.HarmonyTypes))
	for _, t := range model.HarmonyTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, " ")
}
