// Package validation checks request payloads before they reach the services.
// Struct rules are declared as validate tags on the request types.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// Common validation errors
var (
	ErrInvalidUUID   = fmt.Errorf("invalid UUID format")
	ErrInvalidSymbol = fmt.Errorf("invalid symbol")
)

// Taiwanese codes: four to six digits, optionally followed by one letter (e.g. 2330, 00878, 00632R).
var symbolRegex = regexp.MustCompile(`^[0-9]{4,6}[A-Z]?$`)

// Error reports every rejected field with a message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Compare decimals numerically with gt/gte/lte.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("date", validateDate)
	_ = v.RegisterValidation("symbol", validateSymbol)
	_ = v.RegisterValidation("market", validateMarket)
	_ = v.RegisterValidation("classification", validateClassification)

	return v
}

// Struct validates a request against its validate tags.
// Returns an *Error naming each invalid field, or nil.
func Struct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = message(fe)
	}
	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "date":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", fe.Field())
	case "symbol":
		return fmt.Sprintf("invalid symbol: %v", fe.Value())
	case "market":
		return fmt.Sprintf("invalid market: %v (expected %s or %s)", fe.Value(), model.MarketTWSE, model.MarketTPEx)
	case "classification":
		return fmt.Sprintf("invalid classification: %v", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateSymbol checks if a string is a Taiwanese stock code
func ValidateSymbol(symbol string) error {
	if !symbolRegex.MatchString(symbol) {
		return fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	}
	return nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func validateSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}

func validateMarket(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.MarketTWSE, model.MarketTPEx:
		return true
	}
	return false
}

func validateClassification(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.ClassificationStock, model.ClassificationETF, model.ClassificationBondETF:
		return true
	}
	return false
}
