package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Validator checks request structs against their validate tags. Field names
// in errors are the JSON names the client sent.
type Validator struct {
	validate *validator.Validate
}

var sharedValidator = sync.OnceValue(func() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("wallet", validateWallet)
	return &Validator{validate: v}
})

// GetValidator returns the process-wide validator
func GetValidator() *Validator {
	return sharedValidator()
}

func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FormatValidationError maps each failing field to a client-facing message
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = fieldMessage(e)
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "wallet":
		return "Must be a 0x-prefixed 20-byte hex address"
	case "hexadecimal":
		return "Must be hex encoded"
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", e.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "excludesall":
		return "Contains invalid characters"
	}
	return "Invalid value"
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	}
	return name
}

// validateWallet accepts 0x-prefixed 40 hex digit addresses in any case
func validateWallet(fl validator.FieldLevel) bool {
	wallet := fl.Field().String()
	return strings.HasPrefix(wallet, "0x") && common.IsHexAddress(wallet)
}
