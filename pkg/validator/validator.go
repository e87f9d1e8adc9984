package validator

import (
	"errors"
	"reflect"
	"strings"

	validators "github.com/go-playground/validator/v10"

	"alto-client/internal/domain"
)

// Validator interface
type Validator interface {
	ValidateStruct(inf interface{}) error
}

type validator struct {
	validator *validators.Validate
}

// New Validator func - field errors are keyed by their json name
func New() Validator {
	v := validators.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &validator{
		validator: v,
	}
}

// ValidateStruct func - returns *domain.ValidationError with one entry per failing field
func (v *validator) ValidateStruct(inf interface{}) error {
	err := v.validator.Struct(inf)
	if err == nil {
		return nil
	}

	var fieldErrs validators.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldPath drops the root struct name: "ChatResponse.analysis.scores.total_score" -> "analysis.scores.total_score"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
