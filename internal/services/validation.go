package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct maps validator failures to invalid errors. A missing required field reports as
// missing_fields; any other failed tag as invalid_body.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return NewInvalidError("err.missing_fields", "required fields missing")
		}
	}
	return NewInvalidError("err.invalid_body", verrs[0].Field()+" is invalid")
}
