/*
Package validation provides reusable validation for configuration values.

Scalar helpers return *errors.ValidationError values that match
errors.ErrInvalidConfiguration:

	if err := validation.ValidatePositiveFloat("throttle", "rate", rate); err != nil {
		return nil, err
	}

ValidateStruct runs go-playground/validator over `validate` struct tags and
reports the first failing field, named after its yaml tag:

	type Job struct {
		Name  string `yaml:"name" validate:"required"`
		Calls int    `yaml:"calls" validate:"gt=0"`
	}

	err := validation.ValidateStruct("config", job)
	// config: invalid calls=0 (calls must be greater than 0) - value must be greater than 0
*/
package validation
