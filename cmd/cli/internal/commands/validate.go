package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	errPasswordTooShort    = errors.New("password must be at least 8 characters long")
	errPasswordComposition = errors.New("password must contain at least one letter and one number")
	errPasswordMismatch    = errors.New("new passwords do not match")
	errCurrentPassword     = errors.New("current password is required to set a new password")
	errUsernameLength      = errors.New("username must be between 3 and 20 characters long")
	errInvalidEmail        = errors.New("invalid email address")
)

// formValidator checks the `validate` tags on command structs.
var formValidator = validator.New()

// validateForm runs the tag rules on form and reports the first failure in
// field order as a message fit for the terminal.
func validateForm(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "Username":
		return errUsernameLength
	case "Email":
		return errInvalidEmail
	case "CurrentPassword":
		return errCurrentPassword
	case "ConfirmPassword":
		return errPasswordMismatch
	case "Password", "NewPassword":
		switch fe.Tag() {
		case "min":
			return errPasswordTooShort
		case "containsany":
			return errPasswordComposition
		}
	}
	return fmt.Errorf("invalid %s (%s)", strings.ToLower(fe.Field()), fe.Tag())
}
