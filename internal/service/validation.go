package service

import (
	"fmt"

	dom "Social/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate = newValidator()

	passwordRule = fmt.Sprintf("min=%d", dom.MinPasswordLen)
	textRule     = fmt.Sprintf("notblank,max=%d", dom.MaxMessageText)
)

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func validateAccount(username, password string) error {
	if validate.Var(username, "notblank") != nil {
		return ErrBlankUsername
	}
	// Lengths are in characters, not bytes.
	if validate.Var(password, passwordRule) != nil {
		return ErrShortPassword
	}
	return nil
}

func validateMessageText(text string) error {
	if validate.Var(text, textRule) != nil {
		return ErrInvalidMessageText
	}
	return nil
}
