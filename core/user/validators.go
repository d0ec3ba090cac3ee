package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/shule/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	// password policy
	pwdMinLen     = 6
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to other user attributes"
)

// InitValidators registers the user app's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

// roleValidation checks that a role value belongs to the closed Role set.
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}

func pwdError(text string) error {
	return core.NewValidationError(errors.New(text), core.FieldError{Field: "password", Error: text})
}

// validatePassword enforces the password policy; usrAttrs are attributes of the
// user (name, email, ..) that the password may not be too similar to.
func validatePassword(pwd string, usrAttrs ...string) error {
	var digitCount int

	if len(pwd) < pwdMinLen {
		return pwdError(pwdMinLenText)
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return pwdError(pwdNoSpaceText)
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}

	if digitCount == len(pwd) {
		return pwdError(pwdNotAllNumText)
	}

	for _, attr := range usrAttrs {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return pwdError(pwdAttrSimText)
		}
	}
	return nil
}
