package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)

// validUsername restricts usernames to letters, digits, dots and underscores.
func validUsername(fl validator.FieldLevel) bool {
	return usernameRe.MatchString(fl.Field().String())
}

// Register hooks custom validations into gin's binding engine. Safe to call
// more than once.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", validUsername)
	}
}
