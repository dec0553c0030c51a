package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)

var standalone = validator.New()

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var registerOnce sync.Once

// Register installs the custom validators and makes field errors report json
// names. It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return ValidateUsername(fl.Field().String()) == nil
		})
	})
}

// ValidateUsername checks length, charset and hyphen placement
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "must be 3-50 characters of letters, digits, '_' or '-'"}
	}
	if strings.HasPrefix(username, "-") || strings.HasSuffix(username, "-") {
		return ValidationError{Field: "username", Message: "must not start or end with '-'"}
	}
	return nil
}

// ValidateEmail checks that email is a well formed address of at most 255
// characters
func ValidateEmail(email string) error {
	if err := standalone.Var(email, "required,email,max=255"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ValidationError{Field: "email", Message: describe(verrs[0])}
		}
		return ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

// ValidatePassword requires at least 8 characters with a letter and a digit
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ValidationError{Field: "password", Message: "must contain at least one letter and one digit"}
	}
	return nil
}

// Fields converts a binding or domain validation error into a field -> message
// map. It returns nil when err carries no field information.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
		return fields
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return map[string]string{ve.Field: ve.Message}
	}
	return nil
}

// Respond writes a 400 validation response for err
func Respond(c *gin.Context, err error) {
	fields := Fields(err)
	if fields == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": map[string]string{"body": "invalid request body"}})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "username":
		return "must be 3-50 characters of letters, digits, '_' or '-'"
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
